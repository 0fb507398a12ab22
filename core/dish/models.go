package dish

import (
	"time"

	"github.com/trezcool/cafeteria/core"
)

type Nutrition struct {
	Calories float64 `json:"calories" yaml:"calories" validate:"min=0"`
	Protein  float64 `json:"protein" yaml:"protein" validate:"min=0"`
	Carbs    float64 `json:"carbs" yaml:"carbs" validate:"min=0"`
	Fat      float64 `json:"fat" yaml:"fat" validate:"min=0"`
}

// Dish is a generated menu entry. Dishes are never updated once stored.
// Name is the key orders and ratings refer to; ID is a storage detail.
type Dish struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Nutrition   Nutrition `json:"nutrition"`
	Ingredients []string  `json:"ingredients"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// NewDish contains information needed to add a Dish to the catalog.
type NewDish struct {
	Name        string    `json:"name" yaml:"name" validate:"required"`
	Description string    `json:"description" yaml:"description"`
	Image       string    `json:"image" yaml:"image"`
	Nutrition   Nutrition `json:"nutrition" yaml:"nutrition"`
	Ingredients []string  `json:"ingredients" yaml:"ingredients"`
}

func (nd *NewDish) Clean() {
	nd.Name = core.CleanString(nd.Name)
	nd.Description = core.CleanString(nd.Description)
	if nd.Description == "" {
		nd.Description = nd.Name
	}
	ingredients := make([]string, 0, len(nd.Ingredients))
	for _, ing := range nd.Ingredients {
		if ing = core.CleanString(ing); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}
	nd.Ingredients = ingredients
}

// Menu is the typed seed file format: `dishes: [...]`.
type Menu struct {
	Dishes []NewDish `json:"dishes" yaml:"dishes"`
}
