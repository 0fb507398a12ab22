package dish

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/cafeteria/core"
)

// Upstream generator payload:
// {"dishes": [{"dish_name": "...", "items": [{"name", "energy", "carbs", "protein", "fat", "grams"}]}]}
type (
	upstreamItem struct {
		Name    string   `json:"name" validate:"required"`
		Energy  *float64 `json:"energy" validate:"required,min=0"`
		Carbs   *float64 `json:"carbs" validate:"required,min=0"`
		Protein *float64 `json:"protein" validate:"required,min=0"`
		Fat     *float64 `json:"fat" validate:"required,min=0"`
		Grams   *float64 `json:"grams" validate:"omitempty,min=0"`
	}

	upstreamDish struct {
		DishName string         `json:"dish_name" validate:"required"`
		Items    []upstreamItem `json:"items" validate:"dive"`
	}

	upstreamMenu struct {
		Dishes []upstreamDish `json:"dishes" validate:"required,min=1,dive"`
	}
)

// ParseMenu checks the upstream payload against its expected shape and maps it to catalog entries.
// Nutrition facts are taken from the first item; ingredients are the item names.
func ParseMenu(payload []byte, v *core.Validator) ([]NewDish, error) {
	var menu upstreamMenu
	if err := json.Unmarshal(payload, &menu); err != nil {
		return nil, core.NewValidationError(errors.Wrap(err, "decoding upstream menu"))
	}
	if err := v.Struct(menu); err != nil {
		return nil, err
	}

	nds := make([]NewDish, 0, len(menu.Dishes))
	for _, d := range menu.Dishes {
		nd := NewDish{
			Name:        d.DishName,
			Description: d.DishName,
			Ingredients: make([]string, 0, len(d.Items)),
		}
		if len(d.Items) > 0 {
			first := d.Items[0]
			nd.Nutrition = Nutrition{
				Calories: *first.Energy,
				Protein:  *first.Protein,
				Carbs:    *first.Carbs,
				Fat:      *first.Fat,
			}
		}
		for _, it := range d.Items {
			nd.Ingredients = append(nd.Ingredients, it.Name)
		}
		nds = append(nds, nd)
	}
	return nds, nil
}
