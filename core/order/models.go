package order

import (
	"encoding/json"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/cafeteria/core"
)

// Nutrition is the snapshot of the ordered Dish's facts, taken at order time.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
}

func (n Nutrition) times(q int) Nutrition {
	f := float64(q)
	return Nutrition{Calories: n.Calories * f, Proteins: n.Proteins * f, Fats: n.Fats * f, Carbs: n.Carbs * f}
}

func (n Nutrition) add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		Proteins: n.Proteins + o.Proteins,
		Fats:     n.Fats + o.Fats,
		Carbs:    n.Carbs + o.Carbs,
	}
}

// Order is immutable once created, except for the one-way Delivered flag.
type Order struct {
	ID       string `json:"id"`
	DishName string `json:"dish_id"`
	Nutrition
	Student     string    `json:"student"`
	Code        string    `json:"code"`
	Datetime    time.Time `json:"datetime"` // UTC
	Quantity    int       `json:"quantity"`
	Delivered   bool      `json:"delivered"`
	DeliveredAt null.Time `json:"delivered_at"` // UTC
	CreatedAt   time.Time `json:"created_at"`   // UTC
}

// MarshalJSON also exposes the dish name as "dish", which the admin dashboard reads.
func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	return json.Marshal(struct {
		alias
		Dish string `json:"dish"`
	}{alias(o), o.DishName})
}

// NewOrder contains information needed to place an Order.
// DishName is bound from "dish_id", which carries the dish name.
type NewOrder struct {
	DishName string `json:"dish_id" validate:"required"`
	Datetime string `json:"datetime" validate:"required,iso8601"`
	Code     string `json:"code" validate:"required,ucode"`
	Quantity *int   `json:"quantity" validate:"omitempty,min=1,max=100"`
	Student  string `json:"-"` // requester identity, if known
}

func (no *NewOrder) Clean() {
	no.DishName = core.CleanString(no.DishName)
	no.Datetime = core.CleanString(no.Datetime)
	no.Code = core.CleanString(no.Code)
	no.Student = core.CleanString(no.Student)
}

// UpdateDelivery is the only accepted update on an Order.
type UpdateDelivery struct {
	Delivered *bool `json:"delivered" validate:"required"`
}
