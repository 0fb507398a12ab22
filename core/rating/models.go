package rating

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/cafeteria/core"
)

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Aggregate is the running mean of all ratings given to a dish.
// Avg and Count are always written together; Avg is null while Count is 0.
type Aggregate struct {
	DishName  string       `json:"dishName"`
	Avg       null.Float64 `json:"avg"`
	Count     int          `json:"count"`
	UpdatedAt null.Time    `json:"updatedAt"` // UTC
}

// Empty is the aggregate of a dish nobody rated yet.
func Empty(dishName string) Aggregate {
	return Aggregate{DishName: dishName}
}

// Fold adds rating `r` to the aggregate: avg = (avg*count + r) / (count+1).
func Fold(agg Aggregate, r float64, at time.Time) Aggregate {
	if agg.Count == 0 || !agg.Avg.Valid {
		agg.Avg = null.Float64From(r)
		agg.Count = 1
	} else {
		n := float64(agg.Count)
		agg.Avg = null.Float64From((agg.Avg.Float64*n + r) / (n + 1))
		agg.Count++
	}
	agg.UpdatedAt = null.TimeFrom(at)
	return agg
}

// NewRating contains information needed to rate a dish.
type NewRating struct {
	DishName string   `json:"dishName" validate:"required"`
	Rating   *float64 `json:"rating" validate:"required,min=1,max=5"`
}

func (nr *NewRating) Clean() {
	nr.DishName = core.CleanString(nr.DishName)
}
