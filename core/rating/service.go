package rating

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/cafeteria/core"
)

var (
	// errors
	ErrNotRated = errors.New("dish not rated yet")

	errDishNameRequired = core.NewFieldError("dishName", "dishName is required")
)

type (
	Repository interface {
		// AddRating folds `r` into the dish's aggregate as one atomic read-modify-write,
		// creating the aggregate on the first rating.
		AddRating(ctx context.Context, dishName string, r float64, at time.Time) (Aggregate, error)
		// GetRating fails with ErrNotRated if the dish has no aggregate.
		GetRating(ctx context.Context, dishName string) (Aggregate, error)
		// QueryAllRatings returns all aggregates, best average first.
		QueryAllRatings(ctx context.Context) ([]Aggregate, error)
	}

	Service struct {
		repo      Repository
		validator *core.Validator
	}
)

func NewService(repo Repository, v *core.Validator) *Service {
	return &Service{repo: repo, validator: v}
}

// Submit validates `nr` and folds the rating into the dish aggregate.
func (svc *Service) Submit(ctx context.Context, nr NewRating) (Aggregate, error) {
	nr.Clean()
	if err := svc.validator.Struct(nr); err != nil {
		return Aggregate{}, err
	}
	return svc.repo.AddRating(ctx, nr.DishName, *nr.Rating, time.Now().UTC())
}

// Get returns the dish aggregate; {avg: null, count: 0} for dishes never rated.
func (svc *Service) Get(ctx context.Context, dishName string) (Aggregate, error) {
	dishName = core.CleanString(dishName)
	if dishName == "" {
		return Aggregate{}, errDishNameRequired
	}
	agg, err := svc.repo.GetRating(ctx, dishName)
	if err != nil {
		if pkgerrors.Cause(err) == ErrNotRated {
			return Empty(dishName), nil
		}
		return Aggregate{}, err
	}
	return agg, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Aggregate, error) {
	return svc.repo.QueryAllRatings(ctx)
}
