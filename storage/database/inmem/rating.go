package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/cafeteria/core/rating"
)

type ratingRepository struct {
	db *ratingTable
}

var _ rating.Repository = (*ratingRepository)(nil) // interface compliance check

func NewRatingRepository(db *DB) rating.Repository {
	return &ratingRepository{db: db.rating}
}

func (repo *ratingRepository) AddRating(_ context.Context, dishName string, r float64, at time.Time) (rating.Aggregate, error) {
	// the write lock covers the whole read-modify-write
	repo.db.Lock()
	defer repo.db.Unlock()

	agg := rating.Empty(dishName)
	if cur, ok := repo.db.rows[dishName]; ok {
		agg = *cur
	}
	agg = rating.Fold(agg, r, at)
	repo.db.rows[dishName] = &agg
	return agg, nil
}

func (repo *ratingRepository) GetRating(_ context.Context, dishName string) (rating.Aggregate, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if agg, ok := repo.db.rows[dishName]; ok {
		return *agg, nil
	}
	return rating.Aggregate{}, rating.ErrNotRated
}

func (repo *ratingRepository) QueryAllRatings(_ context.Context) ([]rating.Aggregate, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	aggs := make([]rating.Aggregate, 0, len(repo.db.rows))
	for _, agg := range repo.db.rows {
		aggs = append(aggs, *agg)
	}
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].Avg.Float64 != aggs[j].Avg.Float64 {
			return aggs[i].Avg.Float64 > aggs[j].Avg.Float64
		}
		return aggs[i].DishName < aggs[j].DishName
	})
	return aggs, nil
}
