package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/cafeteria/core"
	"github.com/trezcool/cafeteria/core/rating"
)

const ratingColumns = "dish_name, average, count, updated_at"

type ratingRow struct {
	DishName  string       `db:"dish_name"`
	Average   null.Float64 `db:"average"`
	Count     int          `db:"count"`
	UpdatedAt null.Time    `db:"updated_at"`
}

func (r ratingRow) unwrap() rating.Aggregate {
	agg := rating.Aggregate{
		DishName: r.DishName,
		Avg:      r.Average,
		Count:    r.Count,
	}
	if r.UpdatedAt.Valid {
		agg.UpdatedAt = null.TimeFrom(r.UpdatedAt.Time.UTC())
	}
	return agg
}

type ratingRepository struct {
	db *sqlx.DB
}

var _ rating.Repository = (*ratingRepository)(nil) // interface compliance check

func NewRatingRepository(db *sqlx.DB) rating.Repository {
	return &ratingRepository{db: db}
}

// AddRating folds the rating in with a single upsert; postgres serialises concurrent writers on the row.
func (repo *ratingRepository) AddRating(ctx context.Context, dishName string, r float64, at time.Time) (rating.Aggregate, error) {
	var row ratingRow
	q := `INSERT INTO dish_ratings AS dr (dish_name, average, count, updated_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (dish_name) DO UPDATE SET
			average = (dr.average * dr.count + EXCLUDED.average) / (dr.count + 1),
			count = dr.count + 1,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + ratingColumns
	if err := repo.db.GetContext(ctx, &row, q, dishName, r, at.UTC()); err != nil {
		return rating.Aggregate{}, core.NewPersistenceError("adding rating", err)
	}
	return row.unwrap(), nil
}

func (repo *ratingRepository) GetRating(ctx context.Context, dishName string) (rating.Aggregate, error) {
	var row ratingRow
	q := "SELECT " + ratingColumns + " FROM dish_ratings WHERE dish_name = $1"
	if err := repo.db.GetContext(ctx, &row, q, dishName); err != nil {
		return rating.Aggregate{}, trapNoRowsErr(err, rating.ErrNotRated, "getting rating")
	}
	return row.unwrap(), nil
}

func (repo *ratingRepository) QueryAllRatings(ctx context.Context) ([]rating.Aggregate, error) {
	var rows []ratingRow
	q := "SELECT " + ratingColumns + " FROM dish_ratings ORDER BY " +
		core.DBOrdering{Field: "average", Ascending: false}.String() + ", " +
		core.DBOrdering{Field: "dish_name", Ascending: true}.String()
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, core.NewPersistenceError("querying ratings", err)
	}
	aggs := make([]rating.Aggregate, 0, len(rows))
	for _, r := range rows {
		aggs = append(aggs, r.unwrap())
	}
	return aggs, nil
}
