package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/trezcool/cafeteria/core"
	"github.com/trezcool/cafeteria/core/dish"
)

const dishColumns = "id, name, description, image, calories, protein, carbs, fat, ingredients, created_at"

type dishRow struct {
	ID          int            `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Image       string         `db:"image"`
	Calories    float64        `db:"calories"`
	Protein     float64        `db:"protein"`
	Carbs       float64        `db:"carbs"`
	Fat         float64        `db:"fat"`
	Ingredients pq.StringArray `db:"ingredients"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r dishRow) unwrap() dish.Dish {
	ingredients := []string(r.Ingredients)
	if ingredients == nil {
		ingredients = []string{}
	}
	return dish.Dish{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Image:       r.Image,
		Nutrition: dish.Nutrition{
			Calories: r.Calories,
			Protein:  r.Protein,
			Carbs:    r.Carbs,
			Fat:      r.Fat,
		},
		Ingredients: ingredients,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

func wrapDish(d dish.Dish) dishRow {
	if d.Ingredients == nil {
		d.Ingredients = []string{}
	}
	return dishRow{
		Name:        d.Name,
		Description: d.Description,
		Image:       d.Image,
		Calories:    d.Nutrition.Calories,
		Protein:     d.Nutrition.Protein,
		Carbs:       d.Nutrition.Carbs,
		Fat:         d.Nutrition.Fat,
		Ingredients: pq.StringArray(d.Ingredients),
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

type dishRepository struct {
	db *sqlx.DB
}

var _ dish.Repository = (*dishRepository)(nil) // interface compliance check

func NewDishRepository(db *sqlx.DB) dish.Repository {
	return &dishRepository{db: db}
}

func (repo *dishRepository) FindDishByName(ctx context.Context, name string) (dish.Dish, error) {
	var row dishRow
	q := "SELECT " + dishColumns + " FROM dishes WHERE name = $1 ORDER BY id LIMIT 1"
	if err := repo.db.GetContext(ctx, &row, q, name); err != nil {
		return dish.Dish{}, trapNoRowsErr(err, dish.ErrNotFound, "finding dish")
	}
	return row.unwrap(), nil
}

func (repo *dishRepository) QueryAllDishes(ctx context.Context) ([]dish.Dish, error) {
	var rows []dishRow
	q := "SELECT " + dishColumns + " FROM dishes ORDER BY " + core.DBOrdering{Field: "id", Ascending: true}.String()
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, core.NewPersistenceError("querying dishes", err)
	}
	dishes := make([]dish.Dish, 0, len(rows))
	for _, r := range rows {
		dishes = append(dishes, r.unwrap())
	}
	return dishes, nil
}

// CreateDishes inserts all dishes in one transaction.
func (repo *dishRepository) CreateDishes(ctx context.Context, dishes []dish.Dish) (int, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, core.NewPersistenceError("beginning transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := `INSERT INTO dishes (name, description, image, calories, protein, carbs, fat, ingredients, created_at)
		VALUES (:name, :description, :image, :calories, :protein, :carbs, :fat, :ingredients, :created_at)`
	for _, d := range dishes {
		if _, err = tx.NamedExecContext(ctx, q, wrapDish(d)); err != nil {
			return 0, core.NewPersistenceError("inserting dish", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, core.NewPersistenceError("committing dishes", err)
	}
	return len(dishes), nil
}
