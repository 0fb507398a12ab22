package inmemdb

import (
	"context"

	"github.com/trezcool/cafeteria/core/dish"
)

type dishRepository struct {
	db *dishTable
}

var _ dish.Repository = (*dishRepository)(nil) // interface compliance check

func NewDishRepository(db *DB) dish.Repository {
	return &dishRepository{db: db.dish}
}

func copyDish(d dish.Dish) dish.Dish {
	d.Ingredients = append([]string(nil), d.Ingredients...)
	return d
}

func (repo *dishRepository) FindDishByName(_ context.Context, name string) (dish.Dish, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, d := range repo.db.rows {
		if d.Name == name {
			return copyDish(d), nil
		}
	}
	return dish.Dish{}, dish.ErrNotFound
}

func (repo *dishRepository) QueryAllDishes(_ context.Context) ([]dish.Dish, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	dishes := make([]dish.Dish, 0, len(repo.db.rows))
	for _, d := range repo.db.rows {
		dishes = append(dishes, copyDish(d))
	}
	return dishes, nil
}

func (repo *dishRepository) CreateDishes(_ context.Context, dishes []dish.Dish) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, d := range dishes {
		repo.db.pkCount++
		d.ID = repo.db.pkCount
		repo.db.rows = append(repo.db.rows, copyDish(d))
	}
	return len(dishes), nil
}
