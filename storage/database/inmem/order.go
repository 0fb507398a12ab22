package inmemdb

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/cafeteria/core/order"
)

type orderRepository struct {
	db *orderTable
}

var _ order.Repository = (*orderRepository)(nil) // interface compliance check

func NewOrderRepository(db *DB) order.Repository {
	return &orderRepository{db: db.order}
}

func (repo *orderRepository) CreateOrder(_ context.Context, o order.Order) (order.Order, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows[o.ID] = &o
	repo.db.order = append(repo.db.order, o.ID)
	return o, nil
}

func (repo *orderRepository) QueryAllOrders(_ context.Context) ([]order.Order, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	orders := make([]order.Order, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		orders = append(orders, *repo.db.rows[id])
	}
	return orders, nil
}

func (repo *orderRepository) GetOrderByID(_ context.Context, id string) (order.Order, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if o, ok := repo.db.rows[id]; ok {
		return *o, nil
	}
	return order.Order{}, order.ErrNotFound
}

func (repo *orderRepository) MarkOrderDelivered(_ context.Context, id string, at time.Time) (order.Order, bool, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	o, ok := repo.db.rows[id]
	if !ok {
		return order.Order{}, false, order.ErrNotFound
	}
	if o.Delivered {
		return *o, false, nil
	}
	o.Delivered = true
	o.DeliveredAt = null.TimeFrom(at)
	return *o, true, nil
}
