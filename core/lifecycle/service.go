// Package lifecycle is the single entry point the UI talks to: it places orders, updates their
// delivery status and rates dishes, delegating to the order and rating services.
// Errors are passed through unchanged so callers can tell bad input, not found and storage failures apart.
package lifecycle

import (
	"context"

	"github.com/trezcool/cafeteria/core"
	"github.com/trezcool/cafeteria/core/order"
	"github.com/trezcool/cafeteria/core/rating"
)

var errOnlyDeliver = core.NewFieldError("delivered", "delivered can only be set to true")

type Service struct {
	orders  *order.Service
	ratings *rating.Service
}

func NewService(orders *order.Service, ratings *rating.Service) *Service {
	return &Service{orders: orders, ratings: ratings}
}

func (svc *Service) PlaceOrder(ctx context.Context, no order.NewOrder) (order.Order, error) {
	return svc.orders.Create(ctx, no)
}

// UpdateDeliveryStatus only accepts delivered == true; orders cannot be un-delivered.
func (svc *Service) UpdateDeliveryStatus(ctx context.Context, orderID string, delivered bool) (order.Order, error) {
	if !delivered {
		return order.Order{}, errOnlyDeliver
	}
	return svc.orders.MarkDelivered(ctx, orderID)
}

func (svc *Service) RateDish(ctx context.Context, nr rating.NewRating) (rating.Aggregate, error) {
	return svc.ratings.Submit(ctx, nr)
}

func (svc *Service) ListOrders(ctx context.Context) ([]order.Order, error) {
	return svc.orders.QueryAll(ctx)
}

func (svc *Service) GetRating(ctx context.Context, dishName string) (rating.Aggregate, error) {
	return svc.ratings.Get(ctx, dishName)
}
