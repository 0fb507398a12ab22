package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/cafeteria/core"
	"github.com/trezcool/cafeteria/core/dish"
)

var (
	// errors
	ErrNotFound = errors.New("order not found")
)

type (
	Repository interface {
		CreateOrder(ctx context.Context, o Order) (Order, error)
		// QueryAllOrders returns all orders, oldest first.
		QueryAllOrders(ctx context.Context) ([]Order, error)
		GetOrderByID(ctx context.Context, id string) (Order, error)
		// MarkOrderDelivered atomically sets Delivered (and DeliveredAt) if not already set.
		// changed is false when the Order was delivered already.
		MarkOrderDelivered(ctx context.Context, id string, at time.Time) (o Order, changed bool, err error)
	}

	DishFinder interface {
		FindByName(ctx context.Context, name string) (dish.Dish, error)
	}

	Service struct {
		repo      Repository
		dishes    DishFinder
		namer     StudentNamer
		broker    *Broker
		validator *core.Validator
	}
)

func NewService(repo Repository, dishes DishFinder, namer StudentNamer, broker *Broker, v *core.Validator) *Service {
	InitValidators(v)
	if namer == nil {
		namer = NewRandomNamer()
	}
	if broker == nil {
		broker = NewBroker(16)
	}
	return &Service{
		repo:      repo,
		dishes:    dishes,
		namer:     namer,
		broker:    broker,
		validator: v,
	}
}

// now is truncated to the precision TIMESTAMPTZ stores, so that stored and returned Orders agree.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Create validates `no`, snapshots the Dish's nutrition facts and stores a new pending Order.
// Fails with a *core.ValidationError, dish.ErrNotFound or a *core.PersistenceError.
func (svc *Service) Create(ctx context.Context, no NewOrder) (Order, error) {
	no.Clean()
	if err := svc.validator.Struct(no); err != nil {
		return Order{}, err
	}
	dt, err := ParseDatetime(no.Datetime)
	if err != nil {
		return Order{}, core.NewFieldError("datetime", datetimeText)
	}

	d, err := svc.dishes.FindByName(ctx, no.DishName)
	if err != nil {
		return Order{}, err
	}

	qty := 1
	if no.Quantity != nil {
		qty = *no.Quantity
	}
	student := no.Student
	if student == "" {
		student = svc.namer.StudentName()
	}

	o := Order{
		ID:       uuid.New().String(),
		DishName: d.Name,
		Nutrition: Nutrition{
			Calories: d.Nutrition.Calories,
			Proteins: d.Nutrition.Protein,
			Fats:     d.Nutrition.Fat,
			Carbs:    d.Nutrition.Carbs,
		},
		Student:   student,
		Code:      no.Code,
		Datetime:  dt.Truncate(time.Microsecond),
		Quantity:  qty,
		CreatedAt: now(),
	}
	o, err = svc.repo.CreateOrder(ctx, o)
	if err != nil {
		return Order{}, err
	}
	svc.broker.Publish(Event{Type: EventCreated, Order: o})
	return o, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Order, error) {
	return svc.repo.QueryAllOrders(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Order{}, ErrNotFound
	}
	return svc.repo.GetOrderByID(ctx, id)
}

// MarkDelivered is idempotent: delivering an already delivered Order succeeds without any change.
func (svc *Service) MarkDelivered(ctx context.Context, id string) (Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Order{}, ErrNotFound
	}
	o, changed, err := svc.repo.MarkOrderDelivered(ctx, id, now())
	if err != nil {
		return Order{}, err
	}
	if changed {
		svc.broker.Publish(Event{Type: EventDelivered, Order: o})
	}
	return o, nil
}

func (svc *Service) Stats(ctx context.Context, filter StatsFilter) (Stats, error) {
	orders, err := svc.repo.QueryAllOrders(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(orders, filter), nil
}

// Subscribe listens to order events. The returned func must be called to stop listening.
func (svc *Service) Subscribe() (<-chan Event, func()) {
	return svc.broker.Subscribe()
}

// Subscribers is the number of listeners currently attached (open SSE streams).
func (svc *Service) Subscribers() int {
	return svc.broker.Subscribers()
}

// CloseSubscriptions ends every event subscription so that open streams can return on shutdown.
func (svc *Service) CloseSubscriptions() {
	svc.broker.Close()
}
