package order_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/cafeteria/core"
	"github.com/trezcool/cafeteria/core/dish"
	"github.com/trezcool/cafeteria/core/order"
	inmemdb "github.com/trezcool/cafeteria/storage/database/inmem"
	"github.com/trezcool/cafeteria/tests"
)

var paella = dish.Nutrition{Calories: 600, Protein: 20, Carbs: 80, Fat: 15}

type fixedNamer string

func (n fixedNamer) StudentName() string { return string(n) }

// dishFinderMock serves a Dish whose facts can change after an order is placed.
type dishFinderMock struct {
	mu sync.Mutex
	d  dish.Dish
}

func (f *dishFinderMock) FindByName(_ context.Context, name string) (dish.Dish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name != f.d.Name {
		return dish.Dish{}, dish.ErrNotFound
	}
	return f.d, nil
}

func setup(t *testing.T) (*order.Service, order.Repository, *order.Broker) {
	db := inmemdb.Open()
	dishRepo := inmemdb.NewDishRepository(db)
	orderRepo := inmemdb.NewOrderRepository(db)
	testutil.CreateDish(t, dishRepo, "Paella", paella, "Arroz", "Mariscos")

	v := core.NewDefaultValidator()
	broker := order.NewBroker(8)
	svc := order.NewService(orderRepo, dish.NewService(dishRepo, nil, v), fixedNamer("Ana González"), broker, v)
	return svc, orderRepo, broker
}

func TestService_Create(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		no         order.NewOrder
		wantFields []string
		wantErr    error
	}{
		{name: "empty", wantFields: []string{"dish_id", "datetime", "code"}},
		{
			name:       "short code",
			no:         order.NewOrder{DishName: "Paella", Datetime: "2024-05-10T12:30:00Z", Code: "U2120123"},
			wantFields: []string{"code"},
		},
		{
			name:       "bad prefix",
			no:         order.NewOrder{DishName: "Paella", Datetime: "2024-05-10T12:30:00Z", Code: "X21201234"},
			wantFields: []string{"code"},
		},
		{
			name:       "bad datetime",
			no:         order.NewOrder{DishName: "Paella", Datetime: "yesterday", Code: "U21201234"},
			wantFields: []string{"datetime"},
		},
		{
			name:       "zero quantity",
			no:         order.NewOrder{DishName: "Paella", Datetime: "2024-05-10T12:30:00Z", Code: "U21201234", Quantity: testutil.Int(0)},
			wantFields: []string{"quantity"},
		},
		{
			name:       "quantity too large",
			no:         order.NewOrder{DishName: "Paella", Datetime: "2024-05-10T12:30:00Z", Code: "U21201234", Quantity: testutil.Int(3000000000)},
			wantFields: []string{"quantity"},
		},
		{
			name:    "unknown dish",
			no:      order.NewOrder{DishName: "Ramen", Datetime: "2024-05-10T12:30:00Z", Code: "U21201234"},
			wantErr: dish.ErrNotFound,
		},
		{
			name:    "dish names are case sensitive",
			no:      order.NewOrder{DishName: "paella", Datetime: "2024-05-10T12:30:00Z", Code: "U21201234"},
			wantErr: dish.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.no)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("Create() error = %v; wantErr %v", err, tt.wantErr)
				}
				return
			}
			vErr, ok := err.(*core.ValidationError)
			if !ok {
				t.Fatalf("Create() error = %v; want a *core.ValidationError", err)
			}
			assert.ElementsMatch(t, tt.wantFields, vErr.FieldNames())
		})
	}

	orders, err := repo.QueryAllOrders(ctx)
	if err != nil {
		t.Fatalf("QueryAllOrders() failed: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("failed orders were stored: %v", orders)
	}

	t.Run("success", func(t *testing.T) {
		o, err := svc.Create(ctx, order.NewOrder{DishName: " Paella ", Datetime: "2024-05-10T12:30:00-04:00", Code: "U21201234"})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		assert.NotEmpty(t, o.ID)
		assert.Equal(t, "Paella", o.DishName)
		assert.Equal(t, order.Nutrition{Calories: 600, Proteins: 20, Fats: 15, Carbs: 80}, o.Nutrition)
		assert.Equal(t, "Ana González", o.Student)
		assert.Equal(t, "U21201234", o.Code)
		assert.True(t, o.Datetime.Equal(time.Date(2024, 5, 10, 16, 30, 0, 0, time.UTC)))
		assert.Equal(t, 1, o.Quantity)
		assert.False(t, o.Delivered)
		assert.False(t, o.DeliveredAt.Valid)

		stored, err := repo.GetOrderByID(ctx, o.ID)
		if err != nil {
			t.Fatalf("GetOrderByID() failed: %v", err)
		}
		assert.Equal(t, o.ID, stored.ID)
	})

	t.Run("requester name and quantity", func(t *testing.T) {
		o, err := svc.Create(ctx, order.NewOrder{
			DishName: "Paella",
			Datetime: "2024-05-10",
			Code:     "U21201234",
			Quantity: testutil.Int(3),
			Student:  "Luis Pérez",
		})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		assert.Equal(t, "Luis Pérez", o.Student)
		assert.Equal(t, 3, o.Quantity)
	})

	t.Run("timestamps are kept to the microsecond", func(t *testing.T) {
		o, err := svc.Create(ctx, order.NewOrder{DishName: "Paella", Datetime: "2024-05-10T12:30:00.123456789Z", Code: "U21201234"})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		assert.Equal(t, 123456000, o.Datetime.Nanosecond())
		assert.Zero(t, o.CreatedAt.Nanosecond()%1000)

		o, err = svc.MarkDelivered(ctx, o.ID)
		if err != nil {
			t.Fatalf("MarkDelivered() failed: %v", err)
		}
		assert.Zero(t, o.DeliveredAt.Time.Nanosecond()%1000)
	})
}

func TestService_Create_snapshot(t *testing.T) {
	ctx := context.Background()
	db := inmemdb.Open()
	repo := inmemdb.NewOrderRepository(db)
	finder := &dishFinderMock{d: dish.Dish{Name: "Paella", Nutrition: paella}}
	svc := order.NewService(repo, finder, nil, nil, core.NewDefaultValidator())

	o, err := svc.Create(ctx, order.NewOrder{DishName: "Paella", Datetime: "2024-05-10T12:30:00Z", Code: "U21201234"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	finder.mu.Lock()
	finder.d.Nutrition = dish.Nutrition{Calories: 1}
	finder.mu.Unlock()

	got, err := svc.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.Calories != 600 || got.Proteins != 20 {
		t.Errorf("order nutrition changed with the dish: %+v", got.Nutrition)
	}
	if got.Student == "" {
		t.Error("anonymous order has no student name")
	}
}

func TestService_MarkDelivered(t *testing.T) {
	svc, _, broker := setup(t)
	ctx := context.Background()
	events, unsubscribe := broker.Subscribe()
	defer unsubscribe()

	o, err := svc.Create(ctx, order.NewOrder{DishName: "Paella", Datetime: "2024-05-10T12:30:00Z", Code: "U21201234"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if ev := <-events; ev.Type != order.EventCreated || ev.Order.ID != o.ID {
		t.Errorf("event = %+v; want created", ev)
	}

	if _, err = svc.MarkDelivered(ctx, "lol"); err != order.ErrNotFound {
		t.Errorf("MarkDelivered(malformed) error = %v; want %v", err, order.ErrNotFound)
	}
	if _, err = svc.MarkDelivered(ctx, "9b2d5b3e-3b5c-4d6e-8f90-1a2b3c4d5e6f"); err != order.ErrNotFound {
		t.Errorf("MarkDelivered(unknown) error = %v; want %v", err, order.ErrNotFound)
	}

	first, err := svc.MarkDelivered(ctx, o.ID)
	if err != nil {
		t.Fatalf("MarkDelivered() failed: %v", err)
	}
	if !first.Delivered || !first.DeliveredAt.Valid {
		t.Errorf("MarkDelivered() = %+v; want delivered", first)
	}
	if ev := <-events; ev.Type != order.EventDelivered || ev.Order.ID != o.ID {
		t.Errorf("event = %+v; want delivered", ev)
	}

	second, err := svc.MarkDelivered(ctx, o.ID)
	if err != nil {
		t.Fatalf("MarkDelivered() again failed: %v", err)
	}
	if !second.DeliveredAt.Time.Equal(first.DeliveredAt.Time) {
		t.Errorf("DeliveredAt changed: %v -> %v", first.DeliveredAt.Time, second.DeliveredAt.Time)
	}
	select {
	case ev := <-events:
		t.Errorf("unexpected event %+v", ev)
	default:
	}

	// everything else is left untouched
	second.Delivered, second.DeliveredAt = o.Delivered, o.DeliveredAt
	assert.Equal(t, o, second)
}

func TestService_MarkDelivered_concurrent(t *testing.T) {
	svc, _, broker := setup(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, order.NewOrder{DishName: "Paella", Datetime: "2024-05-10T12:30:00Z", Code: "U21201234"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	events, unsubscribe := broker.Subscribe()
	defer unsubscribe()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.MarkDelivered(ctx, o.ID); err != nil {
				t.Errorf("MarkDelivered() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(events); got != 1 {
		t.Errorf("delivered events = %d; want 1", got)
	}
}

func TestService_Stats(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	for _, dt := range []string{"2024-05-10T12:30:00Z", "2024-05-11T12:30:00Z"} {
		if _, err := svc.Create(ctx, order.NewOrder{DishName: "Paella", Datetime: dt, Code: "U21201234", Quantity: testutil.Int(2)}); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	st, err := svc.Stats(ctx, order.StatsFilter{From: time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	assert.Equal(t, 1, st.Total)
	assert.Equal(t, 2, st.TotalQuantity)
	assert.Equal(t, float64(1200), st.Macros.Calories)
}
