package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/cafeteria/core"
	"github.com/trezcool/cafeteria/core/order"
)

const orderColumns = "id, dish_name, calories, proteins, fats, carbs, student, code, datetime, quantity, delivered, delivered_at, created_at"

type orderRow struct {
	ID          string    `db:"id"`
	DishName    string    `db:"dish_name"`
	Calories    float64   `db:"calories"`
	Proteins    float64   `db:"proteins"`
	Fats        float64   `db:"fats"`
	Carbs       float64   `db:"carbs"`
	Student     string    `db:"student"`
	Code        string    `db:"code"`
	Datetime    time.Time `db:"datetime"`
	Quantity    int       `db:"quantity"`
	Delivered   bool      `db:"delivered"`
	DeliveredAt null.Time `db:"delivered_at"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r orderRow) unwrap() order.Order {
	o := order.Order{
		ID:       r.ID,
		DishName: r.DishName,
		Nutrition: order.Nutrition{
			Calories: r.Calories,
			Proteins: r.Proteins,
			Fats:     r.Fats,
			Carbs:    r.Carbs,
		},
		Student:   r.Student,
		Code:      r.Code,
		Datetime:  r.Datetime.UTC(),
		Quantity:  r.Quantity,
		Delivered: r.Delivered,
		CreatedAt: r.CreatedAt.UTC(),
	}
	if r.DeliveredAt.Valid {
		o.DeliveredAt = null.TimeFrom(r.DeliveredAt.Time.UTC())
	}
	return o
}

func wrapOrder(o order.Order) orderRow {
	return orderRow{
		ID:          o.ID,
		DishName:    o.DishName,
		Calories:    o.Calories,
		Proteins:    o.Proteins,
		Fats:        o.Fats,
		Carbs:       o.Carbs,
		Student:     o.Student,
		Code:        o.Code,
		Datetime:    o.Datetime.UTC(),
		Quantity:    o.Quantity,
		Delivered:   o.Delivered,
		DeliveredAt: o.DeliveredAt,
		CreatedAt:   o.CreatedAt.UTC(),
	}
}

type orderRepository struct {
	db *sqlx.DB
}

var _ order.Repository = (*orderRepository)(nil) // interface compliance check

func NewOrderRepository(db *sqlx.DB) order.Repository {
	return &orderRepository{db: db}
}

func (repo *orderRepository) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	q := `INSERT INTO orders (` + orderColumns + `)
		VALUES (:id, :dish_name, :calories, :proteins, :fats, :carbs, :student, :code, :datetime, :quantity,
		        :delivered, :delivered_at, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, wrapOrder(o)); err != nil {
		return order.Order{}, core.NewPersistenceError("inserting order", err)
	}
	return o, nil
}

func (repo *orderRepository) QueryAllOrders(ctx context.Context) ([]order.Order, error) {
	var rows []orderRow
	ordering := core.DBOrdering{Field: "created_at", Ascending: true}
	q := "SELECT " + orderColumns + " FROM orders ORDER BY " + ordering.String()
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, core.NewPersistenceError("querying orders", err)
	}
	orders := make([]order.Order, 0, len(rows))
	for _, r := range rows {
		orders = append(orders, r.unwrap())
	}
	return orders, nil
}

func (repo *orderRepository) GetOrderByID(ctx context.Context, id string) (order.Order, error) {
	var row orderRow
	q := "SELECT " + orderColumns + " FROM orders WHERE id = $1"
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return order.Order{}, trapNoRowsErr(err, order.ErrNotFound, "getting order")
	}
	return row.unwrap(), nil
}

// MarkOrderDelivered relies on the conditional UPDATE for atomicity: only one caller can flip the flag.
func (repo *orderRepository) MarkOrderDelivered(ctx context.Context, id string, at time.Time) (order.Order, bool, error) {
	var row orderRow
	q := `UPDATE orders SET delivered = true, delivered_at = $2
		WHERE id = $1 AND NOT delivered
		RETURNING ` + orderColumns
	err := repo.db.GetContext(ctx, &row, q, id, at.UTC())
	if err == nil {
		return row.unwrap(), true, nil
	}
	if err != sql.ErrNoRows {
		return order.Order{}, false, core.NewPersistenceError("delivering order", err)
	}

	// unknown or already delivered
	o, err := repo.GetOrderByID(ctx, id)
	if err != nil {
		return order.Order{}, false, err
	}
	return o, false, nil
}
