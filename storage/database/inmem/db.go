package inmemdb

import (
	"context"
	"sync"

	"github.com/trezcool/cafeteria/core/dish"
	"github.com/trezcool/cafeteria/core/order"
	"github.com/trezcool/cafeteria/core/rating"
)

type (
	// DB keeps every table in memory; it is meant for tests and local runs without postgres.
	DB struct {
		dish   *dishTable
		order  *orderTable
		rating *ratingTable
	}

	dishTable struct {
		sync.RWMutex
		pkCount int
		rows    []dish.Dish // insertion order
	}

	orderTable struct {
		sync.RWMutex
		rows  map[string]*order.Order
		order []string // ids, insertion order
	}

	ratingTable struct {
		sync.RWMutex
		rows map[string]*rating.Aggregate
	}
)

func Open() *DB {
	return &DB{
		dish:   &dishTable{},
		order:  &orderTable{rows: make(map[string]*order.Order)},
		rating: &ratingTable{rows: make(map[string]*rating.Aggregate)},
	}
}

// PingContext always succeeds.
func (db *DB) PingContext(_ context.Context) error { return nil }

// Reset empties all tables.
func (db *DB) Reset() {
	db.dish.Lock()
	db.dish.rows = nil
	db.dish.pkCount = 0
	db.dish.Unlock()

	db.order.Lock()
	db.order.rows = make(map[string]*order.Order)
	db.order.order = nil
	db.order.Unlock()

	db.rating.Lock()
	db.rating.rows = make(map[string]*rating.Aggregate)
	db.rating.Unlock()
}
