package testutil

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/cafeteria/core"
	"github.com/trezcool/cafeteria/core/dish"
	"github.com/trezcool/cafeteria/storage/database"
)

// Int returns a pointer to i, for optional input fields.
func Int(i int) *int { return &i }

// Float returns a pointer to f, for optional input fields.
func Float(f float64) *float64 { return &f }

func Bool(b bool) *bool { return &b }

func CreateDish(
	t *testing.T,
	repo dish.Repository,
	name string,
	nutrition dish.Nutrition,
	ingredients ...string,
) dish.Dish {
	d := dish.Dish{
		Name:        name,
		Description: name,
		Image:       "/assets/images/completos/" + name + ".png",
		Nutrition:   nutrition,
		Ingredients: ingredients,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := repo.CreateDishes(context.Background(), []dish.Dish{d}); err != nil {
		t.Fatalf("createDish() failed: %v", err)
	}
	d, err := repo.FindDishByName(context.Background(), name)
	if err != nil {
		t.Fatalf("createDish() failed: %v", err)
	}
	return d
}

// TestConfig returns the config used by tests; the database is read from TEST_DATABASE_* env vars.
func TestConfig() *core.Config {
	port, _ := strconv.Atoi(getenv("TEST_DATABASE_PORT", "5432"))
	return &core.Config{
		AppName:   "Cafeteria",
		Env:       "TEST",
		Build:     "test",
		TestMode:  true,
		SecretKey: "test-secret",
		Storage:   core.StorageMemory,
		Server: core.ServerConfig{
			Host:            "localhost",
			Address:         ":0",
			ShutdownTimeout: time.Second,
			CORSOrigins:     []string{"*"},
		},
		Database: core.DatabaseConfig{
			Engine:        "postgres",
			Host:          os.Getenv("TEST_DATABASE_HOST"),
			Port:          port,
			Name:          getenv("TEST_DATABASE_NAME", "cafeteria_test"),
			AdminUser:     getenv("TEST_DATABASE_USER", "postgres"),
			AdminPassword: getenv("TEST_DATABASE_PASSWORD", "postgres"),
			DisableTLS:    true,
			MaxOpenConns:  10,
			MaxIdleConns:  5,
		},
		Menu: core.MenuConfig{
			Timeout:     time.Second,
			DefaultSize: 3,
		},
	}
}

// PrepareDB returns a migrated and emptied test database.
// The test is skipped when TEST_DATABASE_HOST is not set.
func PrepareDB(t *testing.T) *sqlx.DB {
	conf := TestConfig()
	if conf.Database.Host == "" {
		t.Skip("TEST_DATABASE_HOST not set")
	}
	conf.Storage = core.StoragePostgres

	if err := database.CreateIfNotExist(conf); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db.DB); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	if _, err = db.Exec("TRUNCATE dishes, orders, dish_ratings RESTART IDENTITY"); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
