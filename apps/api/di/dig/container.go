package dig_container

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/cafeteria/apps/api/echo"
	"github.com/trezcool/cafeteria/core"
	"github.com/trezcool/cafeteria/core/dish"
	"github.com/trezcool/cafeteria/core/lifecycle"
	"github.com/trezcool/cafeteria/core/order"
	"github.com/trezcool/cafeteria/core/rating"
	logsvc "github.com/trezcool/cafeteria/services/logger"
	"github.com/trezcool/cafeteria/services/menugen"
	"github.com/trezcool/cafeteria/storage/database"
	inmemdb "github.com/trezcool/cafeteria/storage/database/inmem"
	sqlxrepos "github.com/trezcool/cafeteria/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type (
	// Storage is the set of repositories backing the services, whichever the driver.
	Storage struct {
		DB      core.Pinger
		Dishes  dish.Repository
		Orders  order.Repository
		Ratings rating.Repository
		close   func() error
	}
)

// Close releases the storage resources (the connection pool).
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

// newStorage opens the connection pool once for the whole process (dig providers are singletons).
func newStorage(conf *core.Config, loggerParam DBLoggerParam) *Storage {
	if conf.Storage == core.StorageMemory {
		db := inmemdb.Open()
		return &Storage{
			DB:      db,
			Dishes:  inmemdb.NewDishRepository(db),
			Orders:  inmemdb.NewOrderRepository(db),
			Ratings: inmemdb.NewRatingRepository(db),
		}
	}

	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return &Storage{
		DB:      db,
		Dishes:  sqlxrepos.NewDishRepository(db),
		Orders:  sqlxrepos.NewOrderRepository(db),
		Ratings: sqlxrepos.NewRatingRepository(db),
		close:   db.Close,
	}
}

func newValidator() *core.Validator {
	return core.NewValidator(validator.New(), core.NewTranslator())
}

// newDishService leaves the generator out when no upstream is configured: menu generation then fails with dish.ErrNoGenerator.
func newDishService(st *Storage, conf *core.Config, logger core.Logger, v *core.Validator) *dish.Service {
	var gen dish.Generator
	if conf.Menu.APIURL != "" {
		gen = menugen.NewGenerator(conf, logger)
	}
	return dish.NewService(st.Dishes, gen, v)
}

func newOrderService(st *Storage, dishes *dish.Service, v *core.Validator) *order.Service {
	return order.NewService(st.Orders, dishes, order.NewRandomNamer(), order.NewBroker(32), v)
}

func newRatingService(st *Storage, v *core.Validator) *rating.Service {
	return rating.NewService(st.Ratings, v)
}

func newDeps(
	st *Storage,
	lc *lifecycle.Service,
	orders *order.Service,
	ratings *rating.Service,
	dishes *dish.Service,
) *echoapi.Deps {
	return &echoapi.Deps{
		Lifecycle: lc,
		OrderSvc:  orders,
		RatingSvc: ratings,
		DishSvc:   dishes,
		DB:        st.DB,
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(newValidator))
	must(c.Provide(newDishService))
	must(c.Provide(newOrderService))
	must(c.Provide(newRatingService))
	must(c.Provide(lifecycle.NewService))
	must(c.Provide(newDeps))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
