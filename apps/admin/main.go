package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/cafeteria/core"
	"github.com/trezcool/cafeteria/core/dish"
	"github.com/trezcool/cafeteria/core/order"
	logsvc "github.com/trezcool/cafeteria/services/logger"
	"github.com/trezcool/cafeteria/services/menugen"
	"github.com/trezcool/cafeteria/storage/database"
	sqlxrepos "github.com/trezcool/cafeteria/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()
	if conf.Storage != core.StoragePostgres {
		logger.Fatalf("admin commands need the %q storage (got %q)", core.StoragePostgres, conf.Storage)
	}

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	// set up services
	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(!conf.Debug && conf.RollbarToken != "")
	v := core.NewValidator(validator.New(), core.NewTranslator())
	var gen dish.Generator
	if conf.Menu.APIURL != "" {
		gen = menugen.NewGenerator(conf, appLogger)
	}
	dishSvc := dish.NewService(sqlxrepos.NewDishRepository(db), gen, v)
	orderSvc := order.NewService(sqlxrepos.NewOrderRepository(db), dishSvc, nil, nil, v)

	// start CLI
	cli := commandLine{
		db:          db.DB,
		dishSvc:     dishSvc,
		orderSvc:    orderSvc,
		defaultSize: conf.Menu.DefaultSize,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
