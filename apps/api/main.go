package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"time"

	dig_container "github.com/trezcool/cafeteria/apps/api/di/dig"
	echoapi "github.com/trezcool/cafeteria/apps/api/echo"
	"github.com/trezcool/cafeteria/core"
	"github.com/trezcool/cafeteria/core/order"
)

func main() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		storage *dig_container.Storage,
		orders *order.Service,
		server *echoapi.Server,
	) {
		apiLogger.Info(fmt.Sprintf("cafeteria API starting : build %q, env %q, storage %q", conf.Build, conf.Env, conf.Storage))
		if conf.Menu.APIURL == "" {
			apiLogger.Info("menu generator not configured : menu generation is disabled")
		}

		defer func() {
			if err := storage.Close(); err != nil {
				dbLoggerParam.Logger.Error(fmt.Sprintf("closing %s storage: %v", conf.Storage, err), err)
			}
		}()
		defer apiLogger.Info("cafeteria API stopped")

		// /debug/vars (expvar) and /debug/pprof on the debug host
		startedAt := time.Now().UTC()
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("storage").Set(conf.Storage)
		expvar.Publish("started_at", expvar.Func(func() interface{} { return startedAt.Format(time.RFC3339) }))
		expvar.Publish("order_stream_subscribers", expvar.Func(func() interface{} { return orders.Subscribers() }))
		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				apiLogger.Error(fmt.Sprintf("debug server on %s closed: %v", conf.Server.DebugHost, err), err)
			}
		}()

		go server.Start()

		select {
		case err := <-server.Errors():
			apiLogger.Fatal(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			apiLogger.Info(fmt.Sprintf("%v: shutting down, closing %d order streams", sig, orders.Subscribers()))

			// open SSE handlers return once their subscription is closed
			orders.CloseSubscriptions()

			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				apiLogger.Error(fmt.Sprintf("could not drain requests within %v: %v", conf.Server.ShutdownTimeout, err), err)
				if err = server.Close(); err != nil {
					apiLogger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
