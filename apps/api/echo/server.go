package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/cors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/cafeteria/core"
	"github.com/trezcool/cafeteria/core/dish"
	"github.com/trezcool/cafeteria/core/lifecycle"
	"github.com/trezcool/cafeteria/core/order"
	"github.com/trezcool/cafeteria/core/rating"
)

type (
	// Deps holds the services the API is built upon.
	Deps struct {
		Lifecycle *lifecycle.Service
		OrderSvc  *order.Service
		RatingSvc *rating.Service
		DishSvc   *dish.Service
		DB        core.Pinger
	}

	Server struct {
		conf     *core.Config
		logger   core.Logger
		deps     *Deps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal

		DisableReqLogs bool
	}
)

func NewServer(conf *core.Config, logger core.Logger, deps *Deps) *Server {
	s := &Server{
		conf:     conf,
		logger:   logger,
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	debug := s.conf.Debug && !s.conf.TestMode

	s.app.HideBanner = true
	s.app.Server.ReadTimeout = s.conf.Server.ReadTimeout
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Pre(echo.WrapMiddleware(cors.Handler(cors.Options{
		AllowedOrigins: s.conf.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		MaxAge:         300,
	})))
	if !s.conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(identityMiddleware([]byte(s.conf.SecretKey)))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.logger, s.signalShutdown)
	s.app.Debug = debug

	s.app.GET("/", home)
	s.app.GET("/health", healthHandler(s.conf, s.deps.DB))

	staff := staffMiddleware(s.conf.Auth.Enforce)

	// the web app reaches the API under /api
	for _, prefix := range []string{"", "/api"} {
		registerOrderAPI(s.app.Group(prefix+"/orders"), staff, s.deps.Lifecycle, s.deps.OrderSvc)
		registerRatingAPI(s.app.Group(prefix+"/ranking"), s.deps.Lifecycle, s.deps.RatingSvc)
		registerMenuAPI(s.app.Group(prefix+"/menu"), staff, s.deps.DishSvc, s.conf.Menu.DefaultSize)
	}
}

// Start blocks until the server stops; failures are sent to Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

// Close stops the server immediately.
func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the Cafeteria API!")
}
