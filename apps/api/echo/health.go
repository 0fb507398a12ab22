package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/cafeteria/core"
)

var healthTimeout = 2 * time.Second

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

func healthHandler(conf *core.Config, db core.Pinger) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		resp := healthResponse{Status: "healthy", Timestamp: time.Now().UTC(), Version: conf.Build}
		code := http.StatusOK

		if db != nil {
			pingCtx, cancel := context.WithTimeout(ctx.Request().Context(), healthTimeout)
			defer cancel()
			if err := db.PingContext(pingCtx); err != nil {
				resp.Status = "unhealthy"
				code = http.StatusServiceUnavailable
			}
		}
		return ctx.JSON(code, resp)
	}
}
