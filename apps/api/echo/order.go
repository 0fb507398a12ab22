package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/cafeteria/core"
	"github.com/trezcool/cafeteria/core/lifecycle"
	"github.com/trezcool/cafeteria/core/order"
)

var (
	streamKeepAlive = 15 * time.Second

	msgOrderUpdated = "order updated successfully"
)

type orderApi struct {
	lifecycle *lifecycle.Service
	orders    *order.Service
}

func registerOrderAPI(g *echo.Group, staff echo.MiddlewareFunc, lc *lifecycle.Service, orders *order.Service) {
	api := orderApi{lifecycle: lc, orders: orders}

	g.GET("", api.list)
	g.POST("", api.create)
	g.GET("/stats", api.stats, staff)
	g.GET("/stream", api.stream, staff)

	// detail endpoints
	g.GET("/:orderId", api.retrieve)
	g.PUT("/:orderId", api.updateDelivery, staff)
}

// Handlers

func (api *orderApi) list(ctx echo.Context) error {
	orders, err := api.lifecycle.ListOrders(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing orders")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"orders": orders})
}

func (api *orderApi) create(ctx echo.Context) error {
	var data order.NewOrder
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOrder")
	}
	// the student is whoever the identity provider says, never the request body
	data.Student = contextRequester(ctx).Name

	o, err := api.lifecycle.PlaceOrder(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "placing order")
	}
	return ctx.JSON(http.StatusCreated, o)
}

func (api *orderApi) retrieve(ctx echo.Context) error {
	o, err := api.orders.GetByID(ctx.Request().Context(), ctx.Param("orderId"))
	if err != nil {
		return errors.Wrap(err, "getting order")
	}
	return ctx.JSON(http.StatusOK, o)
}

func (api *orderApi) updateDelivery(ctx echo.Context) error {
	var data order.UpdateDelivery
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateDelivery")
	}
	if data.Delivered == nil {
		return core.NewFieldError("delivered", "this field is required")
	}

	_, err := api.lifecycle.UpdateDeliveryStatus(ctx.Request().Context(), ctx.Param("orderId"), *data.Delivered)
	if err != nil {
		return errors.Wrap(err, "updating delivery status")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": msgOrderUpdated})
}

func parseTimeParam(ctx echo.Context, name string) (time.Time, error) {
	val := core.CleanString(ctx.QueryParam(name))
	if val == "" {
		return time.Time{}, nil
	}
	t, err := order.ParseDatetime(val)
	if err != nil {
		return time.Time{}, core.NewFieldError(name, "must be an ISO-8601 date time")
	}
	return t, nil
}

func (api *orderApi) stats(ctx echo.Context) error {
	var filter order.StatsFilter
	var err error
	if filter.From, err = parseTimeParam(ctx, "from"); err != nil {
		return err
	}
	if filter.To, err = parseTimeParam(ctx, "to"); err != nil {
		return err
	}

	st, err := api.orders.Stats(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "computing order stats")
	}
	return ctx.JSON(http.StatusOK, st)
}

// stream pushes order events as server-sent events until the client goes away.
func (api *orderApi) stream(ctx echo.Context) error {
	events, stop := api.orders.Subscribe()
	defer stop()

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case <-keepAlive.C:
			if _, err := fmt.Fprint(res, ": keep-alive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			data, err := json.Marshal(ev.Order)
			if err != nil {
				return errors.Wrap(err, "encoding order event")
			}
			if _, err = fmt.Fprintf(res, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
