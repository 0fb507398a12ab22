package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/cafeteria/core/dish"
)

type menuApi struct {
	dishes      *dish.Service
	defaultSize int
}

type seedRequest struct {
	Size *int `json:"n_platos"`
}

func registerMenuAPI(g *echo.Group, staff echo.MiddlewareFunc, dishes *dish.Service, defaultSize int) {
	api := menuApi{dishes: dishes, defaultSize: defaultSize}

	g.GET("", api.list)
	g.POST("/seed", api.seed, staff)
}

// Handlers

func (api *menuApi) list(ctx echo.Context) error {
	dishes, err := api.dishes.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing dishes")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"dishes": dishes})
}

// seed generates a new menu upstream and appends it to the catalog.
func (api *menuApi) seed(ctx echo.Context) error {
	var data seedRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to seedRequest")
	}
	size := api.defaultSize
	if data.Size != nil {
		size = *data.Size
	}

	n, err := api.dishes.Generate(ctx.Request().Context(), size)
	if err != nil {
		return errors.Wrap(err, "generating menu")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"insertedCount": n})
}
