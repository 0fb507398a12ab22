package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/cafeteria/core/lifecycle"
	"github.com/trezcool/cafeteria/core/rating"
)

type ratingApi struct {
	lifecycle *lifecycle.Service
	ratings   *rating.Service
}

type ratingResponse struct {
	Avg   null.Float64 `json:"avg"`
	Count int          `json:"count"`
}

func newRatingResponse(agg rating.Aggregate) ratingResponse {
	return ratingResponse{Avg: agg.Avg, Count: agg.Count}
}

func registerRatingAPI(g *echo.Group, lc *lifecycle.Service, ratings *rating.Service) {
	api := ratingApi{lifecycle: lc, ratings: ratings}

	g.GET("", api.retrieve)
	g.POST("", api.rate)
	g.GET("/all", api.list)
}

// Handlers

func (api *ratingApi) retrieve(ctx echo.Context) error {
	agg, err := api.lifecycle.GetRating(ctx.Request().Context(), ctx.QueryParam("dishName"))
	if err != nil {
		return errors.Wrap(err, "getting rating")
	}
	return ctx.JSON(http.StatusOK, newRatingResponse(agg))
}

func (api *ratingApi) rate(ctx echo.Context) error {
	var data rating.NewRating
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRating")
	}
	agg, err := api.lifecycle.RateDish(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "rating dish")
	}
	return ctx.JSON(http.StatusOK, newRatingResponse(agg))
}

func (api *ratingApi) list(ctx echo.Context) error {
	aggs, err := api.ratings.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing ratings")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"ranking": aggs})
}
