// Package menugen talks to the upstream menu generation API.
package menugen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/cafeteria/core"
	"github.com/trezcool/cafeteria/core/dish"
)

var endpoint = "/menus/complete"

type generator struct {
	host    string
	timeout time.Duration
	logger  core.Logger
}

var _ dish.Generator = (*generator)(nil)

func NewGenerator(conf *core.Config, logger core.Logger) dish.Generator {
	return &generator{
		host:    conf.Menu.APIURL,
		timeout: conf.Menu.Timeout,
		logger:  logger,
	}
}

type menuRequest struct {
	Size int `json:"n_platos"`
}

// GenerateMenu returns the raw upstream payload; parsing is left to dish.ParseMenu.
func (g generator) GenerateMenu(ctx context.Context, size int) ([]byte, error) {
	body, err := json.Marshal(menuRequest{Size: size})
	if err != nil {
		return nil, errors.Wrap(err, "encoding menu request")
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := rest.Request{
		Method:  rest.Post,
		BaseURL: g.host + endpoint,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		Body: body,
	}
	res, err := send(ctx, req)
	if err != nil {
		g.logger.Error(fmt.Sprintf("requesting menu: %v", err), err)
		return nil, &dish.GeneratorError{Err: err}
	}
	if res.StatusCode >= http.StatusBadRequest {
		g.logger.Error(fmt.Sprintf("requesting menu - status: %d - Body: %s", res.StatusCode, res.Body))
		return nil, &dish.GeneratorError{Status: res.StatusCode, Err: errors.New(http.StatusText(res.StatusCode))}
	}
	return []byte(res.Body), nil
}

// send is rest.Send bound to ctx, so that cancellation and menu.timeout reach the upstream call.
func send(ctx context.Context, req rest.Request) (*rest.Response, error) {
	httpReq, err := rest.BuildRequestObject(req)
	if err != nil {
		return nil, errors.Wrap(err, "building menu request")
	}
	httpRes, err := rest.MakeRequest(httpReq.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return rest.BuildResponse(httpRes)
}
