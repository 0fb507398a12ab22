package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/cafeteria/apps/api/echo"
	"github.com/trezcool/cafeteria/core"
	"github.com/trezcool/cafeteria/core/dish"
	"github.com/trezcool/cafeteria/core/lifecycle"
	"github.com/trezcool/cafeteria/core/order"
	"github.com/trezcool/cafeteria/core/rating"
	logsvc "github.com/trezcool/cafeteria/services/logger"
	inmemdb "github.com/trezcool/cafeteria/storage/database/inmem"
	"github.com/trezcool/cafeteria/tests"
)

var (
	conf       *core.Config
	dishRepo   dish.Repository
	orderRepo  order.Repository
	ratingRepo rating.Repository
	orderSvc   *order.Service

	errInvalidToken = httpErr{Error: "invalid or expired token"}
)

type setupOptions struct {
	enforceAuth bool
	generator   dish.Generator
	pinger      core.Pinger
}

type setupOption func(*setupOptions)

func withEnforcedAuth() setupOption {
	return func(o *setupOptions) { o.enforceAuth = true }
}

func withGenerator(gen dish.Generator) setupOption {
	return func(o *setupOptions) { o.generator = gen }
}

func withPinger(p core.Pinger) setupOption {
	return func(o *setupOptions) { o.pinger = p }
}

func setup(t *testing.T, opts ...setupOption) *Server {
	var options setupOptions
	for _, opt := range opts {
		opt(&options)
	}

	// set up DB & repos
	db := inmemdb.Open()
	dishRepo = inmemdb.NewDishRepository(db)
	orderRepo = inmemdb.NewOrderRepository(db)
	ratingRepo = inmemdb.NewRatingRepository(db)

	conf = testutil.TestConfig()
	conf.Auth.Enforce = options.enforceAuth
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	// set up services
	v := core.NewDefaultValidator()
	dishSvc := dish.NewService(dishRepo, options.generator, v)
	orderSvc = order.NewService(orderRepo, dishSvc, order.NewRandomNamer("Ana González"), order.NewBroker(8), v)
	ratingSvc := rating.NewService(ratingRepo, v)

	var pinger core.Pinger = db
	if options.pinger != nil {
		pinger = options.pinger
	}

	// set up server
	return NewServer(conf, logger, &Deps{
		Lifecycle: lifecycle.NewService(orderSvc, ratingSvc),
		OrderSvc:  orderSvc,
		RatingSvc: ratingSvc,
		DishSvc:   dishSvc,
		DB:        pinger,
	})
}

type httpErr struct {
	Error string `json:"error"`
}

type httpFieldsErr struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte // not checked if nil
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, claims Claims) string {
	token, err := GenerateToken([]byte(conf.SecretKey), claims, time.Hour)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if _, ok := j1.([]interface{}); !ok {
		return false, nil
	}
	if _, ok := j2.([]interface{}); !ok {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app *Server, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func placeOrder(t *testing.T, dishName string, datetime string, qty int) order.Order {
	o, err := orderSvc.Create(context.Background(), order.NewOrder{
		DishName: dishName,
		Datetime: datetime,
		Code:     "U21201234",
		Quantity: testutil.Int(qty),
	})
	if err != nil {
		t.Fatalf("placeOrder() failed: %v", err)
	}
	return o
}

type menuGeneratorMock struct {
	err error
}

func (g menuGeneratorMock) GenerateMenu(_ context.Context, size int) ([]byte, error) {
	if g.err != nil {
		return nil, g.err
	}
	dishes := make([]map[string]interface{}, 0, size)
	for i := 0; i < size; i++ {
		dishes = append(dishes, map[string]interface{}{
			"dish_name": fmt.Sprintf("Plato %d", i+1),
			"items": []map[string]interface{}{
				{"name": "Arroz", "energy": 300, "carbs": 60, "protein": 6, "fat": 2},
			},
		})
	}
	return json.Marshal(map[string]interface{}{"dishes": dishes})
}
