package dig_container

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/trezcool/cafeteria/core"
	"github.com/trezcool/cafeteria/core/dish"
	logsvc "github.com/trezcool/cafeteria/services/logger"
)

func Test_newDishService(t *testing.T) {
	tests := []struct {
		name          string
		apiURL        string
		wantNoGenerator bool
	}{
		{name: "no upstream", apiURL: "", wantNoGenerator: true},
		{name: "upstream", apiURL: "http://localhost:8001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := &core.Config{Env: "TEST", TestMode: true, Storage: core.StorageMemory, Menu: core.MenuConfig{APIURL: tt.apiURL}}
			logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
			logger.Enable(false)
			st := newStorage(conf, DBLoggerParam{Logger: logger})
			svc := newDishService(st, conf, logger, newValidator())

			// size 0 is rejected before any upstream call, but only once a generator is wired
			_, err := svc.Generate(context.Background(), 0)
			if gotNoGenerator := err == dish.ErrNoGenerator; gotNoGenerator != tt.wantNoGenerator {
				t.Errorf("Generate() error = %v; wantNoGenerator %v", err, tt.wantNoGenerator)
			}
		})
	}
}
