package apps

import (
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/admin"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apps/aircraft"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apps/engines"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/services"
	"github.com/prometheus/client_golang/prometheus"
)

func TestDefaultOrder(t *testing.T) {
	plugins := Default(services.NewUserService(nil, nil))
	want := []string{"accounts", "aircraft", "engines", "finance"}
	if len(plugins) != len(want) {
		t.Fatalf("got %d plugins, want %d", len(plugins), len(want))
	}
	for i, p := range plugins {
		if p.ID() != want[i] {
			t.Errorf("plugin %d = %s, want %s", i, p.ID(), want[i])
		}
		if _, ok := p.(AdminPlugin); !ok {
			t.Errorf("%s does not register admin models", p.ID())
		}
	}
	if n := len(Models(plugins)); n != 9 {
		t.Errorf("models = %d, want 9", n)
	}
}

func TestInitMigratesAndRegisters(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	plugins := Default(services.NewUserService(db, nil))
	if err := database.Migrate(db, append(Models(plugins), database.SharedModels()...)...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	site := admin.NewSite(db, metrics.NewRegistry(prometheus.NewRegistry()), 0)
	if err := Init(plugins, db, &config.Config{}, site); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, table := range []string{"users", "aircraft", "flights", "flight_engine_data", "engines", "flight_expenses", "fuel_paid", "admin_log_entries", "system_logs"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("missing table %s", table)
		}
	}
}

func TestInitOutOfOrder(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	plugins := []Plugin{engines.New(aircraft.New())}
	err = Init(plugins, db, &config.Config{}, nil)
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("err = %v, want *InitError", err)
	}
	if initErr.Plugin != "engines" {
		t.Errorf("plugin = %s", initErr.Plugin)
	}
}
