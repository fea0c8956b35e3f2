//go:build integration

package aircraft

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/types"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "jetbench",
				"POSTGRES_PASSWORD": "jetbench",
				"POSTGRES_DB":       "jetbench",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	cfg := &config.Config{
		DBHost:     host,
		DBPort:     port.Port(),
		DBUser:     "jetbench",
		DBPassword: "jetbench",
		DBName:     "jetbench",
		DBSSLMode:  "disable",
	}
	db, err := database.OpenPostgres(cfg.DSN())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestPostgresConcurrentDuplicates(t *testing.T) {
	db := startPostgres(t)
	p := New()
	if err := database.Migrate(db, p.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := p.Init(db, &config.Config{}); err != nil {
		t.Fatalf("init: %v", err)
	}

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = p.Aircraft().Create(context.Background(), newAircraft(p, "N525CJ"))
		}(i)
	}
	wg.Wait()

	created := 0
	for i, err := range errs {
		if err == nil {
			created++
			continue
		}
		uv, ok := apperrors.AsUniqueness(err)
		if !ok {
			t.Errorf("writer %d: err = %v, want uniqueness violation", i, err)
			continue
		}
		if uv.Constraint != "unique_aircraft" {
			t.Errorf("writer %d: constraint = %q", i, uv.Constraint)
		}
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}

	var count int64
	if err := db.Model(&Aircraft{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("rows = %d", count)
	}
}

func TestPostgresDeleteCascades(t *testing.T) {
	db := startPostgres(t)
	p := New()
	if err := database.Migrate(db, p.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := p.Init(db, &config.Config{}); err != nil {
		t.Fatalf("init: %v", err)
	}

	a := mustAircraft(t, p, "N900EX")
	for day := 1; day <= 3; day++ {
		mustFlight(t, p, a, types.NewDate(2024, time.June, day))
	}
	summary, err := p.Aircraft().Delete(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if summary["aircraft"] != 1 || summary["flights"] != 3 {
		t.Errorf("summary = %v", summary)
	}
}
