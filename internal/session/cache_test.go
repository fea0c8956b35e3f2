package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *UserCache, *metrics.Registry) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	if err := database.Migrate(db, &models.User{}, &models.Group{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	m := metrics.NewRegistry(prometheus.NewRegistry())
	return db, NewUserCache(db, time.Minute, m), m
}

func TestUserCache(t *testing.T) {
	db, cache, m := setup(t)
	ctx := context.Background()

	u := &models.User{Email: "ops@example.com", FirstName: "Ops", LastName: "Desk", Role: models.RoleStaff, Password: "!", Active: true}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := cache.Load(ctx, u.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	second, err := cache.Load(ctx, u.ID)
	if err != nil {
		t.Fatalf("load again: %v", err)
	}
	if first != second {
		t.Error("second load not served from cache")
	}
	if hits := testutil.ToFloat64(m.UserCacheHitsTotal); hits != 1 {
		t.Errorf("hits = %v", hits)
	}

	db.Model(u).Update("is_staff", true)
	cache.Invalidate(u.ID)
	fresh, err := cache.Load(ctx, u.ID)
	if err != nil {
		t.Fatalf("load after invalidate: %v", err)
	}
	if !fresh.Staff {
		t.Error("stale user after Invalidate")
	}

	db.Model(u).Update("first_name", "Tower")
	cache.Flush()
	fresh, _ = cache.Load(ctx, u.ID)
	if fresh.FirstName != "Tower" {
		t.Errorf("stale user after Flush: %q", fresh.FirstName)
	}
	if misses := testutil.ToFloat64(m.UserCacheMissesTotal); misses != 3 {
		t.Errorf("misses = %v", misses)
	}
}

func TestUserCacheMissingUser(t *testing.T) {
	_, cache, _ := setup(t)
	if _, err := cache.Load(context.Background(), uuid.New()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}
