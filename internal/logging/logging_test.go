package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	if err := database.Migrate(db, &models.SystemLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestDBHandlerPersistsErrors(t *testing.T) {
	db := setupDB(t)
	h := NewDBHandler(db, metrics.NewRegistry(prometheus.NewRegistry()))
	defer h.Stop()

	var buf bytes.Buffer
	logger := slog.New(NewMultiHandler(NewJSONHandler(&buf, "production"), h)).With("request_id", "req-1")

	logger.Info("flight created")
	logger.Error("admin write failed", "error", "boom", "action", "admin.create", "model", "flight")
	h.Flush()

	var logs []models.SystemLog
	if err := db.Find(&logs).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(logs))
	}
	got := logs[0]
	if got.Message != "admin write failed" || got.Error != "boom" || got.Action != "admin.create" || got.RequestID != "req-1" {
		t.Fatalf("unexpected record %+v", got)
	}
	if !strings.Contains(string(got.Extra), `"model":"flight"`) {
		t.Fatalf("expected extra attrs, got %s", got.Extra)
	}

	if !strings.Contains(buf.String(), "flight created") || !strings.Contains(buf.String(), "admin write failed") {
		t.Fatalf("stdout handler missed records: %s", buf.String())
	}
}

func TestPurgeOlderThan(t *testing.T) {
	db := setupDB(t)
	now := time.Now()
	old := models.SystemLog{Timestamp: now.AddDate(0, 0, -40), Level: "ERROR", Message: "old"}
	recent := models.SystemLog{Timestamp: now.AddDate(0, 0, -1), Level: "ERROR", Message: "recent"}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.Create(&recent).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if n := PurgeOlderThan(context.Background(), db, now.AddDate(0, 0, -30)); n != 1 {
		t.Fatalf("expected 1 deleted, got %d", n)
	}
	var count int64
	db.Model(&models.SystemLog{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 remaining, got %d", count)
	}
}
