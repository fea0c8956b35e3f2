package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the configured database and stores the handle in DB.
func Connect(cfg *config.Config) error {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case "postgres", "postgresql":
		db, err = OpenPostgres(cfg.DSN())
	case "sqlite":
		db, err = OpenSQLite(cfg.SQLitePath)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}
	if err != nil {
		return err
	}
	DB = db
	slog.Info("database connected", "driver", cfg.DBDriver)
	return nil
}

func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// OpenSQLite opens a SQLite database at path with foreign keys enforced.
// ":memory:" opens a private in-memory database on a single connection.
func OpenSQLite(path string) (*gorm.DB, error) {
	memory := path == ":memory:"
	dsn := path
	if memory {
		dsn = "file::memory:"
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// Every connection to file::memory: sees its own database.
	if memory {
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// SharedModels are the tables that exist regardless of which apps are installed.
func SharedModels() []interface{} {
	return []interface{}{
		&models.SystemLog{},
		&models.AdminLogEntry{},
	}
}

// Migrate runs AutoMigrate for the given models in one pass so that tables are
// created parents first and foreign keys can be declared inline.
func Migrate(db *gorm.DB, modelList ...interface{}) error {
	if len(modelList) == 0 {
		return nil
	}
	if err := db.AutoMigrate(modelList...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
