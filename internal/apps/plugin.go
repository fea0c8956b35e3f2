package apps

import (
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/admin"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/config"
	"gorm.io/gorm"
)

// Plugin defines the interface every app must implement.
type Plugin interface {
	// ID returns the unique app identifier. It is the app part of permission codenames.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// Init builds the app's stores. It runs after migration and before any
	// dependent app is initialized.
	Init(db *gorm.DB, cfg *config.Config) error
}

// AdminPlugin extends Plugin with admin model registration.
type AdminPlugin interface {
	Plugin

	// RegisterAdmin registers the app's record types on the admin site.
	RegisterAdmin(site *admin.Site)
}

// Models collects the models of every plugin in order.
func Models(plugins []Plugin) []interface{} {
	var out []interface{}
	for _, p := range plugins {
		out = append(out, p.Models()...)
	}
	return out
}

// Init initializes plugins in order and registers those that expose admin models.
func Init(plugins []Plugin, db *gorm.DB, cfg *config.Config, site *admin.Site) error {
	for _, p := range plugins {
		if err := p.Init(db, cfg); err != nil {
			return &InitError{Plugin: p.ID(), Err: err}
		}
		if ap, ok := p.(AdminPlugin); ok && site != nil {
			ap.RegisterAdmin(site)
		}
	}
	return nil
}

type InitError struct {
	Plugin string
	Err    error
}

func (e *InitError) Error() string { return "init plugin " + e.Plugin + ": " + e.Err.Error() }
func (e *InitError) Unwrap() error { return e.Err }
