package engines

import (
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var SerialKey = store.Unique[Engine]{
	Name:    "idx_engines_serial",
	Fields:  []string{"serial"},
	Columns: []string{"serial"},
	Values:  func(e *Engine) []interface{} { return []interface{}{e.Serial} },
}

func NewEngineStore(db *gorm.DB) *store.Repository[Engine] {
	return store.New(db, store.Options[Engine]{
		Table:   "engines",
		Uniques: []store.Unique[Engine]{SerialKey},
		References: []store.Reference[Engine]{{
			Field: "aircraft_id",
			Table: "aircraft",
			Value: func(e *Engine) *uuid.UUID { return e.AircraftID },
		}},
		Preload: []string{"Aircraft"},
	})
}
