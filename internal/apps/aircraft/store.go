package aircraft

import (
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AircraftKey is the identity of an airframe.
var AircraftKey = store.Unique[Aircraft]{
	Name:    "unique_aircraft",
	Fields:  []string{"manufacturer", "model", "serial", "registration"},
	Columns: []string{"manufacturer", "model", "serial", "registration"},
	Values: func(a *Aircraft) []interface{} {
		return []interface{}{a.Manufacturer, a.Model, a.Serial, a.Registration}
	},
}

func NewAircraftStore(db *gorm.DB) *store.Repository[Aircraft] {
	return store.New(db, store.Options[Aircraft]{
		Table:   "aircraft",
		Uniques: []store.Unique[Aircraft]{AircraftKey},
	})
}

func NewFlightStore(db *gorm.DB) *store.Repository[Flight] {
	return store.New(db, store.Options[Flight]{
		Table: "flights",
		References: []store.Reference[Flight]{{
			Field: "aircraft_id",
			Table: "aircraft",
			Value: func(f *Flight) *uuid.UUID { return &f.AircraftID },
		}},
		Preload: []string{"Aircraft"},
	})
}

func NewEngineDataStore(db *gorm.DB) *store.Repository[FlightEngineData] {
	return store.New(db, store.Options[FlightEngineData]{
		Table: "flight_engine_data",
		References: []store.Reference[FlightEngineData]{
			{
				Field: "flight_id",
				Table: "flights",
				Value: func(d *FlightEngineData) *uuid.UUID { return &d.FlightID },
			},
			{
				Field: "engine_id",
				Table: "engines",
				Value: func(d *FlightEngineData) *uuid.UUID { return d.EngineID },
			},
		},
		Preload: []string{"Flight.Aircraft"},
	})
}
