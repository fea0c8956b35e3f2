package finance

import (
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func NewExpenseStore(db *gorm.DB) *store.Repository[FlightExpense] {
	return store.New(db, store.Options[FlightExpense]{
		Table: "flight_expenses",
		References: []store.Reference[FlightExpense]{{
			Field: "flight_id",
			Table: "flights",
			Value: func(e *FlightExpense) *uuid.UUID { return &e.FlightID },
		}},
		Preload: []string{"Flight.Aircraft"},
	})
}

func NewFuelStore(db *gorm.DB) *store.Repository[FuelPaid] {
	return store.New(db, store.Options[FuelPaid]{
		Table: "fuel_paid",
		References: []store.Reference[FuelPaid]{{
			Field: "flight_id",
			Table: "flights",
			Value: func(f *FuelPaid) *uuid.UUID { return &f.FlightID },
		}},
		Preload: []string{"Flight.Aircraft"},
	})
}
