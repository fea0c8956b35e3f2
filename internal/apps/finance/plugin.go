package finance

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apps/aircraft"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/store"
	"gorm.io/gorm"
)

// Plugin owns flight expenses and fuel purchases. Both are removed with their flight.
type Plugin struct {
	aircraft *aircraft.Plugin
	expenses *store.Repository[FlightExpense]
	fuel     *store.Repository[FuelPaid]
}

func New(aircraftPlugin *aircraft.Plugin) *Plugin {
	return &Plugin{aircraft: aircraftPlugin}
}

func (p *Plugin) ID() string { return "finance" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&FlightExpense{},
		&FuelPaid{},
	}
}

func (p *Plugin) Init(db *gorm.DB, cfg *config.Config) error {
	if p.aircraft == nil || p.aircraft.Flights() == nil {
		return errors.New("aircraft plugin must be initialized first")
	}
	p.expenses = NewExpenseStore(db)
	p.fuel = NewFuelStore(db)

	flights := p.aircraft.Flights()
	flights.AddDependent(store.Dependent{
		Table: p.expenses.Table(), Column: "flight_id", OnDelete: store.Cascade, Rows: p.expenses,
	})
	flights.AddDependent(store.Dependent{
		Table: p.fuel.Table(), Column: "flight_id", OnDelete: store.Cascade, Rows: p.fuel,
	})
	return nil
}

func (p *Plugin) Expenses() *store.Repository[FlightExpense] { return p.expenses }
func (p *Plugin) Fuel() *store.Repository[FuelPaid]          { return p.fuel }
