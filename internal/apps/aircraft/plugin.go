package aircraft

import (
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/store"
	"gorm.io/gorm"
)

// Plugin owns airframes, their flights and the per-flight engine snapshots.
// Deleting an aircraft removes its flights, and deleting a flight removes
// its engine data.
type Plugin struct {
	aircraft   *store.Repository[Aircraft]
	flights    *store.Repository[Flight]
	engineData *store.Repository[FlightEngineData]
}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "aircraft" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&Aircraft{},
		&Flight{},
		&FlightEngineData{},
	}
}

func (p *Plugin) Init(db *gorm.DB, cfg *config.Config) error {
	p.aircraft = NewAircraftStore(db)
	p.flights = NewFlightStore(db)
	p.engineData = NewEngineDataStore(db)

	p.aircraft.AddDependent(store.Dependent{
		Table: p.flights.Table(), Column: "aircraft_id", OnDelete: store.Cascade, Rows: p.flights,
	})
	p.flights.AddDependent(store.Dependent{
		Table: p.engineData.Table(), Column: "flight_id", OnDelete: store.Cascade, Rows: p.engineData,
	})
	return nil
}

func (p *Plugin) Aircraft() *store.Repository[Aircraft]           { return p.aircraft }
func (p *Plugin) Flights() *store.Repository[Flight]              { return p.flights }
func (p *Plugin) EngineData() *store.Repository[FlightEngineData] { return p.engineData }
