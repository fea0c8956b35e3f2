package engines

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apps/aircraft"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/store"
	"gorm.io/gorm"
)

// Plugin owns engines. It detaches engines from deleted aircraft and
// clears the engine of flight engine data when an engine is deleted.
type Plugin struct {
	aircraft *aircraft.Plugin
	engines  *store.Repository[Engine]
}

func New(aircraftPlugin *aircraft.Plugin) *Plugin {
	return &Plugin{aircraft: aircraftPlugin}
}

func (p *Plugin) ID() string { return "engines" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&Engine{}}
}

func (p *Plugin) Init(db *gorm.DB, cfg *config.Config) error {
	if p.aircraft == nil || p.aircraft.Aircraft() == nil {
		return errors.New("aircraft plugin must be initialized first")
	}
	p.engines = NewEngineStore(db)

	p.aircraft.Aircraft().AddDependent(store.Dependent{
		Table: p.engines.Table(), Column: "aircraft_id", OnDelete: store.SetNull,
	})
	p.engines.AddDependent(store.Dependent{
		Table: p.aircraft.EngineData().Table(), Column: "engine_id", OnDelete: store.SetNull,
	})
	return nil
}

func (p *Plugin) Engines() *store.Repository[Engine] { return p.engines }
