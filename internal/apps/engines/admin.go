package engines

import (
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/admin"
)

func (p *Plugin) RegisterAdmin(site *admin.Site) {
	admin.Register(site, p.engines, engineAdmin())
}

var timeTracking = []string{"time_since_new", "cycles_since_new", "time_since_overhaul", "cycles_since_overhaul"}

func engineAdmin() admin.Options[Engine] {
	fieldsets := []admin.Fieldset{
		{Name: "Engine Info", Fields: []string{"manufacturer", "engine_type", "model", "serial", "aircraft_id"}},
		{Name: "Time Tracking", Fields: timeTracking},
		{Name: "Maintenance", Fields: []string{"time_between_overhauls"}},
	}
	return admin.Options[Engine]{
		App:               "engines",
		Model:             "engine",
		VerboseName:       "engine",
		VerboseNamePlural: "engines",
		Columns: []admin.Column[Engine]{
			{Name: "manufacturer", Label: "Manufacturer", Order: "engines.manufacturer",
				Value: func(e *Engine) interface{} { return e.Manufacturer.Label() }},
			{Name: "engine_type", Label: "Type", Order: "engines.engine_type",
				Value: func(e *Engine) interface{} { return e.Type.Label() }},
			{Name: "model", Label: "Model", Order: "engines.model",
				Value: func(e *Engine) interface{} { return e.Model }},
			{Name: "serial", Label: "Serial", Order: "engines.serial",
				Value: func(e *Engine) interface{} { return e.Serial }},
			{Name: "aircraft", Label: "Aircraft",
				Value: func(e *Engine) interface{} {
					if e.Aircraft == nil {
						return nil
					}
					return e.Aircraft.Registration
				}},
			{Name: "time_since_new", Label: "TSN (hours)", Order: "engines.time_since_new",
				Value: func(e *Engine) interface{} { return e.TimeSinceNew }},
			{Name: "cycles_since_new", Label: "CSN (cycles)", Order: "engines.cycles_since_new",
				Value: func(e *Engine) interface{} { return e.CyclesSinceNew }},
			{Name: "time_since_overhaul", Label: "TSO (hours)", Order: "engines.time_since_overhaul",
				Value: func(e *Engine) interface{} { return e.TimeSinceOverhaul }},
			{Name: "cycles_since_overhaul", Label: "CSO (cycles)", Order: "engines.cycles_since_overhaul",
				Value: func(e *Engine) interface{} { return e.CyclesSinceOverhaul }},
			{Name: "hours_to_overhaul", Label: "Hours to overhaul",
				Value: func(e *Engine) interface{} { return e.HoursToOverhaul() }},
		},
		Filters: []admin.Filter{
			{Param: "manufacturer", Column: "engines.manufacturer", Label: "Manufacturer",
				Kind: admin.FilterChoice, Choices: Manufacturers.Options()},
			{Param: "engine_type", Column: "engines.engine_type", Label: "Type",
				Kind: admin.FilterChoice, Choices: Types.Options()},
		},
		Search:       []string{"engines.manufacturer", "engines.model", "engines.serial"},
		Ordering:     []string{"engines.manufacturer", "engines.model", "engines.serial"},
		Fieldsets:    fieldsets,
		AddFieldsets: fieldsets,
		Readonly:     []string{"aircraft"},
	}
}
