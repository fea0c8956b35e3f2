package aircraft

import (
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/admin"
)

const (
	// JoinFlightAircraft joins a flight's aircraft for search and filters.
	JoinFlightAircraft = "JOIN aircraft ON aircraft.id = flights.aircraft_id"
)

// FlightSearch is the search over a flight's aircraft, shared by every
// record that hangs off a flight.
var FlightSearch = []string{"aircraft.registration", "aircraft.model", "aircraft.serial"}

func (p *Plugin) RegisterAdmin(site *admin.Site) {
	admin.Register(site, p.aircraft, aircraftAdmin())
	admin.Register(site, p.flights, flightAdmin())
	admin.Register(site, p.engineData, engineDataAdmin())
}

func aircraftAdmin() admin.Options[Aircraft] {
	return admin.Options[Aircraft]{
		App:               "aircraft",
		Model:             "aircraft",
		VerboseName:       "aircraft",
		VerboseNamePlural: "aircraft",
		Columns: []admin.Column[Aircraft]{
			{Name: "manufacturer", Label: "Manufacturer", Order: "aircraft.manufacturer",
				Value: func(a *Aircraft) interface{} { return a.Manufacturer.Label() }},
			{Name: "aircraft_type", Label: "Aircraft Type", Order: "aircraft.aircraft_type",
				Value: func(a *Aircraft) interface{} { return a.Type.Label() }},
			{Name: "model", Label: "Model", Order: "aircraft.model",
				Value: func(a *Aircraft) interface{} { return a.Model }},
			{Name: "serial", Label: "S/N", Order: "aircraft.serial",
				Value: func(a *Aircraft) interface{} { return a.Serial }},
			{Name: "registration", Label: "Registration", Order: "aircraft.registration",
				Value: func(a *Aircraft) interface{} { return a.Registration }},
			{Name: "total_time", Label: "TTAF", Order: "aircraft.total_time",
				Value: func(a *Aircraft) interface{} { return a.TotalTime }},
			{Name: "total_cycles", Label: "TAC", Order: "aircraft.total_cycles",
				Value: func(a *Aircraft) interface{} { return a.TotalCycles }},
		},
		Filters: []admin.Filter{
			{Param: "manufacturer", Column: "aircraft.manufacturer", Label: "Manufacturer",
				Kind: admin.FilterChoice, Choices: Manufacturers.Options()},
			{Param: "aircraft_type", Column: "aircraft.aircraft_type", Label: "Type",
				Kind: admin.FilterChoice, Choices: Types.Options()},
		},
		Search: []string{"aircraft.model", "aircraft.serial", "aircraft.registration"},
		Ordering: []string{
			"aircraft.manufacturer", "aircraft.aircraft_type", "aircraft.model",
			"aircraft.serial", "aircraft.registration",
		},
		Fieldsets: []admin.Fieldset{
			{Name: "Aircraft Information", Fields: []string{"manufacturer", "aircraft_type", "model", "serial", "registration"}},
			{Name: "Time & Cycles", Fields: []string{"total_time", "total_cycles", "fuel_flow_unit"}},
		},
	}
}

func flightAdmin() admin.Options[Flight] {
	return admin.Options[Flight]{
		App:               "aircraft",
		Model:             "flight",
		VerboseName:       "flight",
		VerboseNamePlural: "flights",
		Columns: []admin.Column[Flight]{
			{Name: "aircraft", Label: "Aircraft", Order: "aircraft.registration",
				Value: func(f *Flight) interface{} { return aircraftRepr(f.Aircraft) }},
			{Name: "departure_airport", Label: "Departure Airport", Order: "flights.departure_airport",
				Value: func(f *Flight) interface{} { return f.DepartureAirport }},
			{Name: "arrival_airport", Label: "Arrival Airport", Order: "flights.arrival_airport",
				Value: func(f *Flight) interface{} { return f.ArrivalAirport }},
			{Name: "flight_date", Label: "Flight Date", Order: "flights.flight_date",
				Value: func(f *Flight) interface{} { return f.FlightDate }},
			{Name: "hours_flown", Label: "Hours Flown", Order: "flights.hours_flown",
				Value: func(f *Flight) interface{} { return f.HoursFlown }},
		},
		Joins:  []string{JoinFlightAircraft},
		Search: FlightSearch,
		Filters: []admin.Filter{
			{Param: "flight_date", Column: "flights.flight_date", Label: "Flight Date", Kind: admin.FilterDate},
			{Param: "aircraft__manufacturer", Column: "aircraft.manufacturer", Label: "Manufacturer",
				Kind: admin.FilterChoice, Choices: Manufacturers.Options()},
			{Param: "aircraft__aircraft_type", Column: "aircraft.aircraft_type", Label: "Type",
				Kind: admin.FilterChoice, Choices: Types.Options()},
		},
		DateHierarchy: "flights.flight_date",
		Ordering:      []string{"-flights.flight_date"},
		Fieldsets: []admin.Fieldset{
			{Name: "Flight Information", Fields: []string{"aircraft_id", "flight_date", "departure_airport", "arrival_airport", "hours_flown"}},
		},
		Readonly: []string{"aircraft"},
	}
}

func engineDataAdmin() admin.Options[FlightEngineData] {
	return admin.Options[FlightEngineData]{
		App:               "aircraft",
		Model:             "flightenginedata",
		Slug:              "flight-engine-data",
		VerboseName:       "flight engine data",
		VerboseNamePlural: "flight engine data",
		Columns: []admin.Column[FlightEngineData]{
			{Name: "flight", Label: "Flight", Order: "flights.flight_date",
				Value: func(d *FlightEngineData) interface{} { return FlightRepr(d.Flight) }},
			{Name: "flight__departure_airport", Label: "Departure Airport", Order: "flights.departure_airport",
				Value: func(d *FlightEngineData) interface{} { return flightField(d.Flight, func(f *Flight) string { return f.DepartureAirport }) }},
			{Name: "flight__arrival_airport", Label: "Arrival Airport", Order: "flights.arrival_airport",
				Value: func(d *FlightEngineData) interface{} { return flightField(d.Flight, func(f *Flight) string { return f.ArrivalAirport }) }},
			{Name: "press_altitude", Label: "Cruise Pressure Altitude (feet)", Order: "flight_engine_data.press_altitude",
				Value: func(d *FlightEngineData) interface{} { return d.PressAltitude }},
			{Name: "outside_air_temp", Label: "Cruise OAT", Order: "flight_engine_data.outside_air_temp",
				Value: func(d *FlightEngineData) interface{} { return d.OutsideAirTemp }},
			{Name: "indicated_air_speed", Label: "Cruise IAS (knots)", Order: "flight_engine_data.indicated_air_speed",
				Value: func(d *FlightEngineData) interface{} { return d.IndicatedAirSpeed }},
			{Name: "mach_number", Label: "Cruise Mach Number", Order: "flight_engine_data.mach_number",
				Value: func(d *FlightEngineData) interface{} { return d.MachNumber }},
			{Name: "created_at", Label: "Created At", Order: "flight_engine_data.created_at",
				Value: func(d *FlightEngineData) interface{} { return d.CreatedAt }},
			{Name: "updated_at", Label: "Updated At", Order: "flight_engine_data.updated_at",
				Value: func(d *FlightEngineData) interface{} { return d.UpdatedAt }},
		},
		Joins:  []string{"JOIN flights ON flights.id = flight_engine_data.flight_id", JoinFlightAircraft},
		Search: FlightSearch,
		Filters: []admin.Filter{
			{Param: "flight__aircraft__registration", Column: "aircraft.registration", Label: "Registration",
				Kind: admin.FilterExact, Lookup: admin.Distinct("aircraft", "registration")},
			{Param: "press_altitude", Column: "flight_engine_data.press_altitude", Label: "Cruise Pressure Altitude (feet)",
				Kind: admin.FilterExact, Lookup: admin.Distinct("flight_engine_data", "press_altitude")},
			{Param: "flight__flight_date", Column: "flights.flight_date", Label: "Flight Date", Kind: admin.FilterDate},
		},
		DateHierarchy: "flights.flight_date",
		Ordering:      []string{"-flights.flight_date"},
		Fieldsets: []admin.Fieldset{
			{Name: "Flight Information", Fields: []string{"flight_id", "engine_id"}},
			{Name: "Cruise Flight Conditions", Fields: []string{"press_altitude", "outside_air_temp", "indicated_air_speed", "mach_number"}},
			{Name: "Engine Parameters", Fields: []string{
				"n1_speed", "n2_speed", "epr", "itt", "fuel_flow",
				"oil_pressure", "oil_temp", "oil_added", "vibration",
			}},
			{Name: "System Information", Fields: []string{"created_at", "updated_at"}, Classes: []string{"collapse"}},
		},
		Readonly: []string{"flight"},
	}
}

func aircraftRepr(a *Aircraft) string {
	if a == nil {
		return ""
	}
	return a.String()
}

// FlightRepr renders a flight reference in list columns of dependent records.
func FlightRepr(f *Flight) string {
	if f == nil {
		return ""
	}
	return f.String()
}

func flightField(f *Flight, get func(*Flight) string) string {
	if f == nil {
		return ""
	}
	return get(f)
}
