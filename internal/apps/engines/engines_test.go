package engines

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apps/aircraft"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fixture struct {
	aircraft *aircraft.Plugin
	engines  *Plugin
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	ac := aircraft.New()
	p := New(ac)
	if err := database.Migrate(db, append(ac.Models(), p.Models()...)...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := &config.Config{}
	if err := ac.Init(db, cfg); err != nil {
		t.Fatalf("init aircraft: %v", err)
	}
	if err := p.Init(db, cfg); err != nil {
		t.Fatalf("init engines: %v", err)
	}
	return &fixture{aircraft: ac, engines: p}
}

func (f *fixture) airframe(t *testing.T) *aircraft.Aircraft {
	t.Helper()
	a := f.aircraft.Aircraft().New()
	a.Manufacturer = aircraft.ManufacturerDassault
	a.Type = aircraft.TypeThreeJet
	a.Model = "Falcon 900"
	a.Serial = "F900-17"
	a.Registration = "N900FJ"
	if err := f.aircraft.Aircraft().Create(context.Background(), a); err != nil {
		t.Fatalf("create aircraft: %v", err)
	}
	return a
}

func (f *fixture) engine(t *testing.T, serial string, aircraftID *uuid.UUID) *Engine {
	t.Helper()
	e := f.engines.Engines().New()
	e.Manufacturer = ManufacturerHoneywell
	e.Type = TypeTurbofan
	e.Model = "tfe731-5br"
	e.Serial = serial
	e.AircraftID = aircraftID
	e.TimeSinceNew = decimal.RequireFromString("8200.4")
	e.TimeSinceOverhaul = decimal.RequireFromString("1200")
	if err := f.engines.Engines().Create(context.Background(), e); err != nil {
		t.Fatalf("create engine: %v", err)
	}
	return e
}

func TestEngineDefaults(t *testing.T) {
	f := setup(t)
	e := f.engines.Engines().New()
	if e.Manufacturer != ManufacturerOther || e.Type != TypeOther {
		t.Errorf("defaults = %s/%s", e.Manufacturer, e.Type)
	}
	if !e.TimeBetweenOverhauls.Equal(decimal.NewFromInt(3500)) {
		t.Errorf("TBO = %s, want 3500", e.TimeBetweenOverhauls)
	}
}

func TestEngineCreate(t *testing.T) {
	f := setup(t)
	a := f.airframe(t)
	e := f.engine(t, "p-107a", &a.ID)

	if e.Model != "TFE731-5BR" || e.Serial != "P-107A" {
		t.Errorf("stored %q %q", e.Model, e.Serial)
	}
	if e.Aircraft == nil || e.Aircraft.Registration != "N900FJ" {
		t.Errorf("aircraft = %+v", e.Aircraft)
	}
	if got := e.HoursToOverhaul(); !got.Equal(decimal.NewFromInt(2300)) {
		t.Errorf("hours to overhaul = %s", got)
	}
	if got, want := e.String(), "Honeywell TFE731-5BR P-107A"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestEngineSerialIsUnique(t *testing.T) {
	f := setup(t)
	f.engine(t, "P-107A", nil)

	dup := f.engines.Engines().New()
	dup.Serial = "p-107a"
	err := f.engines.Engines().Create(context.Background(), dup)
	uv, ok := apperrors.AsUniqueness(err)
	if !ok {
		t.Fatalf("err = %v, want uniqueness violation", err)
	}
	if msgs := uv.FieldMessages(); msgs["serial"] == "" {
		t.Errorf("field messages = %v", msgs)
	}
}

func TestEngineBounds(t *testing.T) {
	f := setup(t)
	e := f.engines.Engines().New()
	e.Serial = "X1"
	e.Manufacturer = "HW"
	e.TimeBetweenOverhauls = decimal.RequireFromString("10000")
	e.CyclesSinceOverhaul = -1
	e.AircraftID = ptr(uuid.New())

	err := f.engines.Engines().Create(context.Background(), e)
	ve, ok := apperrors.AsValidation(err)
	if !ok {
		t.Fatalf("err = %v, want validation error", err)
	}
	for _, field := range []string{"manufacturer", "time_between_overhauls", "cycles_since_overhaul"} {
		if !ve.Has(field) {
			t.Errorf("fields = %v, missing %s", ve.Fields(), field)
		}
	}

	// Field rules pass, the aircraft does not exist.
	e.Manufacturer = ManufacturerHoneywell
	e.TimeBetweenOverhauls = decimal.RequireFromString("9999.9")
	e.CyclesSinceOverhaul = 0
	err = f.engines.Engines().Create(context.Background(), e)
	if ve, ok := apperrors.AsValidation(err); !ok || !ve.Has("aircraft_id") {
		t.Errorf("unknown aircraft: err = %v", err)
	}
}

func TestDeleteAircraftDetachesEngines(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.airframe(t)
	e := f.engine(t, "P-107A", &a.ID)

	if _, err := f.aircraft.Aircraft().Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete aircraft: %v", err)
	}
	got, err := f.engines.Engines().Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("engine removed with aircraft: %v", err)
	}
	if got.AircraftID != nil || got.Aircraft != nil {
		t.Errorf("aircraft_id = %v, want nil", got.AircraftID)
	}
}

func TestDeleteEngineDetachesEngineData(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.airframe(t)
	e := f.engine(t, "P-107A", &a.ID)

	fl := f.aircraft.Flights().New()
	fl.AircraftID = a.ID
	fl.FlightDate = types.NewDate(2024, time.June, 1)
	fl.DepartureAirport = "KTEB"
	fl.ArrivalAirport = "KPBI"
	if err := f.aircraft.Flights().Create(ctx, fl); err != nil {
		t.Fatalf("create flight: %v", err)
	}
	alt, oat := 39000, decimal.RequireFromString("-52")
	d := f.aircraft.EngineData().New()
	d.FlightID = fl.ID
	d.EngineID = &e.ID
	d.PressAltitude = &alt
	d.OutsideAirTemp = &oat
	if err := f.aircraft.EngineData().Create(ctx, d); err != nil {
		t.Fatalf("create engine data: %v", err)
	}

	summary, err := f.engines.Engines().Delete(ctx, e.ID)
	if err != nil {
		t.Fatalf("delete engine: %v", err)
	}
	if summary["engines"] != 1 || summary["flight_engine_data"] != 0 {
		t.Errorf("summary = %v", summary)
	}
	got, err := f.aircraft.EngineData().Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("engine data removed with engine: %v", err)
	}
	if got.EngineID != nil {
		t.Errorf("engine_id = %v, want nil", got.EngineID)
	}
}

func TestInitRequiresAircraft(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := New(aircraft.New()).Init(db, &config.Config{}); err == nil {
		t.Error("expected error for uninitialized aircraft app")
	}
}

func ptr[T any](v T) *T { return &v }
