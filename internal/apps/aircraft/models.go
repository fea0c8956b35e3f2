package aircraft

import (
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Aircraft is the master record of an airframe. The manufacturer, model,
// serial and registration together identify it.
type Aircraft struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Manufacturer Manufacturer    `gorm:"size:2;not null;uniqueIndex:unique_aircraft" json:"manufacturer" validate:"required,choice"`
	Type         Type            `gorm:"column:aircraft_type;size:2;not null" json:"aircraft_type" validate:"required,choice"`
	Model        string          `gorm:"size:255;not null;uniqueIndex:unique_aircraft" json:"model" validate:"required,max=255"`
	Serial       string          `gorm:"size:255;not null;uniqueIndex:unique_aircraft" json:"serial" validate:"required,max=255"`
	Registration string          `gorm:"size:50;not null;uniqueIndex:unique_aircraft" json:"registration" validate:"required,max=50"`
	TotalTime    decimal.Decimal `gorm:"type:decimal(7,1);not null" json:"total_time" validate:"dgte=0,dlte=500000,digits=7.1"`
	TotalCycles  int             `gorm:"not null" json:"total_cycles" validate:"gte=0,lte=100000"`
	FuelFlowUnit FuelFlowUnit    `gorm:"size:3;not null" json:"fuel_flow_unit" validate:"required,choice"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Aircraft) TableName() string { return "aircraft" }

func (a *Aircraft) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *Aircraft) GetID() uuid.UUID { return a.ID }

func (a *Aircraft) ApplyDefaults() {
	a.Manufacturer = ManufacturerOther
	a.Type = TypeOther
	a.FuelFlowUnit = FuelFlowKgPerHour
}

// Normalize upper-cases the identifier fields.
func (a *Aircraft) Normalize() {
	a.Model = strings.ToUpper(strings.TrimSpace(a.Model))
	a.Serial = strings.ToUpper(strings.TrimSpace(a.Serial))
	a.Registration = strings.ToUpper(strings.TrimSpace(a.Registration))
}

func (a *Aircraft) String() string { return a.Registration }

// Flight is one logged flight of an aircraft.
type Flight struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AircraftID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"aircraft_id" validate:"required"`
	Aircraft         *Aircraft       `gorm:"constraint:OnDelete:CASCADE" json:"aircraft,omitempty" validate:"-"`
	FlightDate       types.Date      `gorm:"not null;index" json:"flight_date" validate:"required"`
	DepartureAirport string          `gorm:"size:4;not null" json:"departure_airport" validate:"required,max=4"`
	ArrivalAirport   string          `gorm:"size:4;not null" json:"arrival_airport" validate:"required,max=4"`
	HoursFlown       decimal.Decimal `gorm:"type:decimal(3,1);not null" json:"hours_flown" validate:"dgte=0,dlte=50,digits=3.1"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (f *Flight) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (f *Flight) GetID() uuid.UUID { return f.ID }

// Normalize upper-cases the airport codes.
func (f *Flight) Normalize() {
	f.DepartureAirport = strings.ToUpper(strings.TrimSpace(f.DepartureAirport))
	f.ArrivalAirport = strings.ToUpper(strings.TrimSpace(f.ArrivalAirport))
}

func (f *Flight) Route() string { return f.DepartureAirport + "-" + f.ArrivalAirport }

// String needs Aircraft loaded.
func (f *Flight) String() string {
	reg := ""
	if f.Aircraft != nil {
		reg = f.Aircraft.Registration
	}
	return fmt.Sprintf("%s | %s | %s", f.Route(), reg, f.FlightDate)
}

// FlightEngineData is a cruise snapshot of engine and flight conditions
// recorded for a flight, optionally attributed to one engine.
type FlightEngineData struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	FlightID          uuid.UUID        `gorm:"type:uuid;not null;index" json:"flight_id" validate:"required"`
	Flight            *Flight          `gorm:"constraint:OnDelete:CASCADE" json:"flight,omitempty" validate:"-"`
	EngineID          *uuid.UUID       `gorm:"type:uuid;index" json:"engine_id"`
	PressAltitude     *int             `gorm:"not null" json:"press_altitude" validate:"required,gte=0,lte=70000"`
	OutsideAirTemp    *decimal.Decimal `gorm:"type:decimal(4,1);not null" json:"outside_air_temp" validate:"required,dgte=-100,dlte=100,digits=4.1"`
	IndicatedAirSpeed *int             `json:"indicated_air_speed" validate:"omitempty,gte=0,lte=1000"`
	MachNumber        *decimal.Decimal `gorm:"type:decimal(3,2)" json:"mach_number" validate:"omitempty,dgte=0,dlte=3,digits=3.2"`
	N1Speed           *decimal.Decimal `gorm:"column:n1_speed;type:decimal(4,1)" json:"n1_speed" validate:"omitempty,dgte=0,dlte=120,digits=4.1"`
	N2Speed           *decimal.Decimal `gorm:"column:n2_speed;type:decimal(4,1)" json:"n2_speed" validate:"omitempty,dgte=0,dlte=120,digits=4.1"`
	EPR               *decimal.Decimal `gorm:"column:epr;type:decimal(4,2)" json:"epr" validate:"omitempty,dgte=0,dlte=10,digits=4.2"`
	ITT               *decimal.Decimal `gorm:"column:itt;type:decimal(6,1)" json:"itt" validate:"omitempty,dgte=0,dlte=10000,digits=6.1"`
	FuelFlow          *int             `json:"fuel_flow" validate:"omitempty,gte=0,lte=50000"`
	OilPressure       *int             `json:"oil_pressure" validate:"omitempty,gte=0,lte=1000"`
	OilTemp           *int             `json:"oil_temp" validate:"omitempty,gte=0,lte=500"`
	OilAdded          *int             `json:"oil_added" validate:"omitempty,gte=0,lte=50"`
	Vibration         *decimal.Decimal `gorm:"type:decimal(4,2)" json:"vibration" validate:"omitempty,dgte=0,dlte=10,digits=4.2"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func (FlightEngineData) TableName() string { return "flight_engine_data" }

func (d *FlightEngineData) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (d *FlightEngineData) GetID() uuid.UUID { return d.ID }

// String needs Flight.Aircraft loaded.
func (d *FlightEngineData) String() string {
	if d.Flight == nil {
		return d.ID.String()
	}
	reg := ""
	if d.Flight.Aircraft != nil {
		reg = d.Flight.Aircraft.Registration
	}
	return fmt.Sprintf("%s %s %s", reg, d.Flight.FlightDate, d.Flight.HoursFlown.StringFixed(1))
}
