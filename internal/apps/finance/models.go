package finance

import (
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apps/aircraft"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FlightExpense is a cost paid during a flight, in USD.
type FlightExpense struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	FlightID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"flight_id" validate:"required"`
	Flight        *aircraft.Flight `gorm:"constraint:OnDelete:CASCADE" json:"flight,omitempty" validate:"-"`
	ExpenseType   ExpenseType      `gorm:"size:20;not null" json:"expense_type" validate:"required,choice"`
	PaymentMethod PaymentMethod    `gorm:"size:20;not null" json:"payment_method" validate:"required,choice"`
	ExpenseAmount *decimal.Decimal `gorm:"type:decimal(9,2);not null" json:"expense_amount" validate:"required,dgte=0,dlte=1000000,digits=9.2"`
	Notes         string           `gorm:"type:text;not null" json:"notes"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (e *FlightExpense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *FlightExpense) GetID() uuid.UUID { return e.ID }

func (e *FlightExpense) ApplyDefaults() {
	e.ExpenseType = ExpenseOther
	e.PaymentMethod = PaymentOther
}

// String needs Flight.Aircraft loaded.
func (e *FlightExpense) String() string {
	if e.Flight == nil {
		return e.ID.String()
	}
	reg := ""
	if e.Flight.Aircraft != nil {
		reg = e.Flight.Aircraft.Registration
	}
	return fmt.Sprintf("%s %s", reg, e.Flight.FlightDate)
}

// FuelPaid is one fuel purchase for a flight.
type FuelPaid struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	FlightID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"flight_id" validate:"required"`
	Flight       *aircraft.Flight `gorm:"constraint:OnDelete:CASCADE" json:"flight,omitempty" validate:"-"`
	FuelType     FuelType         `gorm:"size:20;not null" json:"fuel_type" validate:"required,choice"`
	FuelUnits    FuelUnits        `gorm:"size:20;not null" json:"fuel_units" validate:"required,choice"`
	FuelQuantity decimal.Decimal  `gorm:"type:decimal(7,1);not null" json:"fuel_quantity" validate:"dgte=0,dlte=100000,digits=7.1"`
	AmountPaid   decimal.Decimal  `gorm:"type:decimal(8,2);not null" json:"amount_paid" validate:"dgte=0,dlte=100000,digits=8.2"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (FuelPaid) TableName() string { return "fuel_paid" }

func (f *FuelPaid) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (f *FuelPaid) GetID() uuid.UUID { return f.ID }

func (f *FuelPaid) ApplyDefaults() {
	f.FuelType = FuelJetA1
	f.FuelUnits = UnitsLiters
}

// String needs Flight.Aircraft loaded.
func (f *FuelPaid) String() string {
	if f.Flight == nil {
		return f.ID.String()
	}
	reg := ""
	if f.Flight.Aircraft != nil {
		reg = f.Flight.Aircraft.Registration
	}
	return fmt.Sprintf("%s | %s | %s %s | %s | USD $%s",
		f.Flight.Route(), reg, f.FuelQuantity.StringFixed(1), f.FuelUnits, f.FuelType, f.AmountPaid.StringFixed(2))
}
