package engines

import (
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apps/aircraft"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Engine tracks the time and cycles of one physical engine. It may be
// installed on an aircraft; removing the aircraft leaves the engine uninstalled.
type Engine struct {
	ID                   uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Manufacturer         Manufacturer       `gorm:"size:2;not null" json:"manufacturer" validate:"required,choice"`
	Type                 Type               `gorm:"column:engine_type;size:2;not null" json:"engine_type" validate:"required,choice"`
	Model                string             `gorm:"size:255;not null" json:"model" validate:"max=255"`
	Serial               string             `gorm:"size:255;not null;uniqueIndex:idx_engines_serial" json:"serial" validate:"required,max=255"`
	AircraftID           *uuid.UUID         `gorm:"type:uuid;index" json:"aircraft_id"`
	Aircraft             *aircraft.Aircraft `gorm:"constraint:OnDelete:SET NULL" json:"aircraft,omitempty" validate:"-"`
	TimeSinceNew         decimal.Decimal    `gorm:"type:decimal(7,1);not null" json:"time_since_new" validate:"dgte=0,dlte=999999.9,digits=7.1"`
	CyclesSinceNew       int                `gorm:"not null" json:"cycles_since_new" validate:"gte=0,lte=1000000"`
	TimeSinceOverhaul    decimal.Decimal    `gorm:"type:decimal(6,1);not null" json:"time_since_overhaul" validate:"dgte=0,dlte=99999.9,digits=6.1"`
	CyclesSinceOverhaul  int                `gorm:"not null" json:"cycles_since_overhaul" validate:"gte=0,lte=100000"`
	TimeBetweenOverhauls decimal.Decimal    `gorm:"type:decimal(5,1);not null" json:"time_between_overhauls" validate:"dgte=0,dlte=9999.9,digits=5.1"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

func (e *Engine) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *Engine) GetID() uuid.UUID { return e.ID }

func (e *Engine) ApplyDefaults() {
	e.Manufacturer = ManufacturerOther
	e.Type = TypeOther
	e.TimeBetweenOverhauls = decimal.NewFromInt(3500)
}

func (e *Engine) Normalize() {
	e.Model = strings.ToUpper(strings.TrimSpace(e.Model))
	e.Serial = strings.ToUpper(strings.TrimSpace(e.Serial))
}

func (e *Engine) String() string {
	return strings.TrimSpace(e.Manufacturer.Label() + " " + e.Model + " " + e.Serial)
}

// HoursToOverhaul is the time left before the engine is due for overhaul.
// It is negative once the engine is past due.
func (e *Engine) HoursToOverhaul() decimal.Decimal {
	return e.TimeBetweenOverhauls.Sub(e.TimeSinceOverhaul)
}
