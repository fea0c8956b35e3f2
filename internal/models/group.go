package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Group is a named bundle of permission codenames.
type Group struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string                      `gorm:"size:150;not null;uniqueIndex:idx_groups_name" json:"name" validate:"required,max=150"`
	Permissions datatypes.JSONSlice[string] `json:"permissions"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (Group) TableName() string { return "groups" }

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

func (g *Group) GetID() uuid.UUID { return g.ID }
func (g *Group) String() string   { return g.Name }

func (g *Group) HasPerm(codename string) bool {
	for _, p := range g.Permissions {
		if p == codename {
			return true
		}
	}
	return false
}
