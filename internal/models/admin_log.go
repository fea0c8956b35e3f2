package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AdminAction int

const (
	ActionAddition AdminAction = 1
	ActionChange   AdminAction = 2
	ActionDeletion AdminAction = 3
)

func (a AdminAction) String() string {
	switch a {
	case ActionAddition:
		return "addition"
	case ActionChange:
		return "change"
	case ActionDeletion:
		return "deletion"
	}
	return "unknown"
}

// AdminLogEntry records one write made through the admin API.
type AdminLogEntry struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ActionTime    time.Time      `gorm:"not null;index" json:"action_time"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ContentType   string         `gorm:"size:100;not null;index:idx_admin_log_object" json:"content_type"`
	ObjectID      string         `gorm:"size:36;not null;index:idx_admin_log_object" json:"object_id"`
	ObjectRepr    string         `gorm:"size:200" json:"object_repr"`
	Action        AdminAction    `gorm:"not null" json:"action"`
	ChangeMessage datatypes.JSON `json:"change_message"`
	User          *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (AdminLogEntry) TableName() string { return "admin_log_entries" }

func (e *AdminLogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.ActionTime.IsZero() {
		e.ActionTime = time.Now()
	}
	return nil
}
