package models

import (
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/choices"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RolePilot    UserRole = "pilot"
	RoleMechanic UserRole = "mechanic"
	RoleEngineer UserRole = "engineer"
	RoleStaff    UserRole = "staff"
	RoleOwner    UserRole = "owner"
	RoleAdmin    UserRole = "admin"
)

var UserRoles = choices.New(
	choices.Of(RolePilot, "Pilot"),
	choices.Of(RoleMechanic, "Mechanic"),
	choices.Of(RoleEngineer, "Engineer"),
	choices.Of(RoleStaff, "Staff"),
	choices.Of(RoleOwner, "Owner"),
	choices.Of(RoleAdmin, "Admin"),
)

func (r UserRole) Valid() bool   { return UserRoles.Valid(r) }
func (r UserRole) Label() string { return UserRoles.Label(r) }

// User is an account holder. Email is the login identity.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string    `gorm:"size:254;not null;uniqueIndex:idx_users_email" json:"email" validate:"required,email,max=254"`
	Username    *string   `gorm:"size:150" json:"username" validate:"omitempty,max=150"`
	FirstName   string    `gorm:"size:150;not null" json:"first_name" validate:"required,max=150"`
	LastName    string    `gorm:"size:150;not null" json:"last_name" validate:"required,max=150"`
	CompanyName *string   `gorm:"size:255" json:"company_name" validate:"omitempty,max=255"`
	Role        UserRole  `gorm:"size:50;not null" json:"role" validate:"required,choice"`

	// Password holds the bcrypt hash. RawPassword carries a new plain-text
	// password from input until it is hashed.
	Password    string `gorm:"size:128;not null" json:"-"`
	RawPassword string `gorm:"-" json:"password,omitempty" validate:"omitempty,min=8,max=128"`

	Active      bool                        `gorm:"column:is_active;not null" json:"is_active"`
	Staff       bool                        `gorm:"column:is_staff;not null" json:"is_staff"`
	Superuser   bool                        `gorm:"column:is_superuser;not null" json:"is_superuser"`
	Groups      []Group                     `gorm:"many2many:user_groups;constraint:OnDelete:CASCADE" json:"groups" validate:"-"`
	// GroupIDs replaces the user's group memberships when set on input.
	GroupIDs    []uuid.UUID                 `gorm:"-" json:"group_ids,omitempty" validate:"-"`
	Permissions datatypes.JSONSlice[string] `json:"permissions"`
	LastLogin   *time.Time                  `json:"last_login"`
	DateJoined  time.Time                   `gorm:"not null" json:"date_joined"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.DateJoined.IsZero() {
		u.DateJoined = time.Now()
	}
	return nil
}

func (u *User) GetID() uuid.UUID { return u.ID }

func (u *User) ApplyDefaults() {
	u.Active = true
}

// Normalize lower-cases the domain part of the email address.
func (u *User) Normalize() {
	u.Email = NormalizeEmail(u.Email)
}

func (u *User) String() string { return u.Email }

func (u *User) IsActive() bool    { return u.Active }
func (u *User) IsStaff() bool     { return u.Staff }
func (u *User) IsSuperuser() bool { return u.Superuser }

// HasPerm reports whether the user holds the permission codename, either
// directly or through one of their groups. Active superusers hold every
// permission; inactive users hold none. Groups must be loaded.
func (u *User) HasPerm(codename string) bool {
	if !u.Active {
		return false
	}
	if u.Superuser {
		return true
	}
	for _, p := range u.Permissions {
		if p == codename {
			return true
		}
	}
	for i := range u.Groups {
		if u.Groups[i].HasPerm(codename) {
			return true
		}
	}
	return false
}

func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + strings.ToLower(email[at:])
}
