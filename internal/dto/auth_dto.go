package dto

import (
	"time"

	"github.com/google/uuid"
)

type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type VerifyRequest struct {
	Token string `json:"token"`
}

type RegisterRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Username    *string `json:"username"`
	CompanyName *string `json:"company_name"`
	Role        string  `json:"role"`
}

// ProfileRequest carries the self-service profile fields. Omitted fields are left unchanged.
type ProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Username    *string `json:"username"`
	CompanyName *string `json:"company_name"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessResponse is returned by refresh. Refresh is set only when tokens rotate.
type AccessResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Username    *string    `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	CompanyName *string    `json:"company_name"`
	Role        string     `json:"role"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login"`
	DateJoined  time.Time  `json:"date_joined"`
}

type ErrorResponse struct {
	Error   bool              `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Apps      int    `json:"apps"`
}
