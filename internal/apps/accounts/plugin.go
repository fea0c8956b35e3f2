package accounts

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/services"
	"gorm.io/gorm"
)

// Plugin exposes user accounts and permission groups on the admin site.
type Plugin struct {
	users *services.UserService
}

func New(users *services.UserService) *Plugin {
	return &Plugin{users: users}
}

func (p *Plugin) ID() string { return "accounts" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Group{},
		&models.RefreshToken{},
	}
}

func (p *Plugin) Init(db *gorm.DB, cfg *config.Config) error {
	if p.users == nil {
		return errors.New("user service is required")
	}
	return nil
}
