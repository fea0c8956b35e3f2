package apps

import (
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apps/accounts"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apps/aircraft"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apps/engines"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apps/finance"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/services"
)

// Default returns the installed apps in initialization order. Apps that
// attach delete rules to another app's records come after it.
func Default(users *services.UserService) []Plugin {
	aircraftApp := aircraft.New()
	return []Plugin{
		accounts.New(users),
		aircraftApp,
		engines.New(aircraftApp),
		finance.New(aircraftApp),
	}
}
