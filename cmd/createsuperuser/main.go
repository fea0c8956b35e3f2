package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/services"
)

func main() {
	email := flag.String("email", "", "superuser email (required)")
	password := flag.String("password", os.Getenv("SUPERUSER_PASSWORD"), "superuser password (defaults to $SUPERUSER_PASSWORD)")
	firstName := flag.String("first-name", "", "first name (required for new accounts)")
	lastName := flag.String("last-name", "", "last name (required for new accounts)")
	flag.Parse()

	cfg := config.Load()
	logging.Setup(cfg.AppEnv)

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(database.DB)

	userService := services.NewUserService(database.DB, nil)
	plugins := apps.Default(userService)
	if err := database.Migrate(database.DB, append(apps.Models(plugins), database.SharedModels()...)...); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	u, created, err := userService.CreateSuperuser(context.Background(), *email, *password, *firstName, *lastName)
	if err != nil {
		if ve, ok := apperrors.AsValidation(err); ok {
			for field, msg := range ve.Fields() {
				fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
			}
			os.Exit(1)
		}
		slog.Error("create superuser failed", "error", err)
		os.Exit(1)
	}

	if created {
		fmt.Printf("Superuser %s created.\n", u.Email)
	} else {
		fmt.Printf("Existing user %s promoted to superuser.\n", u.Email)
	}
}
