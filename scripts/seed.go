//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hugh/fleet-hub/internal/auth"
	"github.com/hugh/fleet-hub/internal/database"
	"github.com/hugh/fleet-hub/internal/database/models"
	"github.com/hugh/fleet-hub/internal/tenant"
	"github.com/hugh/fleet-hub/pkg/config"
	"github.com/hugh/fleet-hub/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Create owner user with a demo franchise
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService)

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")

	if email == "" {
		email = "owner@example.com"
	}
	if password == "" {
		password = "owner123!"
	}
	if name == "" {
		name = "Owner"
	}

	ctx := context.Background()
	resp, err := authService.Register(ctx, auth.RegisterInput{
		Email:         email,
		Password:      password,
		Name:          name,
		FranchiseName: "Demo Fleet",
	})
	if err != nil {
		if err == auth.ErrUserExists {
			fmt.Printf("Owner user already exists: %s\n", email)
			return
		}
		log.Fatalf("failed to create owner user: %v", err)
	}

	// Demo vehicles with a couple of schedule rows for the policy workflow
	scope := tenant.NewScope(db, resp.Franchise.ID)

	vehicles := []*models.Vehicle{
		{Name: "Van 1", Make: "Ford", Model: "Transit", Year: 2021, Odometer: 42000},
		{Name: "Van 2", Make: "Ram", Model: "ProMaster", Year: 2022, Odometer: 18500},
		{Name: "Pickup 1", Make: "Chevrolet", Model: "Silverado", Year: 2020, Odometer: 67300},
	}
	for _, v := range vehicles {
		if err := scope.Create(ctx, v); err != nil {
			log.Fatalf("failed to create vehicle %s: %v", v.Name, err)
		}
	}

	for _, v := range vehicles {
		schedule := &models.ScheduledMaintenance{
			VehicleID:       v.ID,
			MaintenanceType: "oil_change",
		}
		if err := scope.Create(ctx, schedule); err != nil {
			log.Fatalf("failed to create schedule for %s: %v", v.Name, err)
		}
	}

	fmt.Printf("Owner user created successfully!\n")
	fmt.Printf("Email: %s\n", resp.User.Email)
	fmt.Printf("Franchise: %s\n", resp.Franchise.Name)
	fmt.Printf("Vehicles: %d\n", len(vehicles))
	fmt.Printf("Token: %s\n", resp.Token)
}
