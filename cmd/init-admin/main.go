package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/hablandodecaballos/backend/config"
	"github.com/hablandodecaballos/backend/internal/core/auth"
	"github.com/hablandodecaballos/backend/internal/storage/postgres"
)

// Bootstraps the first admin account. Run once after the database is up.
func main() {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Fatal().Msg("ADMIN_EMAIL and ADMIN_PASSWORD environment variables are required")
	}

	cfg := config.Load()

	db, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	authRepo := auth.NewRepository(db)

	existing, err := authRepo.GetUserByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to check for existing user")
	}

	if existing != nil {
		if existing.Role == auth.RoleAdmin {
			fmt.Printf("admin user %q already exists\n", adminEmail)
			return
		}
		if err := authRepo.UpdateRole(ctx, existing.ID, auth.RoleAdmin); err != nil {
			log.Fatal().Err(err).Msg("failed to promote existing user")
		}
		fmt.Printf("promoted existing user %q to admin\n", adminEmail)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	user := &auth.User{
		ID:           uuid.New(),
		Email:        adminEmail,
		PasswordHash: string(hash),
		DisplayName:  "Administración",
		Role:         auth.RoleAdmin,
		Status:       auth.StatusActive,
		Level:        1,
	}

	if err := authRepo.CreateUser(ctx, user); err != nil {
		log.Fatal().Err(err).Msg("failed to create admin user")
	}

	fmt.Printf("created admin user %q\n", adminEmail)
}
