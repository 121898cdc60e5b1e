// Command seed-admin creates the site administrator, or resets its
// password when the email already exists.  It reads DATABASE_URL,
// ADMIN_SEED_EMAIL and ADMIN_SEED_PASSWORD (optionally from .env).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/palclasses/site-api/internal/database"
	"github.com/palclasses/site-api/internal/repository"
	"github.com/palclasses/site-api/internal/utils"
	"github.com/palclasses/site-api/internal/validation"
)

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := seed(logger); err != nil {
		logger.Error("seed failed", "err", err)
		os.Exit(1)
	}
}

func seed(logger *slog.Logger) error {
	dsn := os.Getenv("DATABASE_URL")
	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_SEED_EMAIL")))
	password := os.Getenv("ADMIN_SEED_PASSWORD")
	if dsn == "" || email == "" || password == "" {
		return fmt.Errorf("DATABASE_URL, ADMIN_SEED_EMAIL and ADMIN_SEED_PASSWORD are required")
	}
	if err := validation.New().Var("ADMIN_SEED_EMAIL", email, "email"); err != nil {
		return err
	}
	if len(password) < utils.MinPasswordLength {
		return fmt.Errorf("ADMIN_SEED_PASSWORD must be at least %d characters", utils.MinPasswordLength)
	}
	if len(password) > utils.MaxPasswordLength {
		return fmt.Errorf("ADMIN_SEED_PASSWORD must be at most %d bytes", utils.MaxPasswordLength)
	}

	cost := 10
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &cost); err != nil {
			return fmt.Errorf("invalid BCRYPT_COST %q", v)
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	db, err := database.Open(dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	admin, created, err := repository.NewUserRepo(db).UpsertAdmin(ctx, email, hash)
	if err != nil {
		return err
	}
	if created {
		logger.Info("admin created", "id", admin.ID, "email", admin.Email)
	} else {
		logger.Info("admin password reset", "id", admin.ID, "email", admin.Email)
	}
	return nil
}
