package database

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/staffdesk/hr_service/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// RowQuerier is the slice of pgx used by the seeder.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// EnsureAdminUser creates the initial admin login when the users table is
// empty. Hashing happens here so no credential hash lives in the migrations.
func EnsureAdminUser(ctx context.Context, db RowQuerier, cfg *config.Config, logger *slog.Logger) error {
	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		logger.Error("Error counting users", slog.String("error", err.Error()))
		return err
	}

	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Error hashing seed password", slog.String("error", err.Error()))
		return err
	}

	var id uint64
	query := `INSERT INTO users (email, hashed_password, role, created_at, updated_at)
              VALUES ($1, $2, 'admin', now(), now())
              RETURNING id`
	if err := db.QueryRow(ctx, query, cfg.Seed.AdminEmail, string(hash)).Scan(&id); err != nil {
		logger.Error("Error inserting seed admin", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Seed admin user created", slog.String("email", cfg.Seed.AdminEmail))
	return nil
}
