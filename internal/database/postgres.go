package database

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/staffdesk/hr_service/internal/config"
)

func NewConnect(cfg *config.Config, logger *slog.Logger) (*pgx.Conn, error) {
	conn, err := pgx.Connect(context.Background(), cfg.DSN())
	if err != nil {
		logger.Error("Error connecting to DB", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Connected to DB successfully")
	return conn, err
}
