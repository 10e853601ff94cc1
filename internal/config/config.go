package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server struct {
		Host                 string
		JWTSecret            string `toml:"jwt_secret"`
		ReadTimeout          time.Duration
		WriteTimeout         time.Duration
		ReadHeaderTimeout    time.Duration
		StrReadTimeout       string `toml:"read_timeout"`
		StrWriteTimeout      string `toml:"write_timeout"`
		StrReadHeaderTimeout string `toml:"read_header_timeout"`
	}
	Database struct {
		Host     string
		User     string
		Password string
		Database string
	}
	Redis struct {
		RedisAddr          string `toml:"redis_addr"`
		RedisPassword      string `toml:"redis_password"`
		RedisDB            int    `toml:"redis_db"`
		AccessTokenTTL     time.Duration
		RefreshTokenTTL    time.Duration
		ListCacheTTL       time.Duration
		DraftTTL           time.Duration
		StrAccessTokenTTL  string `toml:"access_token_ttl"`
		StrRefreshTokenTTL string `toml:"refresh_token_ttl"`
		StrListCacheTTL    string `toml:"list_cache_ttl"`
		StrDraftTTL        string `toml:"draft_ttl"`
	}
	Seed struct {
		AdminEmail    string `toml:"admin_email"`
		AdminPassword string `toml:"admin_password"`
	}
}

func GetConfig(logger *slog.Logger) (*Config, error) {
	data, err := os.ReadFile("configs/config.toml")
	if err != nil {
		logger.Error("Error read config.toml file", slog.String("error", err.Error()))
		return nil, err
	}

	var cfg *Config

	if _, tomlErr := toml.Decode(string(data), &cfg); tomlErr != nil {
		logger.Error("Error decode config.toml file", slog.String("error", tomlErr.Error()))
		return nil, tomlErr
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"read_timeout", cfg.Server.StrReadTimeout, &cfg.Server.ReadTimeout},
		{"write_timeout", cfg.Server.StrWriteTimeout, &cfg.Server.WriteTimeout},
		{"read_header_timeout", cfg.Server.StrReadHeaderTimeout, &cfg.Server.ReadHeaderTimeout},
		{"access_token_ttl", cfg.Redis.StrAccessTokenTTL, &cfg.Redis.AccessTokenTTL},
		{"refresh_token_ttl", cfg.Redis.StrRefreshTokenTTL, &cfg.Redis.RefreshTokenTTL},
		{"list_cache_ttl", cfg.Redis.StrListCacheTTL, &cfg.Redis.ListCacheTTL},
		{"draft_ttl", cfg.Redis.StrDraftTTL, &cfg.Redis.DraftTTL},
	}

	for _, d := range durations {
		if *d.dst, err = time.ParseDuration(d.raw); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.name, err)
		}
	}

	if cfg.Server.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}

	logger.Info("Config is loaded")
	return cfg, nil
}

// DSN is the postgres connection string shared by the server and the migrator.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Database)
}
