package controllers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/staffdesk/hr_service/internal/entity"
	"golang.org/x/crypto/bcrypt"
)

const TokenSize = 16

type AuthController struct {
	deps *Dependens
}

func NewAuthController(deps *Dependens) *AuthController {
	return &AuthController{
		deps: deps,
	}
}

// AuthLogin checks the credential pair against the stored hash and issues a
// token pair. Both an unknown username and a wrong password answer with the
// same ErrInvalidCredentials so the response never says which field failed.
func (c *AuthController) AuthLogin(req *entity.LoginRequest) (string, string, error) {
	rows, err := c.deps.DB.Query(context.Background(),
		"SELECT id, email, hashed_password, role, created_at, updated_at FROM users WHERE email = $1", req.Username)
	if err != nil {
		c.deps.Logger.Error("Error querying user", slog.String("error", err.Error()))
		return "", "", err
	}
	defer rows.Close()

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Invalid login attempt", slog.String("username", req.Username))
			return "", "", ErrInvalidCredentials
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		c.deps.Logger.Warn("Invalid password", slog.String("username", req.Username))
		return "", "", ErrInvalidCredentials
	}

	accessToken, err := c.createToken(user, "access")
	if err != nil {
		return "", "", err
	}

	refreshToken, err := c.createToken(user, "refresh")
	if err != nil {
		return "", "", err
	}

	ctx := context.Background()
	if err = c.deps.Redis.Set(ctx, "access_token:"+accessToken, "valid", c.deps.Config.Redis.AccessTokenTTL).Err(); err != nil {
		c.deps.Logger.Error("Error setting access token", slog.String("error", err.Error()))
		return "", "", err
	}

	if err = c.deps.Redis.Set(ctx, "refresh_token:"+refreshToken, "valid", c.deps.Config.Redis.RefreshTokenTTL).Err(); err != nil {
		c.deps.Logger.Error("Error setting refresh token", slog.String("error", err.Error()))
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (c *AuthController) createToken(user entity.User, tokenType string) (string, error) {
	tokenID, err := generateTokenID(c.deps.Logger)
	if err != nil {
		c.deps.Logger.Error("Error generating token ID", slog.String("error", err.Error()))
		return "", err
	}

	expiresAt := c.deps.Config.Redis.AccessTokenTTL
	if tokenType == "refresh" {
		expiresAt = c.deps.Config.Redis.RefreshTokenTTL
	}

	claims := entity.Claims{
		ID:      user.ID,
		Email:   user.Email,
		Role:    user.Role,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresAt)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(c.deps.Config.Server.JWTSecret))
	if err != nil {
		c.deps.Logger.Error("Error signing token", slog.String("error", err.Error()))
		return "", err
	}

	return tokenStr, nil
}

func generateTokenID(logger *slog.Logger) (string, error) {
	b := make([]byte, TokenSize)
	if _, err := rand.Read(b); err != nil {
		logger.Error("Error generating token ID", slog.String("error", err.Error()))
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// CheckUserToken validates the bearer token and returns its claims. Revoked
// tokens (logged out or expired in redis) are rejected before parsing.
func (c *AuthController) CheckUserToken(authHeader string) (*entity.Claims, error) {
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenStr == authHeader {
		c.deps.Logger.Error("Invalid bearer token", slog.String("token", tokenStr))
		return nil, errors.New("invalid bearer token")
	}

	ctx := context.Background()
	if err := c.deps.Redis.Get(ctx, "access_token:"+tokenStr).Err(); errors.Is(err, redis.Nil) {
		c.deps.Logger.Warn("Token revoked")
		return nil, errors.New("token revoked")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &entity.Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(c.deps.Config.Server.JWTSecret), nil
	})
	if err != nil {
		c.deps.Logger.Error("Error parsing token", slog.String("error", err.Error()))
		return nil, errors.New("invalid token")
	}

	if claims, ok := token.Claims.(*entity.Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// AuthLogout revokes the presented access token and, when supplied, the
// refresh token.
func (c *AuthController) AuthLogout(authHeader string, refreshToken string) error {
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	ctx := context.Background()
	if err := c.deps.Redis.Del(ctx, "access_token:"+tokenStr).Err(); err != nil {
		c.deps.Logger.Error("Error deleting access token", slog.String("error", err.Error()))
		return err
	}

	if refreshToken != "" {
		if err := c.deps.Redis.Del(ctx, "refresh_token:"+refreshToken).Err(); err != nil {
			c.deps.Logger.Error("Error deleting refresh token", slog.String("error", err.Error()))
			return err
		}
	}

	return nil
}
