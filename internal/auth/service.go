package auth

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/internal/users"
	pkgauth "github.com/oakline/oakline-backend/pkg/auth"
	"github.com/oakline/oakline-backend/pkg/config"
	"github.com/oakline/oakline-backend/pkg/db"
	"github.com/oakline/oakline-backend/pkg/db/models"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
	"github.com/oakline/oakline-backend/pkg/logger"
	"github.com/oakline/oakline-backend/pkg/security"
)

// LoginRequest carries the credentials posted to /auth/.
type LoginRequest struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the access token envelope data.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

// Service authenticates credentials and mints access tokens.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type service struct {
	client *db.Client
	jwtCfg config.JWTConfig
	logg   *logger.Logger
	now    func() time.Time
}

func NewService(client *db.Client, jwtCfg config.JWTConfig, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db client is required")
	}
	if jwtCfg.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "jwt secret is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{client: client, jwtCfg: jwtCfg, logg: logg, now: time.Now}, nil
}

// Login verifies the password against the stored Argon2id hash and stamps
// the login time. Invalid credentials are indistinguishable from an unknown
// user.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var response *LoginResponse
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := repo.New[models.User](tx, "user_id")
		user, err := userRepo.QueryOne(ctx, map[string]any{"email": req.Username}, "Roles")
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
			}
			return err
		}
		if user.PasswordHash == "" {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}

		match, err := security.VerifyPassword(req.Password, user.PasswordHash)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
		}
		if !match {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}

		now := s.now()
		if err := users.TouchLastLogin(ctx, tx, user.UserID, now); err != nil {
			return err
		}

		aliases := make([]string, 0, len(user.Roles))
		for _, role := range user.Roles {
			aliases = append(aliases, role.Alias)
		}
		token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
			UserID: user.UserID,
			Email:  user.Email,
			Roles:  aliases,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
		}

		response = &LoginResponse{AccessToken: token, TokenType: "bearer", User: user}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
