package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/dbx"
	"github.com/hourkeep/hourkeep/internal/server/auth"
	"github.com/hourkeep/hourkeep/internal/server/config"
	"github.com/hourkeep/hourkeep/internal/server/models"
	"github.com/hourkeep/hourkeep/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService handles registration, login, and issuing/refreshing JWTs
// plus server-stored refresh tokens. Access tokens carry the user's role
// alongside the id.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new account. The role defaults to employee; elevated
// roles are assigned out of band, never through self-registration.
// AvailableHours defaults to a full workday when the caller sends zero.
func (s *UserService) Register(ctx context.Context, name, email, password string, availableHours float64) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", common.ErrorValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", common.ErrorValidation)
	}
	if availableHours <= 0 {
		availableHours = 8
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		Role:           models.RoleEmployee,
		AvailableHours: availableHours,
		PasswordHash:   hash,
	}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the credentials and, on success, returns a new TokenPair.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokenPair(ctx, user, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(s.db).Get(ctx, token.UserID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Get returns one user. List returns everyone; it backs the manager-facing
// user picker, so it is gated on an approving role.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).Get(ctx, id)
}

func (s *UserService) List(ctx context.Context, actor Actor) ([]*models.User, error) {
	if !actor.Role.CanApprove() {
		return nil, common.ErrorForbidden
	}
	return s.repomanager.Users(s.db).List(ctx)
}

// --- helpers below ---

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, string(user.Role), s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
