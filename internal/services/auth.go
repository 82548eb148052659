package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-transfer-api/internal/jwt"
	"github.com/sbilibin2017/gw-transfer-api/internal/logger"
	"github.com/sbilibin2017/gw-transfer-api/internal/models"
	"github.com/sbilibin2017/gw-transfer-api/internal/repositories"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=services

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user models.NewUser) (*models.UserDB, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// TokenManager issues and verifies access tokens.
type TokenManager interface {
	Generate(ctx context.Context, userID uuid.UUID, username string) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
	Expiration() time.Duration
}

// TokenBlacklist is the revocation list.
type TokenBlacklist interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Exists(ctx context.Context, token string) (bool, error)
}

// Column widths of the users table.
const (
	maxUsernameLength = 50
	maxEmailLength    = 100
	maxFullNameLength = 255
)

// AuthService handles registration, login and the token lifecycle.
type AuthService struct {
	reader         UserReader
	writer         UserWriter
	tokens         TokenManager
	blacklist      TokenBlacklist
	initialBalance decimal.Decimal
}

// NewAuthService creates a new AuthService. New users start with initialBalance.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	tokens TokenManager,
	blacklist TokenBlacklist,
	initialBalance decimal.Decimal,
) *AuthService {
	return &AuthService{
		reader:         reader,
		writer:         writer,
		tokens:         tokens,
		blacklist:      blacklist,
		initialBalance: initialBalance,
	}
}

// Register creates a user with a hashed password and the starting balance.
func (svc *AuthService) Register(ctx context.Context, username, password, email string, fullName *string) (*models.UserDB, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" || email == "" {
		return nil, ErrInvalidRegistration
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidRegistration
	}
	switch {
	case utf8.RuneCountInString(username) > maxUsernameLength:
		return nil, ErrUsernameTooLong
	case utf8.RuneCountInString(email) > maxEmailLength:
		return nil, ErrEmailTooLong
	case fullName != nil && utf8.RuneCountInString(*fullName) > maxFullNameLength:
		return nil, ErrFullNameTooLong
	}

	existing, err := svc.reader.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if existing != nil {
		logger.Log.Warnw("user already exists", "username", username, "email", email)
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := svc.writer.Save(ctx, models.NewUser{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		FullName:     fullName,
		Balance:      svc.initialBalance,
	})
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repositories.ErrUniqueViolation) {
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	logger.Log.Infow("user registered", "user_id", user.UserID, "username", user.Username)
	return user, nil
}

// Login checks credentials and issues an access token.
func (svc *AuthService) Login(ctx context.Context, username, password string) (*models.AccessToken, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		logger.Log.Warnw("login for unknown user", "username", username)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Warnw("invalid credentials", "username", username)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	token, err := svc.tokens.Generate(ctx, user.UserID, user.Username)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return nil, err
	}

	return &models.AccessToken{
		AccessToken: token,
		TokenType:   models.TokenTypeBearer,
		ExpiresIn:   int64(svc.tokens.Expiration() / time.Second),
	}, nil
}

// Authenticate resolves a bearer token to its user. Bad signatures, expired
// or revoked tokens and unknown subjects all return ErrUnauthenticated;
// storage failures are returned as internal errors.
func (svc *AuthService) Authenticate(ctx context.Context, token string) (*models.UserDB, error) {
	claims, err := svc.tokens.GetClaims(ctx, token)
	if err != nil {
		logger.Log.Debugw("token rejected", "err", err)
		return nil, ErrUnauthenticated
	}

	revoked, err := svc.blacklist.Exists(ctx, token)
	if err != nil {
		logger.Log.Errorw("failed to check token revocation", "err", err)
		return nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return nil, ErrUnauthenticated
	}

	user, err := svc.reader.GetByUsername(ctx, claims.Username())
	if err != nil {
		logger.Log.Errorw("failed to get token subject", "err", err)
		return nil, err
	}
	if user == nil || user.UserID != claims.UserID {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// Logout revokes token for the configured token lifetime. The remaining
// lifetime is not computed, so entries may outlive the token itself.
func (svc *AuthService) Logout(ctx context.Context, token string) error {
	if err := svc.blacklist.Add(ctx, token, svc.tokens.Expiration()); err != nil {
		logger.Log.Errorw("failed to revoke token", "err", err)
		return err
	}
	return nil
}

// ChangePassword replaces the user's password after verifying the current one.
func (svc *AuthService) ChangePassword(ctx context.Context, user *models.UserDB, currentPassword, newPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}
	if newPassword == "" {
		return ErrEmptyPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if err := svc.writer.UpdatePassword(ctx, user.UserID, string(hashedPassword)); err != nil {
		logger.Log.Errorw("failed to update password", "user_id", user.UserID, "err", err)
		return err
	}
	return nil
}
