package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-transfer-api/internal/jwt"
	"github.com/sbilibin2017/gw-transfer-api/internal/models"
	"github.com/sbilibin2017/gw-transfer-api/internal/repositories"
	"github.com/sbilibin2017/gw-transfer-api/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authMocks struct {
	reader    *services.MockUserReader
	writer    *services.MockUserWriter
	tokens    *services.MockTokenManager
	blacklist *services.MockTokenBlacklist
}

func newAuthService(t *testing.T) (*services.AuthService, authMocks) {
	ctrl := gomock.NewController(t)
	m := authMocks{
		reader:    services.NewMockUserReader(ctrl),
		writer:    services.NewMockUserWriter(ctrl),
		tokens:    services.NewMockTokenManager(ctrl),
		blacklist: services.NewMockTokenBlacklist(ctrl),
	}
	svc := services.NewAuthService(m.reader, m.writer, m.tokens, m.blacklist, decimal.NewFromInt(1000))
	return svc, m
}

func TestAuthService_Register(t *testing.T) {
	fullName := "Alice Doe"

	tests := []struct {
		name         string
		username     string
		password     string
		email        string
		existingUser *models.UserDB
		readerErr    error
		expectSave   bool
		writerErr    error
		wantErr      error
	}{
		{
			name:       "successful registration",
			username:   "alice",
			password:   "pass123",
			email:      "alice@example.com",
			expectSave: true,
		},
		{
			name:         "user already exists",
			username:     "bob",
			password:     "pass123",
			email:        "bob@example.com",
			existingUser: &models.UserDB{UserID: uuid.New()},
			wantErr:      services.ErrUserAlreadyExists,
		},
		{
			name:      "reader error",
			username:  "eve",
			password:  "pass123",
			email:     "eve@example.com",
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
		{
			name:       "writer error",
			username:   "carol",
			password:   "pass123",
			email:      "carol@example.com",
			expectSave: true,
			writerErr:  errors.New("save error"),
			wantErr:    errors.New("save error"),
		},
		{
			name:       "unique violation on insert",
			username:   "dave",
			password:   "pass123",
			email:      "dave@example.com",
			expectSave: true,
			writerErr:  errors.Join(repositories.ErrUniqueViolation, errors.New("duplicate key")),
			wantErr:    services.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newAuthService(t)

			m.reader.EXPECT().
				GetByUsernameOrEmail(gomock.Any(), tt.username, tt.email).
				Return(tt.existingUser, tt.readerErr)

			if tt.expectSave {
				m.writer.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u models.NewUser) (*models.UserDB, error) {
						assert.Equal(t, tt.username, u.Username)
						assert.Equal(t, tt.email, u.Email)
						assert.Equal(t, &fullName, u.FullName)
						assert.True(t, u.Balance.Equal(decimal.NewFromInt(1000)))
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(tt.password)))
						if tt.writerErr != nil {
							return nil, tt.writerErr
						}
						return &models.UserDB{UserID: uuid.New(), Username: u.Username, Email: u.Email, Balance: u.Balance}, nil
					})
			}

			user, err := svc.Register(context.Background(), tt.username, tt.password, tt.email, &fullName)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.username, user.Username)
				assert.True(t, user.Balance.Equal(decimal.NewFromInt(1000)))
			}
		})
	}
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		email    string
	}{
		{"empty username", "", "pass", "a@example.com"},
		{"empty password", "alice", "", "a@example.com"},
		{"empty email", "alice", "pass", ""},
		{"malformed email", "alice", "pass", "not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newAuthService(t)

			user, err := svc.Register(context.Background(), tt.username, tt.password, tt.email, nil)
			assert.ErrorIs(t, err, services.ErrInvalidRegistration)
			assert.Equal(t, services.KindValidation, services.KindOf(err))
			assert.Nil(t, user)
		})
	}
}

func TestAuthService_Register_TooLong(t *testing.T) {
	longName := strings.Repeat("x", 256)
	shortName := "Alice"

	tests := []struct {
		name     string
		username string
		email    string
		fullName *string
		wantErr  error
	}{
		{"username over 50 characters", strings.Repeat("a", 51), "a@example.com", nil, services.ErrUsernameTooLong},
		{"multibyte username over 50 characters", strings.Repeat("й", 51), "a@example.com", nil, services.ErrUsernameTooLong},
		{"email over 100 characters", "alice", strings.Repeat("a", 89) + "@example.com", nil, services.ErrEmailTooLong},
		{"full name over 255 characters", "alice", "a@example.com", &longName, services.ErrFullNameTooLong},
		{"username at the limit, long email", strings.Repeat("a", 50), strings.Repeat("b", 90) + "@example.com", &shortName, services.ErrEmailTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// no repository calls are expected
			svc, _ := newAuthService(t)

			user, err := svc.Register(context.Background(), tt.username, "pass", tt.email, tt.fullName)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, services.KindValidation, services.KindOf(err))
			assert.Nil(t, user)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	password := "secret"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userID := uuid.New()

	tests := []struct {
		name      string
		username  string
		user      *models.UserDB
		readerErr error
		jwtErr    error
		wantErr   error
		expectJWT string
		loginPass string
	}{
		{
			name:      "successful login",
			username:  "alice",
			user:      &models.UserDB{UserID: userID, Username: "alice", PasswordHash: string(hashed), IsActive: true},
			expectJWT: "token123",
			loginPass: password,
		},
		{
			name:      "user does not exist",
			username:  "bob",
			wantErr:   services.ErrInvalidCredentials,
			loginPass: password,
		},
		{
			name:      "invalid password",
			username:  "carol",
			user:      &models.UserDB{UserID: uuid.New(), Username: "carol", PasswordHash: string(hashed), IsActive: true},
			wantErr:   services.ErrInvalidCredentials,
			loginPass: "wrongpass",
		},
		{
			name:      "inactive user",
			username:  "frank",
			user:      &models.UserDB{UserID: uuid.New(), Username: "frank", PasswordHash: string(hashed), IsActive: false},
			wantErr:   services.ErrInactiveUser,
			loginPass: password,
		},
		{
			name:      "reader error",
			username:  "eve",
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
			loginPass: password,
		},
		{
			name:      "JWT generation error",
			username:  "dan",
			user:      &models.UserDB{UserID: userID, Username: "dan", PasswordHash: string(hashed), IsActive: true},
			jwtErr:    errors.New("jwt error"),
			wantErr:   errors.New("jwt error"),
			loginPass: password,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newAuthService(t)

			m.reader.EXPECT().
				GetByUsername(gomock.Any(), tt.username).
				Return(tt.user, tt.readerErr)

			if tt.user != nil && tt.user.IsActive && tt.loginPass == password {
				m.tokens.EXPECT().
					Generate(gomock.Any(), tt.user.UserID, tt.user.Username).
					Return(tt.expectJWT, tt.jwtErr)
				if tt.jwtErr == nil {
					m.tokens.EXPECT().Expiration().Return(30 * time.Minute)
				}
			}

			token, err := svc.Login(context.Background(), tt.username, tt.loginPass)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectJWT, token.AccessToken)
				assert.Equal(t, "bearer", token.TokenType)
				assert.Equal(t, int64(1800), token.ExpiresIn)
			}
		})
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	userID := uuid.New()
	user := &models.UserDB{UserID: userID, Username: "alice"}
	claims := &jwt.Claims{UserID: userID}
	claims.Subject = "alice"

	tests := []struct {
		name      string
		setup     func(m authMocks)
		wantUser  *models.UserDB
		wantKind  services.Kind
		wantError bool
	}{
		{
			name: "valid token",
			setup: func(m authMocks) {
				m.tokens.EXPECT().GetClaims(gomock.Any(), "tok").Return(claims, nil)
				m.blacklist.EXPECT().Exists(gomock.Any(), "tok").Return(false, nil)
				m.reader.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)
			},
			wantUser: user,
		},
		{
			name: "invalid signature",
			setup: func(m authMocks) {
				m.tokens.EXPECT().GetClaims(gomock.Any(), "tok").Return(nil, jwt.ErrInvalidToken)
			},
			wantError: true,
			wantKind:  services.KindUnauthenticated,
		},
		{
			name: "revoked token",
			setup: func(m authMocks) {
				m.tokens.EXPECT().GetClaims(gomock.Any(), "tok").Return(claims, nil)
				m.blacklist.EXPECT().Exists(gomock.Any(), "tok").Return(true, nil)
			},
			wantError: true,
			wantKind:  services.KindUnauthenticated,
		},
		{
			name: "unknown subject",
			setup: func(m authMocks) {
				m.tokens.EXPECT().GetClaims(gomock.Any(), "tok").Return(claims, nil)
				m.blacklist.EXPECT().Exists(gomock.Any(), "tok").Return(false, nil)
				m.reader.EXPECT().GetByUsername(gomock.Any(), "alice").Return(nil, nil)
			},
			wantError: true,
			wantKind:  services.KindUnauthenticated,
		},
		{
			name: "subject re-registered with another id",
			setup: func(m authMocks) {
				m.tokens.EXPECT().GetClaims(gomock.Any(), "tok").Return(claims, nil)
				m.blacklist.EXPECT().Exists(gomock.Any(), "tok").Return(false, nil)
				m.reader.EXPECT().GetByUsername(gomock.Any(), "alice").
					Return(&models.UserDB{UserID: uuid.New(), Username: "alice"}, nil)
			},
			wantError: true,
			wantKind:  services.KindUnauthenticated,
		},
		{
			name: "revocation list unavailable",
			setup: func(m authMocks) {
				m.tokens.EXPECT().GetClaims(gomock.Any(), "tok").Return(claims, nil)
				m.blacklist.EXPECT().Exists(gomock.Any(), "tok").Return(false, errors.New("redis down"))
			},
			wantError: true,
			wantKind:  services.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newAuthService(t)
			tt.setup(m)

			got, err := svc.Authenticate(context.Background(), "tok")
			if tt.wantError {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, services.KindOf(err))
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantUser, got)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("revokes for token lifetime", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.tokens.EXPECT().Expiration().Return(30 * time.Minute)
		m.blacklist.EXPECT().Add(gomock.Any(), "tok", 30*time.Minute).Return(nil)

		assert.NoError(t, svc.Logout(context.Background(), "tok"))
	})

	t.Run("store error", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.tokens.EXPECT().Expiration().Return(time.Minute)
		m.blacklist.EXPECT().Add(gomock.Any(), "tok", time.Minute).Return(errors.New("redis down"))

		assert.Error(t, svc.Logout(context.Background(), "tok"))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("old"), bcrypt.DefaultCost)
	user := &models.UserDB{UserID: uuid.New(), PasswordHash: string(hashed)}

	t.Run("success", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.writer.EXPECT().
			UpdatePassword(gomock.Any(), user.UserID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, hash string) error {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("new")))
				return nil
			})

		assert.NoError(t, svc.ChangePassword(context.Background(), user, "old", "new"))
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, _ := newAuthService(t)
		err := svc.ChangePassword(context.Background(), user, "nope", "new")
		assert.ErrorIs(t, err, services.ErrWrongPassword)
	})

	t.Run("empty new password", func(t *testing.T) {
		svc, _ := newAuthService(t)
		err := svc.ChangePassword(context.Background(), user, "old", "")
		assert.ErrorIs(t, err, services.ErrEmptyPassword)
	})

	t.Run("writer error", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.writer.EXPECT().UpdatePassword(gomock.Any(), user.UserID, gomock.Any()).Return(errors.New("db error"))

		assert.EqualError(t, svc.ChangePassword(context.Background(), user, "old", "new"), "db error")
	})
}

func TestAuthService_TokenLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := services.NewMockUserReader(ctrl)
	writer := services.NewMockUserWriter(ctrl)
	blacklist := services.NewMockTokenBlacklist(ctrl)
	tokens := jwt.New(jwt.WithSecretKey("secret"), jwt.WithExpiration(time.Minute))
	svc := services.NewAuthService(reader, writer, tokens, blacklist, decimal.Zero)

	user := &models.UserDB{UserID: uuid.New(), Username: "alice", IsActive: true}
	token, err := tokens.Generate(context.Background(), user.UserID, user.Username)
	require.NoError(t, err)

	revoked := map[string]bool{}
	blacklist.EXPECT().Exists(gomock.Any(), token).DoAndReturn(func(_ context.Context, tok string) (bool, error) {
		return revoked[tok], nil
	}).Times(2)
	blacklist.EXPECT().Add(gomock.Any(), token, time.Minute).DoAndReturn(func(_ context.Context, tok string, _ time.Duration) error {
		revoked[tok] = true
		return nil
	})
	reader.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)

	got, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, got.UserID)

	require.NoError(t, svc.Logout(context.Background(), token))

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}
