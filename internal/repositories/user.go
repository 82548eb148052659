package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-transfer-api/internal/logger"
	"github.com/sbilibin2017/gw-transfer-api/internal/models"
	"github.com/shopspring/decimal"
)

const userColumns = `id, username, email, password_hash, full_name, balance,
	is_active, is_verified, created_at, updated_at`

// UserReadRepository reads user rows. Lookups return (nil, nil) when no row matches.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByUsernameOrEmail returns the first user whose username or email matches.
func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 OR email = $2
		LIMIT 1`
	return r.getOne(ctx, query, username, email)
}

// GetByUsername returns the user with the given username.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE username = $1`
	return r.getOne(ctx, query, username)
}

// GetByID returns the user with the given id.
func (r *UserReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate reads the user and locks the row until the surrounding
// transaction ends. It must be called with a context from TxManager.WithinTx.
func (r *UserReadRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.UserDB, error) {
	if GetTxFromContext(ctx) == nil {
		return nil, errors.New("row lock requires a transaction")
	}
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
		FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *UserReadRepository) getOne(ctx context.Context, query string, args ...any) (*models.UserDB, error) {
	var user models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &user, query, args...)

	// Log with query in single line
	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", user.UserID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserWriteRepository writes user rows.
type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user and returns the stored row. A duplicate username
// or email yields an error wrapping ErrUniqueViolation.
func (r *UserWriteRepository) Save(ctx context.Context, user models.NewUser) (*models.UserDB, error) {
	query := `
		INSERT INTO users (username, email, password_hash, full_name, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + userColumns
	args := []any{user.Username, user.Email, user.PasswordHash, user.FullName, user.Balance}

	var saved models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &saved, query, args...)

	// Password hash is not logged
	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", []any{user.Username, user.Email},
		"result", saved.UserID,
		"error", err,
	)

	if err != nil {
		return nil, translateError(err)
	}
	return &saved, nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserWriteRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, []any{id}, id, passwordHash)
}

// UpdateBalance sets the user's balance.
func (r *UserWriteRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	query := `
		UPDATE users
		SET balance = $2, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, []any{id, balance}, id, balance)
}

func (r *UserWriteRepository) exec(ctx context.Context, query string, logArgs []any, args ...any) error {
	res, err := executor(ctx, r.db).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	// Log with query in single line
	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", logArgs,
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
