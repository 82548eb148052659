package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-transfer-api/internal/logger"
	"github.com/sbilibin2017/gw-transfer-api/internal/models"
)

const transferColumns = `id, reference_id, sender_id, receiver_id, receiver_external_id,
	amount, currency, description, status, transfer_type, fraud_score, is_flagged,
	flagged_reason, processed_at, created_at, updated_at`

// TransferWriteRepository appends rows to the transfers ledger.
type TransferWriteRepository struct {
	db *sqlx.DB
}

func NewTransferWriteRepository(db *sqlx.DB) *TransferWriteRepository {
	return &TransferWriteRepository{db: db}
}

// Save inserts a transfer and returns the stored row with its id and
// timestamps. A reused reference id yields an error wrapping ErrUniqueViolation.
func (r *TransferWriteRepository) Save(ctx context.Context, t models.TransferDB) (*models.TransferDB, error) {
	query := `
		INSERT INTO transfers (
			reference_id, sender_id, receiver_id, receiver_external_id, amount, currency,
			description, status, transfer_type, fraud_score, is_flagged, flagged_reason,
			processed_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING ` + transferColumns
	args := []any{
		t.ReferenceID, t.SenderID, t.ReceiverID, t.ReceiverExternalID, t.Amount, t.Currency,
		t.Description, t.Status, t.TransferType, t.FraudScore, t.IsFlagged, t.FlaggedReason,
		t.ProcessedAt,
	}

	var saved models.TransferDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &saved, query, args...)

	// Log with query in single line
	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", saved.ID,
		"error", err,
	)

	if err != nil {
		return nil, translateError(err)
	}
	return &saved, nil
}

// TransferReadRepository queries the transfers ledger.
type TransferReadRepository struct {
	db *sqlx.DB
}

func NewTransferReadRepository(db *sqlx.DB) *TransferReadRepository {
	return &TransferReadRepository{db: db}
}

// ListByUserID returns every transfer the user sent or received, newest first.
func (r *TransferReadRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.TransferDB, error) {
	query := `SELECT ` + transferColumns + `
		FROM transfers
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC, id DESC`

	transfers := []models.TransferDB{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &transfers, query, userID)

	// Log with query in single line
	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", len(transfers),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return transfers, nil
}

// GetTotalsByUserID sums completed amounts the user sent and received and
// counts the user's transfers of any status on each side.
func (r *TransferReadRepository) GetTotalsByUserID(ctx context.Context, userID uuid.UUID) (*models.TransferTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE sender_id = $1 AND status = $2), 0) AS total_sent,
			COALESCE(SUM(amount) FILTER (WHERE receiver_id = $1 AND status = $2), 0) AS total_received,
			COUNT(*) FILTER (WHERE sender_id = $1) AS sent_count,
			COUNT(*) FILTER (WHERE receiver_id = $1) AS received_count
		FROM transfers
		WHERE sender_id = $1 OR receiver_id = $1
	`

	var totals models.TransferTotals
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &totals, query, userID, models.TransferStatusCompleted)

	// Log with query in single line
	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", totals,
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &totals, nil
}
