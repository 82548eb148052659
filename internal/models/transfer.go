package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus is the lifecycle state of a transfer.
type TransferStatus string

const (
	TransferStatusPending    TransferStatus = "pending"
	TransferStatusProcessing TransferStatus = "processing"
	TransferStatusCompleted  TransferStatus = "completed"
	TransferStatusFailed     TransferStatus = "failed"
	TransferStatusCancelled  TransferStatus = "cancelled"
	TransferStatusFlagged    TransferStatus = "flagged"
)

// TransferType tells whether a second local party is involved.
type TransferType string

const (
	TransferTypeInternal   TransferType = "internal"
	TransferTypeExternal   TransferType = "external"
	TransferTypeWithdrawal TransferType = "withdrawal"
	TransferTypeDeposit    TransferType = "deposit"
)

// Valid reports whether t is one of the known transfer types.
func (t TransferType) Valid() bool {
	switch t {
	case TransferTypeInternal, TransferTypeExternal, TransferTypeWithdrawal, TransferTypeDeposit:
		return true
	}
	return false
}

// DefaultCurrency is used when a transfer request omits the currency.
const DefaultCurrency = "USD"

// TransferDB represents a ledger row in the transfers table.
type TransferDB struct {
	ID                 int64           `json:"id" db:"id"`
	ReferenceID        string          `json:"reference_id" db:"reference_id"`
	SenderID           uuid.UUID       `json:"sender_id" db:"sender_id"`
	ReceiverID         *uuid.UUID      `json:"receiver_id" db:"receiver_id"`
	ReceiverExternalID *string         `json:"receiver_external_id" db:"receiver_external_id"`
	Amount             decimal.Decimal `json:"amount" db:"amount"`
	Currency           string          `json:"currency" db:"currency"`
	Description        *string         `json:"description" db:"description"`
	Status             TransferStatus  `json:"status" db:"status"`
	TransferType       TransferType    `json:"transfer_type" db:"transfer_type"`
	FraudScore         float64         `json:"fraud_score" db:"fraud_score"`
	IsFlagged          bool            `json:"is_flagged" db:"is_flagged"`
	FlaggedReason      *string         `json:"flagged_reason" db:"flagged_reason"`
	ProcessedAt        *time.Time      `json:"processed_at" db:"processed_at"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// TransferRequest is the validated input of a transfer execution.
type TransferRequest struct {
	Amount             decimal.Decimal
	Currency           string
	Description        *string
	ReceiverID         *uuid.UUID
	ReceiverExternalID *string
	TransferType       TransferType
}

// TransferTotals aggregates a user's ledger rows.
type TransferTotals struct {
	TotalSent     decimal.Decimal `db:"total_sent"`
	TotalReceived decimal.Decimal `db:"total_received"`
	SentCount     int64           `db:"sent_count"`
	ReceivedCount int64           `db:"received_count"`
}

// TransferSummary is the per-user statistics view.
type TransferSummary struct {
	CurrentBalance    decimal.Decimal `json:"current_balance"`
	TotalSent         decimal.Decimal `json:"total_sent"`
	TotalReceived     decimal.Decimal `json:"total_received"`
	TotalTransactions int64           `json:"total_transactions"`
	SentCount         int64           `json:"sent_count"`
	ReceivedCount     int64           `json:"received_count"`
}
