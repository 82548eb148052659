package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-transfer-api/internal/logger"
	"github.com/sbilibin2017/gw-transfer-api/internal/models"
	"github.com/sbilibin2017/gw-transfer-api/internal/repositories"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=transfer.go -destination=transfer_mock.go -package=services

// TxManager runs fn inside one database transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AccountReader reads and locks user rows.
type AccountReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserDB, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.UserDB, error)
}

// BalanceWriter persists balances.
type BalanceWriter interface {
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
}

// TransferWriter appends ledger rows.
type TransferWriter interface {
	Save(ctx context.Context, t models.TransferDB) (*models.TransferDB, error)
}

// TransferReader queries the ledger.
type TransferReader interface {
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.TransferDB, error)
	GetTotalsByUserID(ctx context.Context, userID uuid.UUID) (*models.TransferTotals, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// TransferService executes transfers and reports on the ledger.
type TransferService struct {
	tx          TxManager
	accounts    AccountReader
	balances    BalanceWriter
	writer      TransferWriter
	reader      TransferReader
	scorer      Scorer
	kafkaWriter KafkaWriter

	newReference func() string
	now          func() time.Time
}

// TransferOpt configures a TransferService.
type TransferOpt func(*TransferService)

// WithReferenceGenerator replaces NewReferenceID.
func WithReferenceGenerator(gen func() string) TransferOpt {
	return func(s *TransferService) {
		s.newReference = gen
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TransferOpt {
	return func(s *TransferService) {
		s.now = now
	}
}

// NewTransferService creates a TransferService. kafkaWriter may be nil,
// in which case no events are published.
func NewTransferService(
	tx TxManager,
	accounts AccountReader,
	balances BalanceWriter,
	writer TransferWriter,
	reader TransferReader,
	scorer Scorer,
	kafkaWriter KafkaWriter,
	opts ...TransferOpt,
) *TransferService {
	s := &TransferService{
		tx:           tx,
		accounts:     accounts,
		balances:     balances,
		writer:       writer,
		reader:       reader,
		scorer:       scorer,
		kafkaWriter:  kafkaWriter,
		newReference: NewReferenceID,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create debits sender, credits the receiver of an internal transfer and
// appends the ledger row in a single transaction. Both rows are locked
// before the balance check, so concurrent transfers from one sender are
// serialized and cannot overdraw it.
func (s *TransferService) Create(ctx context.Context, sender *models.UserDB, req models.TransferRequest) (*models.TransferDB, error) {
	req, err := normalizeTransferRequest(req)
	if err != nil {
		return nil, err
	}

	var saved *models.TransferDB
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ids := []uuid.UUID{sender.UserID}
		if req.TransferType == models.TransferTypeInternal && req.ReceiverID != nil && *req.ReceiverID != sender.UserID {
			ids = append(ids, *req.ReceiverID)
		}
		locked, err := s.lockAccounts(ctx, ids)
		if err != nil {
			return err
		}

		from := locked[sender.UserID]
		if from == nil {
			return ErrSenderNotFound
		}
		if from.Balance.LessThan(req.Amount) {
			return ErrInsufficientBalance
		}

		var to *models.UserDB
		if req.TransferType == models.TransferTypeInternal {
			if req.ReceiverID == nil {
				return ErrMissingReceiver
			}
			to = locked[*req.ReceiverID]
			if to == nil {
				return ErrReceiverNotFound
			}
		}

		score, err := s.scorer.Score(ctx, from)
		if err != nil {
			return fmt.Errorf("score transfer: %w", err)
		}

		from.Balance = from.Balance.Sub(req.Amount)
		if to != nil {
			// to == from for a self transfer, which nets out
			to.Balance = to.Balance.Add(req.Amount)
		}

		if err := s.balances.UpdateBalance(ctx, from.UserID, from.Balance); err != nil {
			return fmt.Errorf("debit sender: %w", err)
		}
		if to != nil && to.UserID != from.UserID {
			if err := s.balances.UpdateBalance(ctx, to.UserID, to.Balance); err != nil {
				return fmt.Errorf("credit receiver: %w", err)
			}
		}

		processedAt := s.now().UTC()
		row := models.TransferDB{
			ReferenceID:        s.newReference(),
			SenderID:           from.UserID,
			ReceiverExternalID: req.ReceiverExternalID,
			Amount:             req.Amount,
			Currency:           req.Currency,
			Description:        req.Description,
			Status:             models.TransferStatusCompleted,
			TransferType:       req.TransferType,
			FraudScore:         score,
			IsFlagged:          false,
			ProcessedAt:        &processedAt,
		}
		if to != nil {
			receiverID := to.UserID
			row.ReceiverID = &receiverID
		}

		saved, err = s.writer.Save(ctx, row)
		if err != nil {
			if errors.Is(err, repositories.ErrUniqueViolation) {
				logger.Log.Errorw("transfer reference collision", "reference_id", row.ReferenceID)
				return ErrDuplicateReference
			}
			return fmt.Errorf("save transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		if KindOf(err) == KindInternal {
			logger.Log.Errorw("transfer failed", "sender_id", sender.UserID, "amount", req.Amount, "error", err)
		} else {
			logger.Log.Warnw("transfer rejected", "sender_id", sender.UserID, "amount", req.Amount, "reason", err)
		}
		return nil, err
	}

	logger.Log.Infow("transfer completed",
		"reference_id", saved.ReferenceID,
		"sender_id", saved.SenderID,
		"receiver_id", saved.ReceiverID,
		"amount", saved.Amount,
		"type", saved.TransferType,
	)
	s.publishTransfer(ctx, saved)
	return saved, nil
}

// lockAccounts locks the given user rows in ascending id order so that
// crossing transfers cannot deadlock. Missing users are absent from the map.
func (s *TransferService) lockAccounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.UserDB, error) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})

	locked := make(map[uuid.UUID]*models.UserDB, len(ids))
	for _, id := range ids {
		user, err := s.accounts.GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("lock user %s: %w", id, err)
		}
		if user != nil {
			locked[id] = user
		}
	}
	return locked, nil
}

// Amounts and balances are stored as NUMERIC(18,2).
const (
	AmountScale         = 2
	maxExternalIDLength = 255
)

// MaxAmount is the smallest amount that no longer fits NUMERIC(18,2).
var MaxAmount = decimal.New(1, 16)

// ValidateAmount rejects amounts the ledger cannot store exactly.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return ErrAmountPrecision
	}
	if amount.GreaterThanOrEqual(MaxAmount) {
		return ErrAmountTooLarge
	}
	return nil
}

func normalizeTransferRequest(req models.TransferRequest) (models.TransferRequest, error) {
	if err := ValidateAmount(req.Amount); err != nil {
		return req, err
	}
	if req.TransferType == "" {
		req.TransferType = models.TransferTypeInternal
	}
	if !req.TransferType.Valid() {
		return req, ErrInvalidTransferType
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if req.Currency == "" {
		req.Currency = models.DefaultCurrency
	}
	if len(req.Currency) != 3 || strings.IndexFunc(req.Currency, func(r rune) bool { return r < 'A' || r > 'Z' }) >= 0 {
		return req, ErrInvalidCurrency
	}
	if req.ReceiverExternalID != nil && utf8.RuneCountInString(*req.ReceiverExternalID) > maxExternalIDLength {
		return req, ErrExternalIDTooLong
	}
	return req, nil
}

// ListForUser returns the user's sent and received transfers, newest first.
func (s *TransferService) ListForUser(ctx context.Context, user *models.UserDB) ([]models.TransferDB, error) {
	transfers, err := s.reader.ListByUserID(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to list transfers", "user_id", user.UserID, "error", err)
		return nil, err
	}
	return transfers, nil
}

// Summary returns the user's current balance with completed totals and
// per-side counts.
func (s *TransferService) Summary(ctx context.Context, user *models.UserDB) (*models.TransferSummary, error) {
	current, err := s.accounts.GetByID(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to get user balance", "user_id", user.UserID, "error", err)
		return nil, err
	}
	if current == nil {
		return nil, ErrSenderNotFound
	}

	totals, err := s.reader.GetTotalsByUserID(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to get transfer totals", "user_id", user.UserID, "error", err)
		return nil, err
	}

	return &models.TransferSummary{
		CurrentBalance:    current.Balance,
		TotalSent:         totals.TotalSent,
		TotalReceived:     totals.TotalReceived,
		TotalTransactions: totals.SentCount + totals.ReceivedCount,
		SentCount:         totals.SentCount,
		ReceivedCount:     totals.ReceivedCount,
	}, nil
}

// publishTransfer publishes a committed transfer to Kafka. Failures are
// logged and never reach the caller.
func (s *TransferService) publishTransfer(ctx context.Context, t *models.TransferDB) {
	if s.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "reference_id", t.ReferenceID)
		return
	}

	event := models.TransferEvent{
		ReferenceID:  t.ReferenceID,
		SenderID:     t.SenderID.String(),
		Amount:       t.Amount.String(),
		Currency:     t.Currency,
		TransferType: string(t.TransferType),
		Status:       string(t.Status),
		FraudScore:   t.FraudScore,
		Timestamp:    s.now().Unix(),
	}
	if t.ReceiverID != nil {
		event.ReceiverID = t.ReceiverID.String()
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal transfer event", "reference_id", t.ReferenceID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(t.ReferenceID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish transfer to Kafka", "reference_id", t.ReferenceID, "error", err)
	} else {
		logger.Log.Infow("Transfer published to Kafka", "reference_id", t.ReferenceID, "amount", event.Amount)
	}
}
