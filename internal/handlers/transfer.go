package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-transfer-api/internal/models"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=transfer.go -destination=transfer_mock.go -package=handlers

// TransferCreator executes transfers.
type TransferCreator interface {
	Create(ctx context.Context, sender *models.UserDB, req models.TransferRequest) (*models.TransferDB, error)
}

// TransferLister lists a user's transfers.
type TransferLister interface {
	ListForUser(ctx context.Context, user *models.UserDB) ([]models.TransferDB, error)
}

// TransferSummarizer aggregates a user's transfers.
type TransferSummarizer interface {
	Summary(ctx context.Context, user *models.UserDB) (*models.TransferSummary, error)
}

// CreateTransferRequest represents the JSON body of a new transfer
// swagger:model CreateTransferRequest
type CreateTransferRequest struct {
	// Amount, positive, two decimal places
	// required: true
	// default: 25.50
	Amount decimal.Decimal `json:"amount" swaggertype:"number"`

	// Currency code
	// default: USD
	Currency string `json:"currency,omitempty"`

	// Free text description
	Description *string `json:"description,omitempty"`

	// Receiver user id, required for internal transfers
	ReceiverID *uuid.UUID `json:"receiver_id,omitempty" swaggertype:"string" format:"uuid"`

	// External account of the receiver
	ReceiverExternalID *string `json:"receiver_external_id,omitempty"`

	// internal, external, withdrawal or deposit
	// default: internal
	TransferType models.TransferType `json:"transfer_type,omitempty"`
}

// NewCreateTransferHandler returns an HTTP handler executing a transfer for the caller.
// @Summary Create a transfer
// @Description Debits the caller and, for internal transfers, credits the receiver atomically
// @Tags transfers
// @Accept json
// @Produce json
// @Param createTransferRequest body handlers.CreateTransferRequest true "Transfer"
// @Success 201 {object} models.TransferDB "Created transfer"
// @Failure 400 {object} handlers.ErrorResponse "Insufficient balance / missing receiver / invalid request"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Receiver not found"
// @Failure 409 {object} handlers.ErrorResponse "Duplicate reference"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /transfers [post]
// @Security BearerAuth
func NewCreateTransferHandler(svc TransferCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req CreateTransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}

		transfer, err := svc.Create(r.Context(), user, models.TransferRequest{
			Amount:             req.Amount,
			Currency:           req.Currency,
			Description:        req.Description,
			ReceiverID:         req.ReceiverID,
			ReceiverExternalID: req.ReceiverExternalID,
			TransferType:       req.TransferType,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, transfer)
	}
}

// NewListTransfersHandler returns an HTTP handler listing the caller's transfers.
// @Summary List transfers
// @Description Transfers sent or received by the caller, newest first
// @Tags transfers
// @Produce json
// @Success 200 {array} models.TransferDB "Transfers"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /transfers [get]
// @Security BearerAuth
func NewListTransfersHandler(svc TransferLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		transfers, err := svc.ListForUser(r.Context(), user)
		if err != nil {
			writeError(w, err)
			return
		}
		if transfers == nil {
			transfers = []models.TransferDB{}
		}

		writeJSON(w, http.StatusOK, transfers)
	}
}

// NewTransferSummaryHandler returns an HTTP handler with the caller's transfer statistics.
// @Summary Transfer statistics
// @Tags transfers
// @Produce json
// @Success 200 {object} models.TransferSummary "Summary"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /transfers/stats/summary [get]
// @Security BearerAuth
func NewTransferSummaryHandler(svc TransferSummarizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		summary, err := svc.Summary(r.Context(), user)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, summary)
	}
}
