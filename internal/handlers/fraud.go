package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-transfer-api/internal/models"
)

//go:generate mockgen -source=fraud.go -destination=fraud_mock.go -package=handlers

// RiskScorer scores users.
type RiskScorer interface {
	RiskScore(ctx context.Context, user *models.UserDB) (*models.RiskAssessment, error)
}

// FraudStatser reports fraud statistics.
type FraudStatser interface {
	FraudStats(ctx context.Context, user *models.UserDB) (*models.FraudStats, error)
}

// NewRiskScoreHandler returns an HTTP handler with the caller's risk assessment.
// @Summary Risk score
// @Tags fraud-detection
// @Produce json
// @Success 200 {object} models.RiskAssessment "Risk assessment"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /fraud/risk-score [get]
// @Security BearerAuth
func NewRiskScoreHandler(svc RiskScorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		assessment, err := svc.RiskScore(r.Context(), user)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, assessment)
	}
}

// NewFraudStatsHandler returns an HTTP handler with the caller's fraud statistics.
// @Summary Fraud statistics
// @Tags fraud-detection
// @Produce json
// @Success 200 {object} models.FraudStats "Fraud statistics"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /fraud/stats [get]
// @Security BearerAuth
func NewFraudStatsHandler(svc FraudStatser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		stats, err := svc.FraudStats(r.Context(), user)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
