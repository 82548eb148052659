package models

import "github.com/google/uuid"

// RiskLevel buckets a fraud score.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// RiskAssessment is the risk view of a user.
type RiskAssessment struct {
	UserID            uuid.UUID `json:"user_id"`
	RiskScore         float64   `json:"risk_score"`
	RiskLevel         RiskLevel `json:"risk_level"`
	RecentRiskFactors []string  `json:"recent_risk_factors"`
	LastUpdated       string    `json:"last_updated"`
}

// FraudStats is the per-user fraud statistics view.
type FraudStats struct {
	TotalFraudReports   int     `json:"total_fraud_reports"`
	ConfirmedFraudCases int     `json:"confirmed_fraud_cases"`
	FlaggedTransfers    int     `json:"flagged_transfers"`
	AverageFraudScore   float64 `json:"average_fraud_score"`
	RecentReports30d    int     `json:"recent_reports_30d"`
	FraudRate           float64 `json:"fraud_rate"`
}
