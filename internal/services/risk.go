package services

import (
	"context"
	"time"

	"github.com/sbilibin2017/gw-transfer-api/internal/logger"
	"github.com/sbilibin2017/gw-transfer-api/internal/models"
)

//go:generate mockgen -source=risk.go -destination=risk_mock.go -package=services

// DefaultRiskScore is the score returned by the built-in scorer.
const DefaultRiskScore = 0.1

// Scorer assigns a fraud score in [0, 1] to a user's activity.
type Scorer interface {
	Score(ctx context.Context, user *models.UserDB) (float64, error)
}

// StaticScorer returns the same score for everyone.
type StaticScorer struct {
	score float64
}

// NewStaticScorer creates a scorer that always returns score.
func NewStaticScorer(score float64) *StaticScorer {
	return &StaticScorer{score: score}
}

// Score implements Scorer.
func (s *StaticScorer) Score(ctx context.Context, user *models.UserDB) (float64, error) {
	return s.score, nil
}

// RiskLevelFor maps a score onto the LOW/MEDIUM/HIGH/CRITICAL ladder.
func RiskLevelFor(score float64) models.RiskLevel {
	switch {
	case score < 0.3:
		return models.RiskLevelLow
	case score < 0.6:
		return models.RiskLevelMedium
	case score < 0.8:
		return models.RiskLevelHigh
	default:
		return models.RiskLevelCritical
	}
}

// RiskService exposes the scorer to API clients.
type RiskService struct {
	scorer Scorer
	now    func() time.Time
}

// NewRiskService creates a RiskService backed by scorer.
func NewRiskService(scorer Scorer) *RiskService {
	return &RiskService{scorer: scorer, now: time.Now}
}

// RiskScore scores user and buckets the result.
func (s *RiskService) RiskScore(ctx context.Context, user *models.UserDB) (*models.RiskAssessment, error) {
	score, err := s.scorer.Score(ctx, user)
	if err != nil {
		logger.Log.Errorw("failed to score user", "user_id", user.UserID, "error", err)
		return nil, err
	}

	return &models.RiskAssessment{
		UserID:            user.UserID,
		RiskScore:         score,
		RiskLevel:         RiskLevelFor(score),
		RecentRiskFactors: []string{},
		LastUpdated:       s.now().UTC().Format(time.RFC3339),
	}, nil
}

// FraudStats returns the user's fraud statistics. No fraud reports are
// collected, so every counter is zero and the average is the default score.
func (s *RiskService) FraudStats(ctx context.Context, user *models.UserDB) (*models.FraudStats, error) {
	return &models.FraudStats{
		AverageFraudScore: DefaultRiskScore,
	}, nil
}
