package repositories

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-transfer-api/internal/logger"
)

//go:embed schema.sql
var schema string

// Migrate creates the users and transfers tables when they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Log.Errorw("failed to apply schema", "error", err)
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Log.Info("database schema is up to date")
	return nil
}
