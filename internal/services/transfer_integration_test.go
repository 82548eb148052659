package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-transfer-api/internal/models"
	"github.com/sbilibin2017/gw-transfer-api/internal/repositories"
	"github.com/sbilibin2017/gw-transfer-api/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:15-alpine",
			Env:          map[string]string{"POSTGRES_PASSWORD": "secret", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:secret@%s:%s/testdb?sslmode=disable", host, port.Port())
	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(20)

	require.NoError(t, repositories.Migrate(ctx, db))

	return db, func() {
		db.Close()
		container.Terminate(ctx)
	}
}

func newPostgresTransferService(db *sqlx.DB) *services.TransferService {
	users := repositories.NewUserReadRepository(db)
	return services.NewTransferService(
		repositories.NewTxManager(db),
		users,
		repositories.NewUserWriteRepository(db),
		repositories.NewTransferWriteRepository(db),
		repositories.NewTransferReadRepository(db),
		services.NewStaticScorer(services.DefaultRiskScore),
		nil,
	)
}

func createUser(t *testing.T, db *sqlx.DB, username, balance string) *models.UserDB {
	t.Helper()
	user, err := repositories.NewUserWriteRepository(db).Save(context.Background(), models.NewUser{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Balance:      decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
	return user
}

func balanceOf(t *testing.T, db *sqlx.DB, user *models.UserDB) decimal.Decimal {
	t.Helper()
	got, err := repositories.NewUserReadRepository(db).GetByID(context.Background(), user.UserID)
	require.NoError(t, err)
	return got.Balance
}

func TestTransferService_Postgres(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()
	svc := newPostgresTransferService(db)

	t.Run("concurrent transfers never overdraw", func(t *testing.T) {
		sender := createUser(t, db, "sender", "100.00")
		receiver := createUser(t, db, "receiver", "0")

		const workers = 20
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			ok       int
			rejected int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Create(ctx, sender, models.TransferRequest{
					Amount:     decimal.RequireFromString("10.00"),
					ReceiverID: &receiver.UserID,
				})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					ok++
				case services.KindOf(err) == services.KindValidation:
					rejected++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 10, ok)
		assert.Equal(t, 10, rejected)
		assert.True(t, balanceOf(t, db, sender).IsZero())
		assert.Equal(t, "100.00", balanceOf(t, db, receiver).StringFixed(2))

		summary, err := svc.Summary(ctx, sender)
		require.NoError(t, err)
		assert.Equal(t, "100.00", summary.TotalSent.StringFixed(2))
		assert.Equal(t, int64(10), summary.SentCount)
	})

	t.Run("crossing transfers do not deadlock", func(t *testing.T) {
		a := createUser(t, db, "cross_a", "500")
		b := createUser(t, db, "cross_b", "500")

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, err := svc.Create(ctx, a, models.TransferRequest{Amount: decimal.NewFromInt(1), ReceiverID: &b.UserID})
				assert.NoError(t, err)
			}()
			go func() {
				defer wg.Done()
				_, err := svc.Create(ctx, b, models.TransferRequest{Amount: decimal.NewFromInt(2), ReceiverID: &a.UserID})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, "510.00", balanceOf(t, db, a).StringFixed(2))
		assert.Equal(t, "490.00", balanceOf(t, db, b).StringFixed(2))
	})

	t.Run("rejected transfer leaves no trace", func(t *testing.T) {
		poor := createUser(t, db, "poor", "5")
		rich := createUser(t, db, "rich", "0")

		_, err := svc.Create(ctx, poor, models.TransferRequest{Amount: decimal.NewFromInt(6), ReceiverID: &rich.UserID})
		assert.ErrorIs(t, err, services.ErrInsufficientBalance)

		list, err := svc.ListForUser(ctx, poor)
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.Equal(t, "5.00", balanceOf(t, db, poor).StringFixed(2))
	})

	t.Run("receiver not found rolls back", func(t *testing.T) {
		lonely := createUser(t, db, "lonely", "50")
		ghost := lonely.UserID
		ghost[0] ^= 0xff

		_, err := svc.Create(ctx, lonely, models.TransferRequest{Amount: decimal.NewFromInt(1), ReceiverID: &ghost})
		assert.ErrorIs(t, err, services.ErrReceiverNotFound)
		assert.Equal(t, "50.00", balanceOf(t, db, lonely).StringFixed(2))
	})
}
