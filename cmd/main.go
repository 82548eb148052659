package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-transfer-api/internal/handlers"
	"github.com/sbilibin2017/gw-transfer-api/internal/jwt"
	"github.com/sbilibin2017/gw-transfer-api/internal/logger"
	"github.com/sbilibin2017/gw-transfer-api/internal/middlewares"
	"github.com/sbilibin2017/gw-transfer-api/internal/repositories"
	"github.com/sbilibin2017/gw-transfer-api/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// apiVersion is reported by GET /.
const apiVersion = "0.1.0"

// @title gw-transfer-api API
// @version 0.1.0
// @description Money transfer service with JWT authentication, token revocation and a pluggable risk scorer
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s\nCommit: %s\nBuild: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// config holds every setting read from the environment.
type config struct {
	AppHost  string
	AppPort  string
	LogLevel string

	PGHost         string
	PGPort         int
	PGUser         string
	PGPassword     string
	PGDB           string
	PGMaxOpenConns int
	PGMaxIdleConns int

	RedisHost         string
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecretKey string
	JWTExp       time.Duration

	InitialBalance      decimal.Decimal
	FraudScoreThreshold float64
	// Logged at startup for compatibility with existing deployments; no limit is enforced.
	MaxDailyTransferAmount decimal.Decimal
	MaxTransferFrequency   int
}

// parseConfig loads environment variables from a file, falling back to
// defaults for unset keys.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getInt := func(key, defaultValue string) (int, error) {
		v, err := strconv.Atoi(getEnv(key, defaultValue))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return v, nil
	}
	// money values must fit the NUMERIC(18,2) balance column
	getMoney := func(key, defaultValue string) (decimal.Decimal, error) {
		v, err := decimal.NewFromString(getEnv(key, defaultValue))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s: %w", key, err)
		}
		if v.IsNegative() || !v.Equal(v.Truncate(services.AmountScale)) || v.GreaterThanOrEqual(services.MaxAmount) {
			return decimal.Zero, fmt.Errorf("%s: %s is not a non-negative amount with at most %d decimal places", key, v, services.AmountScale)
		}
		return v, nil
	}

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	cfg.PGHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.PGUser = getEnv("POSTGRES_USER", "user")
	cfg.PGPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PGDB = getEnv("POSTGRES_DB", "database")
	if cfg.PGPort, err = getInt("POSTGRES_PORT", "5432"); err != nil {
		return
	}
	if cfg.PGMaxOpenConns, err = getInt("POSTGRES_MAX_OPEN_CONNS", "16"); err != nil {
		return
	}
	if cfg.PGMaxIdleConns, err = getInt("POSTGRES_MAX_IDLE_CONNS", "8"); err != nil {
		return
	}

	// Redis config
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	if cfg.RedisPort, err = getInt("REDIS_PORT", "6379"); err != nil {
		return
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", "0"); err != nil {
		return
	}
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisPoolSize, err = getInt("REDIS_POOL_SIZE", "10"); err != nil {
		return
	}
	if cfg.RedisMinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", "2"); err != nil {
		return
	}

	// Kafka config, empty broker list disables publishing
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "transfers")

	// JWT config
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production")
	expMinutes, err := getInt("ACCESS_TOKEN_EXPIRE_MINUTES", "30")
	if err != nil {
		return
	}
	cfg.JWTExp = time.Duration(expMinutes) * time.Minute

	// Transfer config
	if cfg.InitialBalance, err = getMoney("INITIAL_BALANCE", "1000.00"); err != nil {
		return
	}
	if cfg.FraudScoreThreshold, err = strconv.ParseFloat(getEnv("FRAUD_SCORE_THRESHOLD", "0.7"), 64); err != nil {
		err = fmt.Errorf("FRAUD_SCORE_THRESHOLD: %w", err)
		return
	}
	if cfg.MaxDailyTransferAmount, err = getMoney("MAX_DAILY_TRANSFER_AMOUNT", "10000.00"); err != nil {
		return
	}
	if cfg.MaxTransferFrequency, err = getInt("MAX_TRANSFER_FREQUENCY", "10"); err != nil {
		return
	}

	return
}

// app groups the services the router is built from.
type app struct {
	tokens   *jwt.JWT
	auth     *services.AuthService
	transfer *services.TransferService
	risk     *services.RiskService
	redis    handlers.Pinger
	database handlers.Pinger
}

// newApp wires repositories and services on top of open store handles.
// kafkaWriter may be nil.
func newApp(cfg config, db *sqlx.DB, rdb *redis.Client, kafkaWriter services.KafkaWriter) *app {
	tokens := jwt.New(
		jwt.WithSecretKey(cfg.JWTSecretKey),
		jwt.WithExpiration(cfg.JWTExp),
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	transferReadRepo := repositories.NewTransferReadRepository(db)
	transferWriteRepo := repositories.NewTransferWriteRepository(db)
	blacklistRepo := repositories.NewTokenBlacklistRepository(rdb)
	txManager := repositories.NewTxManager(db)

	// Initialize services
	scorer := services.NewStaticScorer(services.DefaultRiskScore)

	return &app{
		tokens: tokens,
		auth: services.NewAuthService(
			userReadRepo, userWriteRepo, tokens, blacklistRepo, cfg.InitialBalance,
		),
		transfer: services.NewTransferService(
			txManager, userReadRepo, userWriteRepo,
			transferWriteRepo, transferReadRepo, scorer, kafkaWriter,
		),
		risk: services.NewRiskService(scorer),
		redis: handlers.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}),
		database: handlers.PingerFunc(db.PingContext),
	}
}

// newRouter mounts every route.
func newRouter(a *app, swaggerURL string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/", handlers.NewRootHandler(apiVersion))
	r.Get("/health", handlers.NewHealthHandler(a.redis, a.database))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))

	authMiddleware := middlewares.AuthMiddleware(a.tokens, a.auth)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", handlers.NewRegisterHandler(a.auth))
		r.Post("/auth/token", handlers.NewTokenHandler(a.auth))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Post("/auth/logout", handlers.NewLogoutHandler(a.auth))
			r.Get("/auth/me", handlers.NewMeHandler())
			r.Post("/auth/change-password", handlers.NewChangePasswordHandler(a.auth))

			r.Post("/transfers", handlers.NewCreateTransferHandler(a.transfer))
			r.Get("/transfers", handlers.NewListTransfersHandler(a.transfer))
			r.Get("/transfers/stats/summary", handlers.NewTransferSummaryHandler(a.transfer))

			r.Get("/fraud/risk-score", handlers.NewRiskScoreHandler(a.risk))
			r.Get("/fraud/stats", handlers.NewFraudStatsHandler(a.risk))
		})
	})

	return r
}

// run initializes the logger, database, Redis, Kafka writer, and HTTP server.
// It returns when ctx is cancelled or a shutdown signal arrives.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)
	logger.Log.Infow("transfer settings",
		"initial_balance", cfg.InitialBalance,
		"fraud_score_threshold", cfg.FraudScoreThreshold,
		"max_daily_transfer_amount", cfg.MaxDailyTransferAmount,
		"max_transfer_frequency", cfg.MaxTransferFrequency,
		"token_lifetime", cfg.JWTExp,
	)

	// Amounts are rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.PGUser, cfg.PGPassword, cfg.PGHost, cfg.PGPort, cfg.PGDB)
	logger.Log.Infow("Connecting to PostgreSQL", "host", cfg.PGHost, "port", cfg.PGPort, "db", cfg.PGDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PGMaxOpenConns)
	db.SetMaxIdleConns(cfg.PGMaxIdleConns)

	if err := repositories.Migrate(ctx, db); err != nil {
		return err
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis connection error: %w", err)
	}
	defer rdb.Close()

	// Kafka writer for transfer events
	var kafkaWriter services.KafkaWriter
	if len(cfg.KafkaBrokers) > 0 {
		w := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Topic:                  cfg.KafkaTopic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		}
		defer func() {
			if err := w.Close(); err != nil {
				logger.Log.Errorw("failed to close Kafka writer", "error", err)
			}
		}()
		kafkaWriter = w
		logger.Log.Infow("Kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Log.Info("KAFKA_BROKERS is empty, transfer events are not published")
	}

	handler := newRouter(
		newApp(cfg, db, rdb, kafkaWriter),
		fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
