package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/learnpay/settlement-engine/docs"
	"github.com/learnpay/settlement-engine/internal/gateway"
	"github.com/learnpay/settlement-engine/internal/middleware"
	"github.com/learnpay/settlement-engine/internal/payment"
	paymentdomain "github.com/learnpay/settlement-engine/internal/payment/domain"
	paymenthandler "github.com/learnpay/settlement-engine/internal/payment/handler"
	"github.com/learnpay/settlement-engine/internal/referral"
	referraldomain "github.com/learnpay/settlement-engine/internal/referral/domain"
	referralhandler "github.com/learnpay/settlement-engine/internal/referral/handler"
	"github.com/learnpay/settlement-engine/internal/wallet"
	walletdomain "github.com/learnpay/settlement-engine/internal/wallet/domain"
	wallethandler "github.com/learnpay/settlement-engine/internal/wallet/handler"
	"github.com/learnpay/settlement-engine/kafka"
	"github.com/learnpay/settlement-engine/pkg/database"
	"github.com/learnpay/settlement-engine/pkg/logger"
	"github.com/learnpay/settlement-engine/pkg/tracing"
)

func main() {
	// .env is optional; containerized deployments set the environment directly
	_ = godotenv.Load()

	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "settlement-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting settlement service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "settlementdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&paymentdomain.Payment{},
		&walletdomain.Wallet{},
		&walletdomain.WalletTransaction{},
		&walletdomain.SettlementRequest{},
		&referraldomain.ReferralPartner{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Payment gateway client
	razorpayGateway := gateway.NewRazorpayGateway(
		mustGetEnv("RAZORPAY_KEY_ID"),
		mustGetEnv("RAZORPAY_KEY_SECRET"),
		getEnv("RAZORPAY_WEBHOOK_SECRET", ""),
	)

	// Redis client for webhook deduplication
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	defer redisClient.Close()

	// Kafka publisher for settlement events
	var publisher *kafka.Publisher
	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	publisher, err = kafka.NewPublisher(brokers)
	if err != nil {
		logger.Logger.Error().Err(err).
			Strs("brokers", brokers).
			Msg("Kafka unavailable, events disabled")
		publisher = nil
	} else {
		defer publisher.Close()
	}

	// Initialize handlers with Wire DI
	paymentHandler, err := payment.InitializeHandler(db, razorpayGateway, publisher, redisClient)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize payment handler")
	}
	walletHandler, err := wallet.InitializeHandler(db, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize wallet handler")
	}
	referralHandler, err := referral.InitializeHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize referral handler")
	}

	logger.Logger.Info().Msg("Handlers initialized")

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8085")
	srv := buildHTTPServer(paymentHandler, walletHandler, referralHandler, sqlDB, httpPort)

	go func() {
		logger.Logger.Info().
			Str("port", httpPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Forced server shutdown")
	}
}

func buildHTTPServer(
	paymentHandler *paymenthandler.PaymentHandler,
	walletHandler *wallethandler.WalletHandler,
	referralHandler *referralhandler.ReferralHandler,
	db *sql.DB,
	port string,
) *http.Server {
	router := mux.NewRouter()

	// Register all middlewares using middleware registration system
	middleware.Register(router, middleware.DefaultConfig())

	// Register routes
	paymentHandler.RegisterRoutes(router)
	walletHandler.RegisterRoutes(router)
	referralHandler.RegisterRoutes(router)

	// Health check endpoint
	paymentHandler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	paymenthandler.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return &http.Server{
		Addr:    ":" + port,
		Handler: c.Handler(router),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustGetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		logger.Logger.Fatal().Str("key", key).Msg("Required environment variable not set")
	}
	return value
}
