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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/dropkit/storefront/docs"
	"github.com/dropkit/storefront/internal/catalog"
	httpDelivery "github.com/dropkit/storefront/internal/catalog/delivery/http"
	"github.com/dropkit/storefront/internal/catalog/domain"
	"github.com/dropkit/storefront/internal/catalog/repository"
	"github.com/dropkit/storefront/internal/catalog/soldmark"
	"github.com/dropkit/storefront/internal/catalog/usecase/command"
	"github.com/dropkit/storefront/internal/cms"
	"github.com/dropkit/storefront/kafka"
	"github.com/dropkit/storefront/pkg/database"
	"github.com/dropkit/storefront/pkg/logger"
	"github.com/dropkit/storefront/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "storefront-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting storefront service")

	// Initialize tracing
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Initialize product repository
	repo, sqlDB := buildRepository()
	if sqlDB != nil {
		defer sqlDB.Close()
	}

	// Initialize sold-mark store (Redis projection, memory fallback)
	marks := buildSoldMarkStore()

	// Initialize Kafka publisher (optional)
	var publisher command.SoldEventPublisher
	var kafkaPublisher *kafka.Publisher
	kafkaBrokers := getEnv("KAFKA_BROKERS", "")
	if kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")
		kafkaPublisher, err = kafka.NewPublisher(brokers)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher

		startConsumer(brokers, repo, marks)
	} else {
		logger.Logger.Info().Msg("KAFKA_BROKERS not set, sold events stay local")
	}

	// Initialize CMS fetcher (optional)
	var fetcher command.Fetcher
	cmsToken := getEnv("CMS_TOKEN", "")
	cmsDatabaseID := getEnv("CMS_DATABASE_ID", "")
	if cmsToken != "" && cmsDatabaseID != "" {
		fetcher = cms.NewClient(cms.Config{
			BaseURL:    getEnv("CMS_BASE_URL", ""),
			Token:      cmsToken,
			DatabaseID: cmsDatabaseID,
		})
		logger.Logger.Info().Msg("CMS client initialized")
	} else {
		logger.Logger.Warn().Msg("CMS_TOKEN or CMS_DATABASE_ID not set, catalog sync disabled")
	}

	whatsAppNumber := httpDelivery.WhatsAppNumber(getEnv("WHATSAPP_NUMBER", ""))

	// Initialize handler with Wire DI
	handler, err := catalog.InitializeHTTPHandler(repo, marks, fetcher, publisher, whatsAppNumber)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	logger.Logger.Info().Msg("Storefront handler initialized")

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8080")
	go startHTTPServer(handler, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

// buildRepository selects the product repository backend from REPOSITORY_TYPE.
// The *sql.DB return is nil for the memory backend.
func buildRepository() (domain.ProductRepository, *sql.DB) {
	repoType := getEnv("REPOSITORY_TYPE", "gorm")

	if repoType == "memory" {
		logger.Logger.Warn().Msg("Using in-memory product repository, data will not survive restarts")
		return repository.NewTracedProductRepository(repository.NewMemoryProductRepository()), nil
	}

	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "storefrontdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	if repoType == "postgres" {
		db, err := database.NewPostgresConnection(dbConfig)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		repo := repository.NewPostgresProductRepository(db)
		if err := repo.Migrate(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
		logger.Logger.Info().Str("repository", "postgres").Msg("Database initialized successfully")
		return repository.NewTracedProductRepository(repo), db
	}

	gormDB, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}

	repo := repository.NewGormProductRepository(gormDB)
	if err := repo.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Str("repository", "gorm").Msg("Database initialized successfully")
	return repository.NewTracedProductRepository(repo), sqlDB
}

// buildSoldMarkStore connects to Redis when REDIS_ADDR is set, otherwise the
// sold projection lives in process memory.
func buildSoldMarkStore() domain.SoldMarkStore {
	redisAddr := getEnv("REDIS_ADDR", "")
	if redisAddr == "" {
		logger.Logger.Warn().Msg("REDIS_ADDR not set, sold marks held in memory only")
		return soldmark.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger.Fatal().Err(err).Str("addr", redisAddr).Msg("Failed to connect to Redis")
	}

	logger.Logger.Info().Str("addr", redisAddr).Msg("Redis sold-mark store initialized")
	return soldmark.NewRedisStore(client)
}

// startConsumer subscribes to sold events from other sale channels and applies
// them to the local projection.
func startConsumer(brokers []string, repo domain.ProductRepository, marks domain.SoldMarkStore) {
	groupID := getEnv("KAFKA_GROUP_ID", "storefront-service")
	consumer, err := kafka.NewConsumer(brokers, groupID, []string{kafka.TopicProductSold})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}

	applyHandler := command.NewApplySoldEventHandler(repo, marks)
	consumer.RegisterHandler(kafka.EventTypeProductSold, applyHandler.Handle)

	if err := consumer.Start(context.Background()); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
	}
}

func startHTTPServer(handler *httpDelivery.CatalogHandler, db *sql.DB, port string) {
	// Setup router
	router := mux.NewRouter()

	// Register routes
	handler.RegisterRoutes(router)

	// Health check endpoint
	handler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Str("swagger_endpoint", "/swagger/index.html").
		Msg("HTTP server started")

	if err := http.ListenAndServe(":"+port, c.Handler(httpDelivery.TracingMiddleware("storefront-http", router))); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
