package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/config"
	"github.com/jackw9829/academic-tracker/internal/database"
	"github.com/jackw9829/academic-tracker/internal/delivery/httpd"
	"github.com/jackw9829/academic-tracker/internal/repository"
	"github.com/jackw9829/academic-tracker/internal/service"
	"github.com/jackw9829/academic-tracker/internal/service/integration"
	"github.com/jackw9829/academic-tracker/internal/store"
)

type App struct {
	server      *http.Server
	logger      zerolog.Logger
	config      *config.Config
	recordStore store.RecordStore
	publisher   integration.EventPublisher
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	recordStore, cacheClient, err := newRecordStore(cfg, log)
	if err != nil {
		return nil, err
	}

	identityClient := integration.NewIdentityClient(
		cfg.Auth.URL,
		cfg.Auth.AnonKey,
		cfg.Auth.ServiceKey,
		cfg.Auth.Timeout,
		cfg.Auth.RetryCount,
		cfg.Auth.RetryDelay,
		cacheClient,
		cfg.Auth.CacheTTL,
		log,
	)

	blobRepo, err := repository.NewMinIORepository(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Region,
		cfg.Storage.UseSSL,
		[]string{cfg.Storage.MaterialsBucket, cfg.Storage.SubmissionsBucket},
		cfg.Storage.ConnectTimeout,
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob repository: %w", err)
	}

	publisher, err := integration.NewEventPublisher(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.Exchange,
		cfg.RabbitMQ.RoutingKey,
		cfg.RabbitMQ.QueueName,
		log,
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create RabbitMQ publisher")
		// Продолжаем без брокера, это допустимо для разработки
		publisher = nil
	}

	// Репозитории
	userRepo := repository.NewUserRepository(recordStore, log)
	courseRepo := repository.NewCourseRepository(recordStore, log)
	materialRepo := repository.NewMaterialRepository(recordStore, log)
	assessmentRepo := repository.NewAssessmentRepository(recordStore, log)
	submissionRepo := repository.NewSubmissionRepository(recordStore, log)
	gradeRepo := repository.NewGradeRepository(recordStore, log)
	notificationRepo := repository.NewNotificationRepository(recordStore, log)

	// Сервисы
	notificationService := service.NewNotificationService(notificationRepo, publisher, log)
	accountService := service.NewAccountService(userRepo, identityClient, log)
	courseService := service.NewCourseService(courseRepo, log)
	materialService := service.NewMaterialService(
		materialRepo,
		blobRepo,
		cfg.Storage.MaterialsBucket,
		cfg.Storage.URLExpiry,
		log,
	)
	assessmentService := service.NewAssessmentService(assessmentRepo, courseRepo, notificationService, log)
	submissionService := service.NewSubmissionService(
		submissionRepo,
		assessmentRepo,
		blobRepo,
		notificationService,
		cfg.Storage.SubmissionsBucket,
		cfg.Storage.URLExpiry,
		log,
	)
	gradingService := service.NewGradingService(gradeRepo, submissionRepo, notificationService, log)
	reportService := service.NewReportService(assessmentRepo, submissionRepo, gradeRepo, log)

	// Обработчики
	handler := httpd.NewHandler(
		accountService,
		courseService,
		materialService,
		assessmentService,
		submissionService,
		gradingService,
		notificationService,
		reportService,
		identityClient,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:      server,
		logger:      log,
		config:      cfg,
		recordStore: recordStore,
		publisher:   publisher,
	}, nil
}

// newRecordStore поднимает бэкенд по store.driver. Redis-клиент возвращается
// вторым значением, чтобы переиспользовать его как кэш identity provider.
func newRecordStore(cfg *config.Config, log zerolog.Logger) (store.RecordStore, *redis.Client, error) {
	switch cfg.Store.Driver {
	case "postgres":
		db, err := database.NewPostgres(cfg.Store.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, nil, fmt.Errorf("failed to ping postgres: %w", err)
		}

		var cache *redis.Client
		if cfg.Auth.CacheEnabled {
			cache = redis.NewClient(&redis.Options{
				Addr:     cfg.Store.Redis.Address,
				Password: cfg.Store.Redis.Password,
				DB:       cfg.Store.Redis.DB,
			})
		}

		return store.NewPostgresStore(db, log), cache, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Store.Redis.Address,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}

		var cache *redis.Client
		if cfg.Auth.CacheEnabled {
			cache = client
		}

		return store.NewRedisStore(client, log), cache, nil

	case "memory":
		return store.NewMemoryStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting academic tracker on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down academic tracker...")

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	if a.recordStore != nil {
		if err := a.recordStore.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close record store")
		}
	}

	return a.server.Shutdown(ctx)
}
