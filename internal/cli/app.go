package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/holidaze-booking/internal/config"
	venueCache "github.com/m04kA/holidaze-booking/internal/infra/cache/venue"
	"github.com/m04kA/holidaze-booking/internal/infra/queue"
	attemptsRepo "github.com/m04kA/holidaze-booking/internal/infra/storage/attempts"
	holidazeClient "github.com/m04kA/holidaze-booking/internal/integrations/holidazeapi"
	resolveAvailability "github.com/m04kA/holidaze-booking/internal/usecase/resolve_availability"
	submitReservation "github.com/m04kA/holidaze-booking/internal/usecase/submit_reservation"
	validateBooking "github.com/m04kA/holidaze-booking/internal/usecase/validate_booking"
	"github.com/m04kA/holidaze-booking/pkg/logger"
	"github.com/m04kA/holidaze-booking/pkg/metrics"
)

// app собранные зависимости сервиса
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	location *time.Location
	metrics  *metrics.Metrics

	client    *holidazeClient.Client
	venues    *venueCache.Cache
	resolver  *resolveAvailability.UseCase
	validator *validateBooking.Validator
	submitter *submitReservation.UseCase
	journal   *attemptsRepo.Repository

	closers []func() error
}

// newApp собирает граф зависимостей.
// reg == nil выключает метрики (одноразовые команды CLI и тесты).
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger, credentials validateBooking.CredentialProvider, reg prometheus.Registerer) (*app, error) {
	loc, err := cfg.Booking.Location()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, location: loc}

	if cfg.Metrics.Enabled && reg != nil {
		a.metrics = metrics.NewWithRegisterer(reg, cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Клиент Holidaze API
	clientOpts := []holidazeClient.Option{holidazeClient.WithLocation(loc)}
	if a.metrics != nil {
		clientOpts = append(clientOpts, holidazeClient.WithObserver(a.metrics))
	}
	a.client = holidazeClient.NewClient(
		cfg.Holidaze.BaseURL,
		cfg.Holidaze.APIKey,
		cfg.Holidaze.TimeoutDuration(),
		log.With("component", "holidazeapi"),
		clientOpts...,
	)
	log.Info("Holidaze client initialized (url=%s, timeout=%ds, timezone=%s)",
		cfg.Holidaze.BaseURL, cfg.Holidaze.Timeout, loc)

	// Кеш ограничений площадок
	var rdb venueCache.RedisClient
	if cfg.Redis.Enabled {
		if client := connectRedis(ctx, cfg.Redis, log); client != nil {
			rdb = client
			a.closers = append(a.closers, client.Close)
		}
	}
	a.venues = venueCache.NewCache(rdb, a.client, log,
		venueCache.WithTTL(cfg.Redis.TTLDuration()),
		venueCache.WithPrefix(cfg.Redis.Prefix),
	)

	// Use cases
	resolverOpts := []resolveAvailability.Option{}
	if a.metrics != nil {
		resolverOpts = append(resolverOpts, resolveAvailability.WithRecorder(a.metrics))
	}
	a.resolver = resolveAvailability.NewUseCase(a.client, cfg.Booking.Policy(), log, resolverOpts...)
	a.validator = validateBooking.NewValidator(credentials, cfg.Booking.Policy())

	submitOpts := []submitReservation.Option{}
	if a.metrics != nil {
		submitOpts = append(submitOpts, submitReservation.WithRecorder(a.metrics))
	}

	// Журнал попыток
	if cfg.Database.Enabled {
		db, err := openDatabase(ctx, cfg.Database)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.journal = attemptsRepo.NewRepository(db, loc)
		submitOpts = append(submitOpts, submitReservation.WithJournal(a.journal))
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	}

	// События о созданных бронированиях
	if cfg.RabbitMQ.Enabled {
		publisher := queue.NewPublisher(cfg.RabbitMQ.URL, log, queue.WithQueue(cfg.RabbitMQ.Queue))
		submitOpts = append(submitOpts, submitReservation.WithPublisher(publisher))
		log.Info("Reservation events will be published to queue=%s", cfg.RabbitMQ.Queue)
	}

	a.submitter = submitReservation.NewUseCase(a.resolver, a.validator, a.client, log, submitOpts...)

	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("Failed to close resource: %v", err)
		}
	}
	a.closers = nil
}

// connectRedis возвращает nil, если Redis недоступен: кеш будет выключен
func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable at %s, venue cache disabled: %v", cfg.Addr, err)
		_ = client.Close()
		return nil
	}

	log.Info("Venue cache enabled (redis=%s, ttl=%ds)", cfg.Addr, cfg.TTL)
	return client
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
