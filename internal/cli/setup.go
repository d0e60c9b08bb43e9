package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fugrusha/booking/internal/app"
	"github.com/fugrusha/booking/internal/clock"
	"github.com/fugrusha/booking/internal/config"
	"github.com/fugrusha/booking/internal/counter"
	"github.com/fugrusha/booking/internal/events"
	"github.com/fugrusha/booking/internal/storage/postgres"
)

const startupTimeout = 5 * time.Second

func newLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func openPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := pool.Ping(startupCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return pool, nil
}

func newCounterStore(cfg config.Config, log *zap.Logger) counter.Store {
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set, keeping the availability counter in memory")
		return counter.NewMemoryStore()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return counter.NewRedisStore(client)
}

func newPublisher(cfg config.Config, log *zap.Logger) (app.EventPublisher, func() error) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NewNopPublisher(), func() error { return nil }
	}
	pub, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	if err != nil {
		log.Warn("kafka publisher disabled", zap.Error(err))
		return events.NewNopPublisher(), func() error { return nil }
	}
	return pub, pub.Close
}

type services struct {
	units    *app.UnitService
	bookings *app.BookingService
	payments *app.PaymentService
	counter  *counter.AvailabilityCounter
}

func buildServices(pool *pgxpool.Pool, cfg config.Config, log *zap.Logger, pub app.EventPublisher) services {
	clk := clock.NewSystem()

	unitRepo := postgres.NewUnitRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)

	availability := counter.New(
		newCounterStore(cfg, log), unitRepo, clk,
		counter.WithWindow(cfg.CounterWindow),
		counter.WithLogger(log),
	)

	return services{
		units: app.NewUnitService(unitRepo, availability, clk,
			app.WithMarkupPercent(cfg.MarkupPercent),
			app.WithUnitLogger(log),
		),
		bookings: app.NewBookingService(bookingRepo, availability, clk,
			app.WithPaymentGrace(cfg.PaymentGrace),
			app.WithBookingPublisher(pub),
			app.WithBookingLogger(log),
		),
		payments: app.NewPaymentService(paymentRepo, clk,
			app.WithPaymentPublisher(pub),
			app.WithPaymentLogger(log),
		),
		counter: availability,
	}
}
