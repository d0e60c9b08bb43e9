package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fugrusha/booking/internal/clock"
	"github.com/fugrusha/booking/internal/config"
	"github.com/fugrusha/booking/internal/sweep"
	transporthttp "github.com/fugrusha/booking/internal/transport/http"
	"github.com/fugrusha/booking/migrations"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and the expiration sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cfg := config.Load(log)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pool, err := openPool(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := migrations.Apply(ctx, pool); err != nil {
				return err
			}

			pub, closePub := newPublisher(cfg, log)
			defer func() { _ = closePub() }()

			svcs := buildServices(pool, cfg, log, pub)

			// Warm the counter so the first read does not pay for the
			// aggregate query.
			if err := svcs.counter.Rebuild(ctx); err != nil {
				log.Warn("initial counter rebuild failed", zap.Error(err))
			}

			sweeper := sweep.New(svcs.bookings, svcs.counter, clock.NewSystem(),
				sweep.WithInterval(cfg.SweepInterval),
				sweep.WithBudget(cfg.SweepBudget),
				sweep.WithLogger(log),
			)
			go func() {
				if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("sweeper stopped", zap.Error(err))
				}
			}()

			mux := http.NewServeMux()
			mux.HandleFunc("/health", transporthttp.HealthHandler)
			mux.Handle("/units", transporthttp.HandleUnits(svcs.units))
			mux.Handle("/units/", transporthttp.HandleUnitByID(svcs.units))
			mux.Handle("/bookings", transporthttp.HandleBookings(svcs.bookings))
			mux.Handle("/bookings/", transporthttp.HandleBookingByID(svcs.bookings))
			mux.Handle("/payments", transporthttp.HandlePayments(svcs.payments))
			mux.Handle("/payments/", transporthttp.HandlePaymentByID(svcs.payments))
			mux.Handle("/availability", transporthttp.HandleAvailability(svcs.bookings))
			mux.Handle("/availability/count", transporthttp.HandleAvailableCount(svcs.units))
			mux.Handle("/", transporthttp.NotFoundHandler())

			handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), log)

			server := &http.Server{
				Addr:    ":" + cfg.Port,
				Handler: handler,
			}

			log.Info("api listening", zap.String("port", cfg.Port))

			srvErr := make(chan error, 1)
			go func() {
				srvErr <- server.ListenAndServe()
			}()

			select {
			case err := <-srvErr:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server error", zap.Error(err))
				}
			case <-ctx.Done():
				log.Info("shutdown signal received, stopping server")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("server shutdown error", zap.Error(err))
			}
			log.Info("server stopped")
			return nil
		},
	}
}
