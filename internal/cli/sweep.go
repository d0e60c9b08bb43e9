package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fugrusha/booking/internal/clock"
	"github.com/fugrusha/booking/internal/config"
	"github.com/fugrusha/booking/internal/events"
	"github.com/fugrusha/booking/internal/sweep"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run a single expiration sweep and counter rebuild, then exit",
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

			svcs := buildServices(pool, cfg, log, events.NewNopPublisher())

			sweeper := sweep.New(svcs.bookings, svcs.counter, clock.NewSystem(),
				sweep.WithBudget(cfg.SweepBudget),
				sweep.WithLogger(log),
			)
			if !sweeper.RunOnce(ctx) {
				log.Warn("sweep pass skipped")
			}
			log.Info("sweep finished", zap.Duration("budget", cfg.SweepBudget))
			return nil
		},
	}
}
