package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fugrusha/booking/internal/config"
	"github.com/fugrusha/booking/migrations"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cfg := config.Load(log)

			ctx := context.Background()
			pool, err := openPool(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := migrations.Apply(ctx, pool); err != nil {
				return err
			}
			log.Info("migrations applied")
			return nil
		},
	}
}
