package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/dataset"
	"github.com/sells-group/demographics-cli/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the count store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		switch cfg.Store.Driver {
		case "postgres":
			pool, err := db.NewPool(ctx, cfg.Store.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := dataset.NewPostgresSource(pool, nil).Migrate(ctx); err != nil {
				return err
			}
		case "sqlite":
			src, err := dataset.NewSQLite(cfg.Store.DatabaseURL, nil)
			if err != nil {
				return err
			}
			defer src.Close()
			if err := src.Migrate(ctx); err != nil {
				return err
			}
		default:
			return eris.Errorf("unknown store driver %q", cfg.Store.Driver)
		}

		zap.L().Info("schema up to date", zap.String("driver", cfg.Store.Driver))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
