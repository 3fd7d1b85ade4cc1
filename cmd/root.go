package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/analysis"
	"github.com/sells-group/demographics-cli/internal/config"
	"github.com/sells-group/demographics-cli/internal/dataset"
	"github.com/sells-group/demographics-cli/internal/db"
	"github.com/sells-group/demographics-cli/internal/geo"
	"github.com/sells-group/demographics-cli/internal/matcher"
	"github.com/sells-group/demographics-cli/internal/taxonomy"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "demographics-cli",
	Short: "Demographic category normalization and conditional distribution engine",
	Long:  "Normalizes free-form demographic values against census category systems and computes conditional distributions across every census table involving the chosen variable.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// appEnv bundles the wired collaborators for one command invocation.
type appEnv struct {
	reg      *taxonomy.Registry
	source   dataset.TableSource
	analyzer *analysis.Analyzer
	resolver geo.Resolver

	pool   *pgxpool.Pool
	sqlite *dataset.SQLiteSource
}

func (e *appEnv) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
	if e.sqlite != nil {
		_ = e.sqlite.Close()
	}
}

// initEnv builds the registry, table source, and analyzer from config. A
// non-empty fixture path bypasses the configured store.
func initEnv(ctx context.Context, fixturePath string) (*appEnv, error) {
	env := &appEnv{}

	if cfg.Taxonomy.File != "" {
		reg, err := taxonomy.LoadFromFile(cfg.Taxonomy.File)
		if err != nil {
			return nil, err
		}
		env.reg = reg
	} else {
		env.reg = taxonomy.Default()
	}

	switch {
	case fixturePath != "":
		src, err := dataset.LoadFixture(fixturePath, env.reg)
		if err != nil {
			return nil, err
		}
		env.source = src
	case cfg.Store.Driver == "postgres":
		pool, err := db.NewPool(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		env.pool = pool
		env.source = dataset.NewPostgresSource(pool, env.reg)
		env.resolver = geo.NewPostgresResolver(pool)
	case cfg.Store.Driver == "sqlite":
		src, err := dataset.NewSQLite(cfg.Store.DatabaseURL, env.reg)
		if err != nil {
			return nil, err
		}
		env.sqlite = src
		env.source = src
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	m := matcher.New(matcher.Config{
		FloorThreshold:    cfg.Matcher.FloorThreshold,
		PerfectThreshold:  cfg.Matcher.PerfectThreshold,
		VeryGoodThreshold: cfg.Matcher.VeryGoodThreshold,
		GoodThreshold:     cfg.Matcher.GoodThreshold,
	})
	env.analyzer = analysis.New(env.reg, env.source, m, analysis.Options{
		TableTimeout:  cfg.Analysis.TableTimeout(),
		MaxConcurrent: cfg.Analysis.MaxConcurrent,
	})
	return env, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
