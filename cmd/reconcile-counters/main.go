// Recomputes denormalised engagement counters from the relation tables and
// reports any drift. Pass -fix to rewrite drifted rows.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"Vidora/internal/config"
	postgresRepo "Vidora/internal/db/postgres"
)

func main() {
	fix := flag.Bool("fix", false, "rewrite drifted counters")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("connecting to database")
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Error("failed to set goose dialect", "error", err)
		os.Exit(1)
	}
	if err := goose.Up(db, cfg.Database.MigrationsDir); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	report, err := postgresRepo.ReconcileCounters(context.Background(), db, *fix)
	if err != nil {
		logger.Error("reconciliation failed", "error", err)
		os.Exit(1)
	}

	var total int64
	for _, d := range report {
		total += d.Drifted
		logger.Info("counter checked",
			"table", d.Table,
			"column", d.Column,
			"drifted", d.Drifted,
			"fixed", d.Fixed,
		)
	}

	if total > 0 && !*fix {
		logger.Warn("counters drifted, rerun with -fix to repair", "rows", total)
		os.Exit(2)
	}
	logger.Info("reconciliation complete", "rows", total)
}
