package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/davidm/sidework/internal/api"
	"github.com/davidm/sidework/internal/config"
	"github.com/davidm/sidework/internal/db"
	"github.com/davidm/sidework/internal/scheduler"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	srv, err := api.NewServer(pool, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	sched := scheduler.New(logger)
	sweep := &scheduler.OverdueSweep{Store: srv.Store, Log: logger}
	if err := sched.AddJob(cfg.OverdueSweepSpec, sweep); err != nil {
		logger.Fatal().Err(err).Msg("failed to register overdue sweep")
	}
	rescore := &scheduler.Rescore{Store: srv.Store, Weights: srv.Weights(), Log: logger}
	if err := sched.AddJob(cfg.RescoreSpec, rescore); err != nil {
		logger.Fatal().Err(err).Msg("failed to register rescore job")
	}
	sched.Start()
	defer sched.Stop()

	logger.Info().Str("port", cfg.Port).Msg("server starting")
	if err := srv.Start(cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
