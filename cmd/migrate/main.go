package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/socialboost/boost-api/internal/config"
	"github.com/socialboost/boost-api/internal/pkg/database"
	"github.com/socialboost/boost-api/internal/pkg/logger"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	flag.Parse()

	cfg := config.Load()
	closer, err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	defer closer.Close()

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if *down > 0 {
		if err := database.MigrateDown(db, *down); err != nil {
			log.Fatal().Err(err).Msg("Rollback failed")
		}
		log.Info().Int("steps", *down).Msg("Migrations rolled back")
		return
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
