package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/socialboost/boost-api/internal/config"
	"github.com/socialboost/boost-api/internal/domain/auth"
	"github.com/socialboost/boost-api/internal/domain/profile"
	"github.com/socialboost/boost-api/internal/domain/user"
	"github.com/socialboost/boost-api/internal/pkg/database"
	"github.com/socialboost/boost-api/internal/pkg/logger"
)

// promote-admin sets the role of an existing account. The first admin has to
// be created this way since only admins can change roles through the API.
func main() {
	email := flag.String("email", "", "account email")
	role := flag.String("role", string(profile.RoleAdmin), "role to set: user, admin or blocked")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: promote-admin -email someone@example.com [-role admin]")
		os.Exit(2)
	}

	target := profile.Role(*role)
	switch target {
	case profile.RoleUser, profile.RoleAdmin, profile.RoleBlocked:
	default:
		log.Fatal().Str("role", *role).Msg("Unknown role")
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	u, err := user.NewRepository(db).GetByEmail(ctx, auth.NormalizeEmail(*email))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to look up account")
	}
	if u == nil {
		log.Fatal().Str("email", *email).Msg("No account with that email")
	}

	p, err := profile.NewRepository(db).Update(ctx, u.ID, profile.UpdateFields{Role: &target})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to update role")
	}

	log.Info().Str("user_id", p.ID.String()).Str("email", p.Email).Str("role", string(p.Role)).Msg("Role updated")
}
