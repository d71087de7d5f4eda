package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"complaints-backend/config"
	"complaints-backend/internal/auth"
	"complaints-backend/internal/store"
)

// seedAdmin creates the configured admin account on first start.
func seedAdmin(s store.Store, cfg *config.Config, log zerolog.Logger) {
	if cfg.Admin.Username == "" || cfg.Admin.Password == "" {
		log.Warn().Msg("admin credentials not configured; skipping admin seeding")
		return
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash admin password")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := s.SeedAdmin(ctx, cfg.Admin.Username, hash)
	if err != nil {
		log.Error().Err(err).Msg("failed to seed admin")
		return
	}
	if created {
		log.Info().Str("username", cfg.Admin.Username).Msg("admin account created")
	}
}
