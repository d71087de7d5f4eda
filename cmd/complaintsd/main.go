package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"complaints-backend/config"
	"complaints-backend/internal/api"
	"complaints-backend/internal/calendar"
	"complaints-backend/internal/db"
	"complaints-backend/internal/logger"
	"complaints-backend/internal/store"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %s: %v\n", configPath, err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Debug)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Info().Str("path", configPath).Msg("configuration loaded")

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	zone, err := calendar.Load(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load timezone")
	}

	gormDB, err := db.Init(&cfg.Database, cfg.Server.Debug, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}
	defer sqlDB.Close()

	appStore := store.NewGormStore(gormDB)
	seedAdmin(appStore, cfg, log)

	router := api.NewRouter(appStore, cfg, zone, log)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server ListenAndServe")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server Shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}
