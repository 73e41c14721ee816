package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"assettrack-api/internal"
	"assettrack-api/internal/config"
)

func main() {
	// Load .env for local development; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("configuration error")
	}

	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("service", "assettrack-api").Logger()

	srv, err := internal.NewServer(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Close(ctx)
	}()

	log.Info().
		Str("addr", cfg.App.Addr).
		Str("env", cfg.App.Env).
		Str("jwt_issuer", cfg.JWT.Issuer).
		Dur("jwt_expiry", cfg.JWT.Expiry).
		Bool("metrics", cfg.Metrics.Enabled).
		Msg("starting asset tracking API")

	if err := http.ListenAndServe(cfg.App.Addr, srv.Router); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
