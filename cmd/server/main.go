package main

import (
	"context"
	"fmt"

	"github.com/avdeevlv/go-pii-vault/internal/config"
	handler "github.com/avdeevlv/go-pii-vault/internal/handler/http"
	"github.com/avdeevlv/go-pii-vault/internal/logger"
	"github.com/avdeevlv/go-pii-vault/internal/server"
	"github.com/avdeevlv/go-pii-vault/internal/service"
	"github.com/avdeevlv/go-pii-vault/internal/store"
	"github.com/avdeevlv/go-pii-vault/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("pii-vault-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()
	env, err := store.ResolveEnvironment(ctx, cfg.Storage, cfg.App.SessionDuration, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error resolving storage environment")
	}
	log.Info().Str("environment", env.Name).Msg("storage environment resolved")

	services := service.NewServices(env, cfg.App, log)
	router := handler.NewHandler(services, cfg.App, log).Init()

	sweeper := workers.NewSessionSweeper(
		env.Storages.SessionRepository,
		env.KeyCache,
		cfg.Workers.SweepInterval,
		log,
	)
	workers.NewWorkers(sweeper).Run()

	srv, err := server.NewServer(router, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
