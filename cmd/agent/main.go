package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/workix/fieldsync/internal/adapter"
	"github.com/workix/fieldsync/internal/config"
	"github.com/workix/fieldsync/internal/crypto"
	"github.com/workix/fieldsync/internal/engine"
	"github.com/workix/fieldsync/internal/logger"
	"github.com/workix/fieldsync/internal/netmon"
	"github.com/workix/fieldsync/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("fieldsync-agent")
	cfg, err := config.GetAgentConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create offline storage")
	}

	secrets, err := crypto.NewFileSecretStore(cfg.Storage.StateDir)
	if err != nil {
		log.Fatal().Err(err).Msg("open secret store")
	}

	transport := adapter.NewHTTPRemoteTransportFromConfig(cfg.Adapter, cfg.App)
	probe := netmon.NewProbeSource(cfg.Adapter.BaseURL, cfg.Probe.Interval, cfg.Adapter.RequestTimeout, log)

	eng, err := engine.New(engine.Dependencies{
		Storages:  storages,
		Secrets:   secrets,
		Transport: transport,
		Source:    probe,
		Sync:      cfg.Sync,
		Logger:    log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init sync engine")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = eng.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("run sync engine")
	}
	log.Info().Str("base_url", cfg.Adapter.BaseURL).Msg("fieldsync agent started")

	<-ctx.Done()
	log.Info().Msg("shutting down")
	if err = eng.Close(); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
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
