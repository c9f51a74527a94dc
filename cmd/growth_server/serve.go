package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psm0419/gmaking-growth/internal/config"
	"github.com/psm0419/gmaking-growth/internal/db"
	"github.com/psm0419/gmaking-growth/internal/evolution"
	"github.com/psm0419/gmaking-growth/internal/fetch"
	"github.com/psm0419/gmaking-growth/internal/growth"
	"github.com/psm0419/gmaking-growth/internal/provider"
	"github.com/psm0419/gmaking-growth/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the character evolution endpoint.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	generator := provider.NewClient(provider.Options{
		BaseURL:      cfg.ProviderURL,
		APIKey:       cfg.ProviderAPIKey,
		Model:        cfg.ProviderModel,
		PollInterval: cfg.PollInterval,
		MaxWait:      cfg.PollMaxWait,
	})

	orchestrator := evolution.New(
		database,
		growth.NewPolicy(growth.DefaultConfig(), nil),
		generator,
		&fetch.Client{},
		evolution.DefaultRegistry(),
		evolution.Config{
			AssetBaseURL:               cfg.AssetBaseURL,
			ManageEvolutionStepLocally: cfg.ManageEvolutionStep,
			Actor:                      cfg.Actor,
		},
	)

	srv := server.New(server.Config{
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
	}, database, orchestrator)

	return srv.Start()
}
