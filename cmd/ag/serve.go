package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/mfalcone/airgrid/internal/config"
	"github.com/mfalcone/airgrid/internal/db"
	"github.com/mfalcone/airgrid/internal/ingest"
	"github.com/mfalcone/airgrid/internal/realtime"
	"github.com/mfalcone/airgrid/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the AirGrid API server",
		Long:  "Launches the HTTP API, the SSE change stream, and the scheduled feed import.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "airgrid.yaml", "path to AirGrid config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	if err := db.SeedResources(gormDB, cfg); err != nil {
		return err
	}

	reg := realtime.NewRegistry(0)
	defer reg.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	if sched, err := startFeedScheduler(cfg, gormDB, reg); err != nil {
		return err
	} else if sched != nil {
		defer sched.Stop()
		fmt.Fprintf(cmd.OutOrStdout(), "Feed import scheduled (%s) from %s\n",
			cfg.Ingest.Schedule, cfg.Ingest.Path)
	}

	return server.Start(ctx, server.StartOpts{
		DB:       gormDB,
		Registry: reg,
		Config:   cfg,
		Port:     port,
		Out:      cmd.OutOrStdout(),
	})
}

// startFeedScheduler runs the CSV import on the configured cron schedule.
// An empty schedule disables polling; imports then happen only via
// `ag ingest` or API writes.
func startFeedScheduler(cfg *config.Config, gormDB *gorm.DB, reg *realtime.Registry) (*cron.Cron, error) {
	if cfg.Ingest.Schedule == "" {
		return nil, nil
	}
	if cfg.Ingest.Path == "" {
		return nil, fmt.Errorf("ingest.schedule is set but ingest.path is empty")
	}

	resolver := ingest.NewAliasResolver(cfg.Networks)
	opts := ingest.Options{Source: cfg.Ingest.Source, Resolver: resolver}

	sched := cron.New()
	_, err := sched.AddFunc(cfg.Ingest.Schedule, func() {
		result, err := ingest.ImportSource(gormDB, reg, cfg.Ingest.Path, opts)
		if err != nil {
			log.Printf("serve: scheduled import: %v", err)
			return
		}
		log.Printf("serve: imported %d events (%d skipped) from %s",
			result.Imported, result.Skipped, cfg.Ingest.Path)
	})
	if err != nil {
		return nil, fmt.Errorf("parse ingest.schedule %q: %w", cfg.Ingest.Schedule, err)
	}
	sched.Start()
	return sched, nil
}
