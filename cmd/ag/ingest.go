package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfalcone/airgrid/internal/ingest"
)

func newIngestCmd() *cobra.Command {
	var (
		configPath string
		source     string
	)

	cmd := &cobra.Command{
		Use:   "ingest [file-or-url]",
		Short: "Import a schedule CSV into the event store",
		Long: `Imports a production schedule CSV from a file or an http(s) URL.
Existing events with the same source tag are replaced, so re-running an
import never duplicates rows. With no argument the configured feed path
is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runIngest(cmd, configPath, path, source)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "airgrid.yaml", "path to AirGrid config file")
	cmd.Flags().StringVarP(&source, "source", "s", "", "source tag (overrides config)")
	return cmd
}

func runIngest(cmd *cobra.Command, configPath, path, source string) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if path == "" {
		path = cfg.Ingest.Path
	}
	if path == "" {
		return fmt.Errorf("no file given and ingest.path is not configured")
	}
	if source == "" {
		source = cfg.Ingest.Source
	}

	opts := ingest.Options{
		Source:   source,
		Resolver: ingest.NewAliasResolver(cfg.Networks),
	}
	result, err := ingest.ImportSource(gormDB, nil, path, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %d events from %s (source %q)\n", result.Imported, path, source)
	if result.Skipped > 0 {
		fmt.Fprintf(out, "Skipped %d malformed rows\n", result.Skipped)
	}
	return nil
}
