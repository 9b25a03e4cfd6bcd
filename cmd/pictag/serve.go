// ABOUTME: The serve subcommand: starts the tagging web server
// ABOUTME: Loads config, builds the catalog and runs until interrupted

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pictag/pictag/internal/catalog"
	"github.com/pictag/pictag/internal/config"
	"github.com/pictag/pictag/internal/web"
)

func newServeCmd(configFile *string) *cobra.Command {
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the tagging web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner(*configFile)

			cfg, err := config.Load(*configFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			slog.SetDefault(setupLogger(cfg))

			cat, err := catalog.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("building catalog: %w", err)
			}

			srv := web.New(cfg, cat)
			srv.OpenBrowser = !noBrowser
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false,
		"do not open the browser on startup")
	return cmd
}
