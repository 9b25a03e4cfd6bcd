// ABOUTME: Entry point for the pictag image tagging server
// ABOUTME: Wires config, catalog and web server behind a cobra CLI

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
        _      _
  _ __ (_) ___| |_ __ _  __ _
 | '_ \| |/ __| __/ _' |/ _' |
 | |_) | | (__| || (_| | (_| |
 | .__/|_|\___|\__\__,_|\__, |
 |_|                    |___/
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "pictag",
		Short:         "Tag a directory of images from your browser",
		Long:          "pictag serves a local web interface for tagging a directory of images\nwith categorical labels and remarks, persisted to SQLite.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml",
		"path to the YAML configuration file")

	cmd.AddCommand(
		newServeCmd(&configFile),
		newExportCmd(&configFile),
		newListCmd(&configFile),
	)
	return cmd
}

func printBanner(configFile string) {
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)

	cyan.Print(banner)
	gray.Printf("    version: %s\n\n", version)
	green.Print("    ▶ ")
	fmt.Printf("Config: %s\n\n", configFile)
}
