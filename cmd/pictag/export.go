// ABOUTME: The export subcommand: writes tagged records as CSV
// ABOUTME: Targets stdout by default or a file when given an argument

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pictag/pictag/internal/catalog"
	"github.com/pictag/pictag/internal/config"
)

func newExportCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export tagged images as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cat, err := catalog.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("building catalog: %w", err)
			}

			var out io.Writer = cmd.OutOrStdout()
			if len(args) == 1 {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				out = f
			}

			cw := csv.NewWriter(out)
			records := [][]string{{"id", "path", "tags", "remark", "updated"}}
			for _, rec := range cat.DumpData() {
				records = append(records, []string{rec.ID, rec.Path, rec.Tags, rec.Remark, rec.Updated})
			}
			return cw.WriteAll(records)
		},
	}
}
