// ABOUTME: The list subcommand: prints tagging progress as a terminal table
// ABOUTME: Shows every catalog record with its tags, remark and timestamp

package main

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/pictag/pictag/internal/catalog"
	"github.com/pictag/pictag/internal/config"
)

func newListCmd(configFile *string) *cobra.Command {
	var taggedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List images and their tagging state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cat, err := catalog.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("building catalog: %w", err)
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"Image", "Tags", "Remark", "Updated"})
			tw.SetColumnConfigs([]table.ColumnConfig{
				{Number: 1, Align: text.AlignLeft},
				{Number: 4, Align: text.AlignRight},
			})

			for _, rec := range allOrTagged(cat, taggedOnly) {
				tw.AppendRow(table.Row{
					filepath.Base(rec.Path), rec.Tags, rec.Remark, rec.Updated,
				})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&taggedOnly, "tagged", false, "show tagged images only")
	return cmd
}

func allOrTagged(cat *catalog.Catalog, taggedOnly bool) []catalog.Record {
	if taggedOnly {
		return cat.DumpData()
	}
	return cat.All()
}
