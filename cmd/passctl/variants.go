package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gdg-garage/maitri-passes/internal/app"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newVariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the registration forms",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			color.Cyan("\n=== Registration forms ===")
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Variant", "Path", "Table", "Gated", "Code", "Page (mm)", "File"})
			for _, v := range app.Variants(cfg).All() {
				gated := "no"
				if v.Gated() {
					gated = "yes"
				}
				code := "-"
				if v.CodePrefix != "" {
					code = v.CodePrefix + "-####"
				}
				table.Append([]string{
					string(v.Kind),
					v.Path,
					v.Table,
					gated,
					code,
					fmt.Sprintf("%gx%g", v.Pass.Page.Width, v.Pass.Page.Height),
					v.Pass.FilePrefix + "_<" + fileKey(v.Pass.FileByPIN) + ">.pdf",
				})
			}
			table.Render()
			return nil
		},
	}
}

func fileKey(byPIN bool) string {
	if byPIN {
		return "PIN"
	}
	return "Name"
}
