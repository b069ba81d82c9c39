package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/gdg-garage/maitri-passes/internal/app"
	"github.com/gdg-garage/maitri-passes/internal/registration"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var flags fieldFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check registration values without storing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			v, err := flags.lookup(app.Variants(cfg))
			if err != nil {
				return err
			}

			errs := registration.Validate(v, flags.fields)
			if len(errs) == 0 {
				n := registration.Normalize(v, flags.fields)
				color.Green("Valid %s registration for %s", v.Kind, n.Name)
				return nil
			}
			printErrors(errs)
			return fmt.Errorf("%d invalid field(s)", len(errs))
		},
	}
	flags.register(cmd)
	return cmd
}

func printErrors(errs map[string]string) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	slices.Sort(fields)

	color.Yellow("\nValidation errors")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Message"})
	for _, f := range fields {
		table.Append([]string{f, errs[f]})
	}
	table.Render()
}
