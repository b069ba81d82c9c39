// Command passctl validates registrations and issues passes from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gdg-garage/maitri-passes/internal/config"
	"github.com/gdg-garage/maitri-passes/internal/models"
	"github.com/gdg-garage/maitri-passes/internal/registration"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "passctl",
		Short:         "Maitri 2026 registration and pass tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newVariantsCmd(), newValidateCmd(), newIssueCmd())
	return root
}

type fieldFlags struct {
	variant string
	fields  registration.Fields
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.variant, "variant", "v", string(models.KindAttendee), "attendee, vip or faculty")
	cmd.Flags().StringVar(&f.fields.Name, "name", "", "full name")
	cmd.Flags().StringVar(&f.fields.Pin, "pin", "", "PIN number (attendee)")
	cmd.Flags().StringVar(&f.fields.Designation, "designation", "", "designation (vip, faculty)")
	cmd.Flags().StringVar(&f.fields.Mobile, "mobile", "", "10-digit mobile number")
}

func (f *fieldFlags) lookup(variants *registration.Variants) (*registration.Variant, error) {
	kind, ok := models.ParseKind(f.variant)
	if !ok {
		return nil, fmt.Errorf("unknown variant %q", f.variant)
	}
	v, ok := variants.Get(kind)
	if !ok {
		return nil, fmt.Errorf("variant %q is not configured", f.variant)
	}
	return v, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
