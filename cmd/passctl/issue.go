package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/gdg-garage/maitri-passes/internal/app"
	"github.com/gdg-garage/maitri-passes/internal/logger"
	"github.com/gdg-garage/maitri-passes/internal/registration"
	"github.com/spf13/cobra"
)

func newIssueCmd() *cobra.Command {
	var (
		flags    fieldFlags
		passcode string
		outDir   string
	)
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Register and write the pass PDF locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel, true)

			v, err := flags.lookup(app.Variants(cfg))
			if err != nil {
				return err
			}
			if v.Gated() {
				if err := v.Gate.Unlock(passcode); err != nil {
					return errors.New(v.Gate.Mismatch)
				}
			}

			inserter, closeStore, err := app.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			renderer, closeRenderer := app.Renderer(cfg)
			defer closeRenderer()
			notify, closeNotifiers := app.Notifiers(cfg, &log)
			defer closeNotifiers()

			flow := registration.NewFlow(v, inserter, app.FlowOptions(renderer, notify, &log)...)
			flow.Fill(flags.fields)

			state, err := flow.Submit(cmd.Context())
			var verr *registration.ValidationError
			switch {
			case errors.As(err, &verr):
				printErrors(verr.Fields)
				return fmt.Errorf("%d invalid field(s)", len(verr.Fields))
			case err != nil:
				if failed, ok := state.(registration.Failed); ok {
					return errors.New(failed.Message)
				}
				return err
			}

			cred := state.(registration.Success).Credential
			doc, err := flow.Download(cmd.Context())
			if err != nil {
				return fmt.Errorf("registered %s but the pass could not be generated: %w", cred.Name, err)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			path := filepath.Join(outDir, doc.Filename)
			if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
				return err
			}

			color.Green("Registered %s", cred.Name)
			if cred.Code != "" {
				fmt.Printf("Code: %s\n", cred.Code)
			}
			fmt.Printf("QR:   %s\nPass: %s\n", cred.QRPayload(), path)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&passcode, "passcode", "", "passcode for vip and faculty forms")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory for the PDF")
	return cmd
}
