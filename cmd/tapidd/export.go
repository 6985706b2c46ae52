package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tapid-connect/config"
	"tapid-connect/internal/connect"
	"tapid-connect/internal/db"
	"tapid-connect/internal/fixture"
	"tapid-connect/internal/store"
)

func newExportCmd(load func() (*config.Config, error)) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the connected terminals and analytics as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return export(cmd.Context(), cfg, w)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "file to write, - for stdout")
	return cmd
}

func export(ctx context.Context, cfg *config.Config, w io.Writer) error {
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	data, err := fixture.Load(cfg.Connect.FixturePath)
	if err != nil {
		return fmt.Errorf("failed to load connect data: %w", err)
	}

	cs := connect.New(ctx, data, store.NewGormStore(gormDB), connectOptions(cfg, nil))
	snap, err := cs.Export()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
