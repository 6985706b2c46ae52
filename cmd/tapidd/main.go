package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"tapid-connect/config"
)

var logger = log.New(os.Stdout, "tapid-connect ", log.LstdFlags)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "tapidd",
		Short:        "POS terminal connection and sales analytics service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config (default $CONFIG_PATH or ./config/config.yaml)")

	load := func() (*config.Config, error) {
		path := configPath
		if path == "" {
			path = os.Getenv("CONFIG_PATH")
		}
		if path == "" {
			path = "./config/config.yaml" // Default path for local development
		}
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		logger.Printf("configuration loaded successfully from %s", path)
		return cfg, nil
	}

	root.AddCommand(newServeCmd(load), newExportCmd(load))
	return root
}
