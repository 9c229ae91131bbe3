package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-docstore/pkg/config"
	"github.com/adfharrison1/go-docstore/pkg/logging"
)

var configFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docstore",
		Short: "In-memory document store with a declarative query API",
		Long: `docstore serves collections, indexes and documents over a single
POST /query endpoint, and ships a small client for looking documents up.

Configuration is read from docstore.yaml, a .env file and DOCSTORE_*
environment variables (e.g. DOCSTORE_CLIENT_SECRET, DOCSTORE_SERVER_SECRETS).`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./docstore.yaml)")

	root.AddCommand(newServeCmd(), newGetCmd(), newCountCmd(), newListCmd(), newLoadCmd())
	return root
}

// loadConfig reads the configuration and builds the logger it describes
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logging.New(cfg.Log, os.Stderr), nil
}
