package main

import (
	"fmt"
	"os"

	"github.com/msto63/taxon/pkg/core/config"
	coregrpc "github.com/msto63/taxon/pkg/core/grpc"
	"github.com/msto63/taxon/pkg/core/logging"
	"github.com/msto63/taxon/pkg/core/version"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "taxond",
	Short: "taxond - Referenz-Implementierung des Taxonomie-Service",
	Long: `taxond beantwortet Taxon-Abfragen über gRPC, HTTP und WebSocket.

Die Daten stammen aus einer YAML-Datei oder einer SQLite-Datenbank
([server] data_file).`,
	SilenceUsage: true,
	Version:      version.Info("taxond"),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: $TAXON_CONFIG oder ./configs/taxon.toml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies the logging settings
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ValidateServer(); err != nil {
		return nil, err
	}
	if err := logging.SetDefaults(cfg.General.LogLevel, cfg.General.LogFormat, os.Stderr); err != nil {
		return nil, fmt.Errorf("invalid logging settings: %w", err)
	}
	coregrpc.SetLogger(logging.New("grpc"))
	return cfg, nil
}
