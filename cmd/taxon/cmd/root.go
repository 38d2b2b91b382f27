package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/msto63/taxon/pkg/core/config"
	coregrpc "github.com/msto63/taxon/pkg/core/grpc"
	"github.com/msto63/taxon/pkg/core/logging"
	"github.com/msto63/taxon/pkg/core/remote"
	"github.com/msto63/taxon/pkg/taxon"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	jsonOut   bool
	url       string
	token     string
	ref       string
	timeoutMS int
	transport string
	protocol  string
)

var rootCmd = &cobra.Command{
	Use:   "taxon",
	Short: "taxon - Client für den Taxonomie-Service",
	Long: `taxon fragt Felder eines Taxons beim Taxonomie-Service ab.

Verbindungsdaten kommen aus dem [client]-Abschnitt der Config-Datei,
aus TAXON_URL, TAXON_TOKEN und TAXON_REF oder aus den Flags.

Transports: grpc, http, websocket
Protokolle: proto, json`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config-Datei (default: ./configs/taxon.toml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
	flags.BoolVar(&jsonOut, "json", false, "Ausgabe als JSON")
	flags.StringVar(&url, "url", "", "Service-URL")
	flags.StringVar(&token, "token", "", "Autorisierungs-Token")
	flags.StringVar(&ref, "ref", "", "Referenz des Taxons")
	flags.IntVar(&timeoutMS, "timeout", 0, "Timeout pro Aufruf in Millisekunden")
	flags.StringVar(&transport, "transport", "", "Transport (grpc, http, websocket)")
	flags.StringVar(&protocol, "protocol", "", "Protokoll (proto, json)")
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
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

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Client.URL = url
	}
	if flags.Changed("token") {
		cfg.Client.Token = token
	}
	if flags.Changed("ref") {
		cfg.Client.Ref = ref
	}
	if flags.Changed("timeout") {
		cfg.Client.TimeoutMS = timeoutMS
	}
	if flags.Changed("transport") {
		cfg.Client.Transport = transport
	}
	if flags.Changed("protocol") {
		cfg.Client.Protocol = protocol
	}

	level := cfg.General.LogLevel
	if verbose {
		level = "debug"
	}
	if err := logging.SetDefaults(level, cfg.General.LogFormat, os.Stderr); err != nil {
		return nil, fmt.Errorf("invalid logging settings: %w", err)
	}
	coregrpc.SetLogger(logging.New("grpc"))
	return cfg, nil
}

// newClient builds a taxon client from the effective configuration
func newClient(cmd *cobra.Command) (*taxon.TaxonClient, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	t, err := remote.ParseTransport(cfg.Client.Transport)
	if err != nil {
		return nil, nil, err
	}
	p, err := remote.ParseProtocol(cfg.Client.Protocol)
	if err != nil {
		return nil, nil, err
	}

	client, err := taxon.New(taxon.Config{
		Ref:           cfg.Client.Ref,
		URL:           cfg.Client.URL,
		Token:         cfg.Client.Token,
		TimeoutMillis: cfg.Client.TimeoutMS,
		Transport:     t,
		Protocol:      p,
	}, taxon.WithLogger(logging.New("taxon")))
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printError(msg string, err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Fehler: %s: %v", msg, err)))
}
