package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/msto63/taxon/internal/taxonsvc"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token <client-id>",
	Short: "Erzeugt ein Entwicklungs-Token",
	Long: `Erzeugt ein HS256-JWT für client-id, signiert mit [server] jwt_secret.

Das Token ist [server] token_ttl lang gültig.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Server.JWTSecret == "" {
			return errors.New("jwt_secret is not configured")
		}

		tokens := taxonsvc.NewTokenValidator(cfg.Server.JWTSecret, cfg.Server.TokenTTL.Duration)
		token, expiresAt, err := tokens.IssueToken(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <taxa.yaml> <taxa.db>",
	Short: "Importiert eine YAML-Datei in eine SQLite-Datenbank",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !taxonsvc.IsSQLitePath(args[1]) {
			return fmt.Errorf("target %s is not a .db, .sqlite or .sqlite3 file", args[1])
		}
		taxa, err := taxonsvc.LoadTaxa(args[0])
		if err != nil {
			return err
		}
		store, err := taxonsvc.NewSQLiteStore(args[1])
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Import(cmd.Context(), taxa); err != nil {
			return err
		}
		n, err := store.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d taxa, %d in %s\n", len(taxa), n, args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(importCmd)
}
