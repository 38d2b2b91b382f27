package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/msto63/taxon/pkg/core/health"
	"github.com/spf13/cobra"
)

var healthURL string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prüft die Erreichbarkeit des Service",
	Long: `Prüft, ob der Taxonomie-Service erreichbar ist.

Ohne --health-url wird die Service-URL per TCP geprüft; mit --health-url
wird der Health-Report des Service abgefragt.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&healthURL, "health-url", "", "Health-Endpoint (z.B. http://localhost:9301/health)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		printError("Config konnte nicht geladen werden", err)
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	if healthURL != "" {
		report, err := fetchReport(ctx, healthURL)
		if err != nil {
			printError("Health-Abfrage fehlgeschlagen", err)
			return err
		}
		if jsonOut {
			return printJSON(cmd.OutOrStdout(), report)
		}
		fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(report.String()))
		for _, c := range report.Checks {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %s  %s\n", c.Name, renderStatus(c.Status), c.Message)
		}
		if report.Status == health.StatusUnhealthy {
			return fmt.Errorf("service unhealthy")
		}
		return nil
	}

	address := hostPort(cfg.Client.URL)
	result := health.TCPCheck("service", address, 5*time.Second).Check(ctx)
	if jsonOut {
		return printJSON(cmd.OutOrStdout(), result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s - %s\n", renderStatus(result.Status), address, result.Message)
	if result.Status != health.StatusHealthy {
		return fmt.Errorf("service not reachable at %s", address)
	}
	return nil
}

func fetchReport(ctx context.Context, target string) (*health.Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var report health.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("invalid health report (HTTP %d): %w", resp.StatusCode, err)
	}
	return &report, nil
}

// hostPort strips scheme and path from a service URL
func hostPort(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		url = url[i+3:]
	}
	if i := strings.IndexByte(url, '/'); i >= 0 {
		url = url[:i]
	}
	return url
}
