package cmd

import (
	"fmt"
	"strings"

	"github.com/msto63/taxon/pkg/taxon"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Zeigt alle Felder des Taxons",
	Long: `Fragt alle Felder des Taxons parallel ab und zeigt sie an.

Schlägt ein Feld fehl, wird der erste Fehler gemeldet.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient(cmd)
	if err != nil {
		printError("Client konnte nicht erstellt werden", err)
		return err
	}

	ctx, cancel := commandContext(cmd, cfg.Client.TimeoutMS)
	defer cancel()

	summary, err := taxon.Describe(ctx, client)
	if err != nil {
		printError("Abfrage fehlgeschlagen", err)
		return err
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), summary)
	}

	rows := [][2]string{
		{"Name", summary.ScientificName},
		{"Taxonomic ID", fmt.Sprint(summary.TaxonomicID)},
		{"Domain", summary.Domain},
		{"Kingdom", summary.Kingdom},
		{"Genetic code", fmt.Sprint(summary.GeneticCode)},
		{"Parent", summary.Parent},
		{"Children", strings.Join(summary.Children, ", ")},
		{"Lineage", strings.Join(summary.ScientificLineage, " > ")},
		{"Annotations", strings.Join(summary.GenomeAnnotations, ", ")},
		{"Aliases", strings.Join(summary.Aliases, ", ")},
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(cfg.Client.Ref))
	for _, r := range rows {
		fmt.Fprintln(out, renderRow(r[0], r[1]))
	}
	return nil
}
