package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/msto63/taxon/pkg/taxon"
	"github.com/spf13/cobra"
)

type field struct {
	name  string
	fetch func(ctx context.Context, c *taxon.TaxonClient) (interface{}, error)
}

func await[T any](ctx context.Context, f *taxon.Future[T]) (interface{}, error) {
	return f.Await(ctx)
}

var fields = []field{
	{"parent", func(ctx context.Context, c *taxon.TaxonClient) (interface{}, error) { return await(ctx, c.GetParent(ctx)) }},
	{"children", func(ctx context.Context, c *taxon.TaxonClient) (interface{}, error) { return await(ctx, c.GetChildren(ctx)) }},
	{"genome-annotations", func(ctx context.Context, c *taxon.TaxonClient) (interface{}, error) {
		return await(ctx, c.GetGenomeAnnotations(ctx))
	}},
	{"lineage", func(ctx context.Context, c *taxon.TaxonClient) (interface{}, error) {
		return await(ctx, c.GetScientificLineage(ctx))
	}},
	{"scientific-name", func(ctx context.Context, c *taxon.TaxonClient) (interface{}, error) {
		return await(ctx, c.GetScientificName(ctx))
	}},
	{"taxonomic-id", func(ctx context.Context, c *taxon.TaxonClient) (interface{}, error) { return await(ctx, c.GetTaxonomicID(ctx)) }},
	{"kingdom", func(ctx context.Context, c *taxon.TaxonClient) (interface{}, error) { return await(ctx, c.GetKingdom(ctx)) }},
	{"domain", func(ctx context.Context, c *taxon.TaxonClient) (interface{}, error) { return await(ctx, c.GetDomain(ctx)) }},
	{"genetic-code", func(ctx context.Context, c *taxon.TaxonClient) (interface{}, error) { return await(ctx, c.GetGeneticCode(ctx)) }},
	{"aliases", func(ctx context.Context, c *taxon.TaxonClient) (interface{}, error) { return await(ctx, c.GetAliases(ctx)) }},
}

func fieldNames() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

func lookupField(name string) (field, bool) {
	for _, f := range fields {
		if f.name == name {
			return f, true
		}
	}
	return field{}, false
}

var getCmd = &cobra.Command{
	Use:       "get <feld>",
	Short:     "Fragt ein einzelnes Feld ab",
	Long:      "Fragt ein einzelnes Feld des Taxons ab.\n\nFelder: " + strings.Join(fieldNames(), ", "),
	Args:      cobra.ExactArgs(1),
	ValidArgs: fieldNames(),
	RunE:      runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	f, ok := lookupField(args[0])
	if !ok {
		return fmt.Errorf("unbekanntes Feld %q (erlaubt: %s)", args[0], strings.Join(fieldNames(), ", "))
	}

	client, cfg, err := newClient(cmd)
	if err != nil {
		printError("Client konnte nicht erstellt werden", err)
		return err
	}

	ctx, cancel := commandContext(cmd, cfg.Client.TimeoutMS)
	defer cancel()

	value, err := f.fetch(ctx, client)
	if err != nil {
		printError("Abfrage fehlgeschlagen", err)
		return err
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{f.name: value})
	}
	switch v := value.(type) {
	case []string:
		for _, item := range v {
			fmt.Fprintln(cmd.OutOrStdout(), item)
		}
	default:
		fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}

// commandContext bounds a command by twice the per-call timeout
func commandContext(cmd *cobra.Command, timeoutMS int) (context.Context, context.CancelFunc) {
	if timeoutMS <= 0 {
		timeoutMS = taxon.DefaultTimeoutMillis
	}
	return context.WithTimeout(cmd.Context(), 2*time.Duration(timeoutMS)*time.Millisecond)
}
