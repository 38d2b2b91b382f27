// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     taxon
// Description: Snapshot of every field of one taxon
// Created:     2025-12-16
// License:     MIT
// ============================================================================

package taxon

import "context"

// Summary collects every field of one taxon
type Summary struct {
	Parent            string   `json:"parent"`
	Children          []string `json:"children"`
	GenomeAnnotations []string `json:"genome_annotations"`
	ScientificLineage []string `json:"scientific_lineage"`
	ScientificName    string   `json:"scientific_name"`
	TaxonomicID       int64    `json:"taxonomic_id"`
	Kingdom           string   `json:"kingdom"`
	Domain            string   `json:"domain"`
	GeneticCode       int64    `json:"genetic_code"`
	Aliases           []string `json:"aliases"`
}

// Describe fires every accessor of c concurrently and collects the results.
// The first error in field order is returned.
func Describe(ctx context.Context, c Client) (*Summary, error) {
	parent := c.GetParent(ctx)
	children := c.GetChildren(ctx)
	annotations := c.GetGenomeAnnotations(ctx)
	lineage := c.GetScientificLineage(ctx)
	name := c.GetScientificName(ctx)
	id := c.GetTaxonomicID(ctx)
	kingdom := c.GetKingdom(ctx)
	domain := c.GetDomain(ctx)
	geneticCode := c.GetGeneticCode(ctx)
	aliases := c.GetAliases(ctx)

	var s Summary
	var err error
	if s.Parent, err = parent.Await(ctx); err != nil {
		return nil, err
	}
	if s.Children, err = children.Await(ctx); err != nil {
		return nil, err
	}
	if s.GenomeAnnotations, err = annotations.Await(ctx); err != nil {
		return nil, err
	}
	if s.ScientificLineage, err = lineage.Await(ctx); err != nil {
		return nil, err
	}
	if s.ScientificName, err = name.Await(ctx); err != nil {
		return nil, err
	}
	if s.TaxonomicID, err = id.Await(ctx); err != nil {
		return nil, err
	}
	if s.Kingdom, err = kingdom.Await(ctx); err != nil {
		return nil, err
	}
	if s.Domain, err = domain.Await(ctx); err != nil {
		return nil, err
	}
	if s.GeneticCode, err = geneticCode.Await(ctx); err != nil {
		return nil, err
	}
	if s.Aliases, err = aliases.Await(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}
