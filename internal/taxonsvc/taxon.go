package taxonsvc

import (
	"fmt"

	"github.com/msto63/taxon/pkg/core/remote"
	"google.golang.org/protobuf/types/known/structpb"
)

// Taxon is one record of the taxonomy data set
type Taxon struct {
	Ref               string   `yaml:"ref" json:"ref"`
	Parent            string   `yaml:"parent" json:"parent"`
	Children          []string `yaml:"children" json:"children"`
	GenomeAnnotations []string `yaml:"genome_annotations" json:"genome_annotations"`
	// ScientificLineage is one comma-delimited string, least specific rank first
	ScientificLineage string   `yaml:"scientific_lineage" json:"scientific_lineage"`
	ScientificName    string   `yaml:"scientific_name" json:"scientific_name"`
	TaxonomicID       int64    `yaml:"taxonomic_id" json:"taxonomic_id"`
	Kingdom           string   `yaml:"kingdom" json:"kingdom"`
	Domain            string   `yaml:"domain" json:"domain"`
	GeneticCode       int64    `yaml:"genetic_code" json:"genetic_code"`
	Aliases           []string `yaml:"aliases" json:"aliases"`
}

// Field returns the wire value of the field read by op
func (t *Taxon) Field(op remote.Operation) (*structpb.Value, error) {
	switch op {
	case remote.OpGetParent:
		return structpb.NewStringValue(t.Parent), nil
	case remote.OpGetChildren:
		return stringList(t.Children), nil
	case remote.OpGetGenomeAnnotations:
		return stringList(t.GenomeAnnotations), nil
	case remote.OpGetScientificLineage:
		return structpb.NewStringValue(t.ScientificLineage), nil
	case remote.OpGetScientificName:
		return structpb.NewStringValue(t.ScientificName), nil
	case remote.OpGetTaxonomicID:
		return structpb.NewNumberValue(float64(t.TaxonomicID)), nil
	case remote.OpGetKingdom:
		return structpb.NewStringValue(t.Kingdom), nil
	case remote.OpGetDomain:
		return structpb.NewStringValue(t.Domain), nil
	case remote.OpGetGeneticCode:
		return structpb.NewNumberValue(float64(t.GeneticCode)), nil
	case remote.OpGetAliases:
		return stringList(t.Aliases), nil
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
}

func stringList(items []string) *structpb.Value {
	values := make([]*structpb.Value, len(items))
	for i, s := range items {
		values[i] = structpb.NewStringValue(s)
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}
