// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     taxon
// Description: Client facade for the remote taxonomy service
// Created:     2025-12-15
// License:     MIT
// ============================================================================

// Package taxon is the client facade for a remote taxonomy service.
//
// A TaxonClient is bound to one taxon reference. Each accessor performs
// exactly one remote call on a fresh connection and returns a Future:
//
//	client, err := taxon.New(taxon.Config{
//		Ref:   "1779/523209/1",
//		URL:   "localhost:9300",
//		Token: token,
//	})
//	if err != nil {
//		return err
//	}
//	name, err := client.GetScientificName(ctx).Await(ctx)
//
// Errors from the connection factory or the remote service are passed
// through unchanged; see the remote package for their classification.
package taxon
