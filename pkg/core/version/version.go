// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     version
// Description: Central version management for the client, CLI and daemon
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Release version of the module
	Platform = "1.0.0"

	// Component versions
	Client = "1.0.0"
	CLI    = "1.0.0"
	Daemon = "1.0.0"

	// WireAPI is the version segment of the remote service contract
	WireAPI = "v1"
)

// Set at build time via -ldflags "-X github.com/msto63/taxon/pkg/core/version.Commit=..."
var (
	Commit    = "dev"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "client":
		return Client
	case "taxon", "cli":
		return CLI
	case "taxond", "daemon":
		return Daemon
	default:
		return Platform
	}
}

// Info returns a one-line build description for a component
func Info(name string) string {
	return fmt.Sprintf("%s %s (api %s, commit %s, built %s, %s)",
		name, ComponentVersion(name), WireAPI, Commit, BuildDate, runtime.Version())
}
