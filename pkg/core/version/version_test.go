package version

import (
	"regexp"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionConstants(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"Platform", Platform},
		{"Client", Client},
		{"CLI", CLI},
		{"Daemon", Daemon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !semverRegex.MatchString(tt.version) {
				t.Errorf("%s version %q does not match semver format (x.y.z)", tt.name, tt.version)
			}
		})
	}
}

func TestComponentVersion(t *testing.T) {
	tests := []struct {
		component string
		expected  string
	}{
		{"client", Client},
		{"taxon", CLI},
		{"taxond", Daemon},
		{"unknown", Platform},
	}

	for _, tt := range tests {
		t.Run(tt.component, func(t *testing.T) {
			if got := ComponentVersion(tt.component); got != tt.expected {
				t.Errorf("ComponentVersion(%q) = %v, want %v", tt.component, got, tt.expected)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	info := Info("taxond")
	if !strings.HasPrefix(info, "taxond "+Daemon+" (api v1") {
		t.Errorf("Info() = %q", info)
	}
}
