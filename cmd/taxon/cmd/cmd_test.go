package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	mdwerror "github.com/msto63/taxon/foundation/core/error"
	"github.com/msto63/taxon/pkg/core/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestHostPort(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"localhost:9300", "localhost:9300"},
		{"http://localhost:9301", "localhost:9301"},
		{"https://taxa.example.org:443/taxon/v1", "taxa.example.org:443"},
		{"ws://127.0.0.1:9301/taxon/v1/ws", "127.0.0.1:9301"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, hostPort(tt.url))
		})
	}
}

func TestFields(t *testing.T) {
	names := fieldNames()
	assert.Len(t, names, 10)
	assert.Equal(t, "parent", names[0])

	for _, name := range names {
		f, ok := lookupField(name)
		assert.True(t, ok, name)
		assert.NotNil(t, f.fetch, name)
	}

	_, ok := lookupField("rank")
	assert.False(t, ok)
}

func TestRenderRow(t *testing.T) {
	row := renderRow("Name", "Homo sapiens")
	assert.Contains(t, row, "Name:")
	assert.Contains(t, row, "Homo sapiens")
	assert.Less(t, strings.Index(row, "Name:"), strings.Index(row, "Homo sapiens"))
}

// lineageServer answers the lineage operation and records the requests
type lineageServer struct {
	mu       sync.Mutex
	requests []remote.Request
}

func (s *lineageServer) Handle(_ context.Context, op remote.Operation, req remote.Request) (*structpb.Value, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if op != remote.OpGetScientificLineage {
		return nil, remote.NewServiceError(op, mdwerror.CodeNotFound, "unexpected operation")
	}
	return structpb.NewStringValue("Life, Eukaryota ,  Animalia,Chordata"), nil
}

func runTaxon(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestGetLineage(t *testing.T) {
	svc := &lineageServer{}
	srv := httptest.NewServer(remote.NewHTTPHandler(svc))
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "taxon.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[general]\nlog_level = \"error\"\n"), 0o600))

	base := []string{
		"get", "lineage",
		"--config", cfgPath,
		"--url", srv.URL,
		"--token", "secret-token",
		"--ref", "1779/523209/1",
		"--transport", "http",
		"--protocol", "json",
		"--timeout", "5000",
	}
	want := []string{"Life", "Eukaryota", "Animalia", "Chordata"}

	t.Run("text", func(t *testing.T) {
		out := runTaxon(t, append(base, "--json=false")...)
		assert.Equal(t, strings.Join(want, "\n")+"\n", out)
	})

	t.Run("json", func(t *testing.T) {
		out := runTaxon(t, append(base, "--json")...)
		var got map[string][]string
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, want, got["lineage"])
	})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	require.Len(t, svc.requests, 2)
	for _, req := range svc.requests {
		assert.Equal(t, "secret-token", req.Token)
		assert.Equal(t, "1779/523209/1", req.Ref)
		assert.True(t, req.Flag)
	}
}
