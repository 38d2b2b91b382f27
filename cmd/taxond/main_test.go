package main

import "testing"

func TestLoopback(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 9300, "127.0.0.1:9300"},
		{"0.0.0.0", 9300, "127.0.0.1:9300"},
		{"::", 9301, "127.0.0.1:9301"},
		{"10.0.0.5", 9300, "10.0.0.5:9300"},
		{"::1", 9300, "[::1]:9300"},
	}
	for _, tt := range tests {
		if got := loopback(tt.host, tt.port); got != tt.want {
			t.Errorf("loopback(%q, %d) = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}
