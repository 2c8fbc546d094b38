package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`dataset:
  source: %s
server:
  shutdown_timeout: 5s
paths:
  base_dir: %s
telemetry:
  metrics: none
`, filepath.Join(dir, "diamonds.csv"), dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, []string{"-config", writeConfig(t), "-port", fmt.Sprint(freePort(t))})
	assert.NoError(t, err)
}

func TestRun_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}},
		{"port out of range", []string{"-config", writeConfig(t), "-port", "70000"}},
		{"bad flag", []string{"-verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(context.Background(), tt.args))
		})
	}
}
