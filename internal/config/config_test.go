package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/portfolio-optimizer/internal/knapsack"
	"github.com/iwvelando/portfolio-optimizer/pkg/constants"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfigurationDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Server.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address %s, got %s", constants.DefaultServerAddress, cfg.Server.Address)
	}
	if cfg.Server.MaxBodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("expected default body limit, got %d", cfg.Server.MaxBodySizeBytes())
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Fatalf("expected 30s request timeout, got %s", cfg.Server.RequestTimeout)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected 10s shutdown timeout, got %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.MaxConcurrentSolves != constants.DefaultMaxConcurrentSolves {
		t.Fatalf("expected default concurrency, got %d", cfg.Server.MaxConcurrentSolves)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard origin, got %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Solver.Limits() != knapsack.DefaultLimits() {
		t.Fatalf("expected default solver limits, got %+v", cfg.Solver.Limits())
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
	if cfg.Output.Format != constants.OutputFormatPretty {
		t.Fatalf("expected pretty output by default, got %s", cfg.Output.Format)
	}
}

func TestLoadConfigurationEmptyPath(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration(\"\") error = %v", err)
	}
	if cfg.Server.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %s", cfg.Server.Address)
	}
}

func TestLoadConfigurationOverrides(t *testing.T) {
	path := writeConfig(t, `server:
  address: 127.0.0.1:9000
  maxBodySize: 2M
  requestTimeout: 5s
  shutdownTimeout: 2s
  maxConcurrentSolves: 3
  allowedOrigins:
    - http://localhost:3000
solver:
  costDecimals: 2
  maxCells: 1000000
  maxCapacityUnits: 500000
  maxSearchItems: 20
  maxSearchNodes: 1000
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
output:
  format: csv
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Server.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Server.Address)
	}
	if cfg.Server.MaxBodySizeBytes() != 2*1024*1024 {
		t.Fatalf("expected body limit override, got %d", cfg.Server.MaxBodySizeBytes())
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Fatalf("expected request timeout override, got %s", cfg.Server.RequestTimeout)
	}
	if cfg.Server.ShutdownTimeout != 2*time.Second {
		t.Fatalf("expected shutdown timeout override, got %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.MaxConcurrentSolves != 3 {
		t.Fatalf("expected concurrency override, got %d", cfg.Server.MaxConcurrentSolves)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("expected origin override, got %v", cfg.Server.AllowedOrigins)
	}

	expectedLimits := knapsack.Limits{
		CostDecimals:     2,
		MaxCells:         1000000,
		MaxCapacityUnits: 500000,
		MaxSearchItems:   20,
		MaxSearchNodes:   1000,
	}
	if cfg.Solver.Limits() != expectedLimits {
		t.Fatalf("expected solver limits %+v, got %+v", expectedLimits, cfg.Solver.Limits())
	}

	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected logging format console, got %s", cfg.Logging.Format)
	}
	if cfg.Logging.OutputFile != "/tmp/server.log" {
		t.Fatalf("expected logging outputFile /tmp/server.log, got %s", cfg.Logging.OutputFile)
	}
	if cfg.Output.Format != constants.OutputFormatCSV {
		t.Fatalf("expected csv output, got %s", cfg.Output.Format)
	}
}

func TestLoadConfigurationEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `server:
  address: 127.0.0.1:9000
`)
	t.Setenv("PORTFOLIO_SERVER_ADDRESS", "0.0.0.0:7000")
	t.Setenv("PORTFOLIO_SOLVER_MAXCELLS", "1234")
	t.Setenv("PORTFOLIO_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Server.Address != "0.0.0.0:7000" {
		t.Fatalf("expected environment address, got %s", cfg.Server.Address)
	}
	if cfg.Solver.MaxCells != 1234 {
		t.Fatalf("expected environment max cells, got %d", cfg.Solver.MaxCells)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected environment log level, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfigurationRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"Invalid body size", "server:\n  maxBodySize: invalid\n"},
		{"Unsupported body size unit", "server:\n  maxBodySize: 1TB\n"},
		{"Invalid duration", "server:\n  requestTimeout: soon\n"},
		{"Zero request timeout", "server:\n  requestTimeout: 0s\n"},
		{"Zero concurrency", "server:\n  maxConcurrentSolves: 0\n"},
		{"Too many decimals", "solver:\n  costDecimals: 9\n"},
		{"Negative cells", "solver:\n  maxCells: -5\n"},
		{"Unknown log level", "logging:\n  level: loud\n"},
		{"Unknown log format", "logging:\n  format: xml\n"},
		{"Unknown output format", "output:\n  format: html\n"},
		{"Malformed YAML", "server: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.contents)); err == nil {
				t.Fatalf("expected error for %s but got nil", tt.name)
			}
		})
	}
}

func TestSetMaxBodySizeBytes(t *testing.T) {
	cfg := Default()

	cfg.Server.SetMaxBodySizeBytes(4096)
	if cfg.Server.MaxBodySizeBytes() != 4096 {
		t.Fatalf("expected 4096, got %d", cfg.Server.MaxBodySizeBytes())
	}
	if cfg.Server.MaxBodySize != "4096" {
		t.Fatalf("expected textual size 4096, got %s", cfg.Server.MaxBodySize)
	}

	cfg.Server.SetMaxBodySizeBytes(0)
	if cfg.Server.MaxBodySizeBytes() != 4096 {
		t.Fatalf("expected non-positive override to be ignored, got %d", cfg.Server.MaxBodySizeBytes())
	}
}
