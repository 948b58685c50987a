// Package constants provides shared constants for the portfolio-optimizer application.
package constants

// Service identity reported by the health endpoint.
const (
	// ServiceName is the human-readable name of the HTTP service
	ServiceName = "Portfolio Optimization Service"

	// ServiceStatusHealthy is the status reported by a live service
	ServiceStatusHealthy = "healthy"

	// DefaultVersion is used when no build version is injected
	DefaultVersion = "1.0.0"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON emits the same document the HTTP API returns
	OutputFormatJSON = "json"

	// OutputFormatYAML emits the result as YAML
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default server configuration file name
	DefaultConfigFile = "server-config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "server-config.yaml.example"

	// EnvPrefix prefixes every environment variable override (PORTFOLIO_SERVER_ADDRESS, ...)
	EnvPrefix = "PORTFOLIO"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address, same port the UI expects
	DefaultServerAddress = ":5000"

	// DefaultMaxBodySizeBytes is the default maximum request body size (1 MB)
	DefaultMaxBodySizeBytes int64 = 1024 * 1024

	// DefaultRequestTimeout bounds a single HTTP request
	DefaultRequestTimeout = "30s"

	// DefaultShutdownTimeout bounds graceful shutdown
	DefaultShutdownTimeout = "10s"

	// DefaultMaxConcurrentSolves caps engine calls in flight
	DefaultMaxConcurrentSolves = 8
)

// Solver defaults
const (
	// DefaultCostDecimals is the number of decimal places costs may carry (0 = whole units)
	DefaultCostDecimals = 0

	// MaxCostDecimals keeps 10^decimals well inside int64 and float64 integer precision
	MaxCostDecimals = 6

	// DefaultMaxCells caps items x (capacity units + 1) for the dynamic-programming table
	DefaultMaxCells int64 = 50_000_000

	// DefaultMaxCapacityUnits caps the width of the dynamic-programming table
	DefaultMaxCapacityUnits int64 = 2_000_001

	// DefaultMaxSearchItems is the largest item count handed to the exact search fallback
	DefaultMaxSearchItems = 40

	// DefaultMaxSearchNodes caps the nodes visited by a single exact search
	DefaultMaxSearchNodes int64 = 5_000_000
)
