// Package config defines the data structures related to configuration and
// includes functions for loading and validating the service configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/iwvelando/portfolio-optimizer/internal/knapsack"
	"github.com/iwvelando/portfolio-optimizer/pkg/constants"
	"github.com/iwvelando/portfolio-optimizer/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for portfolio-optimizer.
type Configuration struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Solver  SolverConfig  `mapstructure:"solver" yaml:"solver"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging,omitempty"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output,omitempty"`
}

// ServerConfig defines runtime parameters for the HTTP server.
type ServerConfig struct {
	Address             string        `mapstructure:"address" yaml:"address"`
	MaxBodySize         string        `mapstructure:"maxBodySize" yaml:"maxBodySize"`
	RequestTimeout      time.Duration `mapstructure:"requestTimeout" yaml:"requestTimeout"`
	ShutdownTimeout     time.Duration `mapstructure:"shutdownTimeout" yaml:"shutdownTimeout"`
	MaxConcurrentSolves int           `mapstructure:"maxConcurrentSolves" yaml:"maxConcurrentSolves"`
	AllowedOrigins      []string      `mapstructure:"allowedOrigins" yaml:"allowedOrigins"`
	maxBodySizeBytes    int64
}

// SolverConfig bounds the work of a single optimization.
type SolverConfig struct {
	CostDecimals     int   `mapstructure:"costDecimals" yaml:"costDecimals"`
	MaxCells         int64 `mapstructure:"maxCells" yaml:"maxCells"`
	MaxCapacityUnits int64 `mapstructure:"maxCapacityUnits" yaml:"maxCapacityUnits"`
	MaxSearchItems   int   `mapstructure:"maxSearchItems" yaml:"maxSearchItems"`
	MaxSearchNodes   int64 `mapstructure:"maxSearchNodes" yaml:"maxSearchNodes"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options for the CLI
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json, yaml
}

// LoadConfiguration loads the YAML configuration at configPath, applying
// defaults for anything unset and PORTFOLIO_* environment overrides on top.
// A missing file is not an error; defaults are returned.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file, %s", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if err := configuration.normalize(); err != nil {
		return nil, err
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}

	return &configuration, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Configuration {
	cfg, err := LoadConfiguration("")
	if err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxBodySize", fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes))
	v.SetDefault("server.requestTimeout", constants.DefaultRequestTimeout)
	v.SetDefault("server.shutdownTimeout", constants.DefaultShutdownTimeout)
	v.SetDefault("server.maxConcurrentSolves", constants.DefaultMaxConcurrentSolves)
	v.SetDefault("server.allowedOrigins", []string{"*"})

	v.SetDefault("solver.costDecimals", constants.DefaultCostDecimals)
	v.SetDefault("solver.maxCells", constants.DefaultMaxCells)
	v.SetDefault("solver.maxCapacityUnits", constants.DefaultMaxCapacityUnits)
	v.SetDefault("solver.maxSearchItems", constants.DefaultMaxSearchItems)
	v.SetDefault("solver.maxSearchNodes", constants.DefaultMaxSearchNodes)

	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")

	v.SetDefault("output.format", constants.OutputFormatPretty)
}

func (c *Configuration) normalize() error {
	if strings.TrimSpace(c.Server.Address) == "" {
		c.Server.Address = constants.DefaultServerAddress
	}

	size, err := ParseSize(c.Server.MaxBodySize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxBodySizeBytes
	}
	c.Server.maxBodySizeBytes = size
	return nil
}

// Validate performs general validation of the configuration.
func (c *Configuration) Validate() error {
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.requestTimeout must be positive, got %s", c.Server.RequestTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdownTimeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if c.Server.MaxConcurrentSolves <= 0 {
		return fmt.Errorf("server.maxConcurrentSolves must be positive, got %d", c.Server.MaxConcurrentSolves)
	}
	if err := c.Solver.Limits().Validate(); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	if c.Logging.Level != "" {
		if err := validation.ValidateLogLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("logging: %w", err)
		}
	}
	if c.Logging.Format != "" {
		if err := validation.ValidateLogFormat(c.Logging.Format); err != nil {
			return fmt.Errorf("logging: %w", err)
		}
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

// MaxBodySizeBytes returns the configured request body limit in bytes.
func (s ServerConfig) MaxBodySizeBytes() int64 {
	return s.maxBodySizeBytes
}

// SetMaxBodySizeBytes overrides the configured request body limit.
func (s *ServerConfig) SetMaxBodySizeBytes(size int64) {
	if size > 0 {
		s.maxBodySizeBytes = size
		s.MaxBodySize = fmt.Sprintf("%d", size)
	}
}

// Limits converts the solver section into engine limits.
func (s SolverConfig) Limits() knapsack.Limits {
	return knapsack.Limits{
		CostDecimals:     s.CostDecimals,
		MaxCells:         s.MaxCells,
		MaxCapacityUnits: s.MaxCapacityUnits,
		MaxSearchItems:   s.MaxSearchItems,
		MaxSearchNodes:   s.MaxSearchNodes,
	}
}
