// Package config provides Viper-based configuration loading for the room
// graph editor service.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override, e.g.
// ROOMGRAPH_EDITOR_MAX_CHILD_CORRIDORS.
const EnvPrefix = "ROOMGRAPH"

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is a zap sink: "stderr", "stdout" or a file path.
	Output string `mapstructure:"output"`
}

// EditorConfig holds graph authoring settings.
type EditorConfig struct {
	// CatalogPath is the room type catalog YAML file. It is watched for changes.
	CatalogPath string `mapstructure:"catalog_path"`
	// GraphsDir holds YAML graph documents for the importer.
	GraphsDir string `mapstructure:"graphs_dir"`
	// TemplatesDir holds Lua template scripts.
	TemplatesDir string `mapstructure:"templates_dir"`
	// MaxChildCorridors caps the corridor children of a single room.
	MaxChildCorridors int `mapstructure:"max_child_corridors"`
	// ScriptInstructionLimit bounds each template script run; 0 selects the default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// GRPCConfig holds the editor gRPC listener settings.
type GRPCConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (g GRPCConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

// MetricsConfig holds the Prometheus scrape endpoint settings.
type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables the endpoint.
	Addr string `mapstructure:"addr"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Editor   EditorConfig   `mapstructure:"editor"`
	GRPC     GRPCConfig     `mapstructure:"grpc"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateDatabase(c.Database),
		validateLogging(c.Logging),
		validateEditor(c.Editor),
		validateGRPC(c.GRPC),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		errs = append(errs, fmt.Sprintf("database.min_conns must be 0-%d, got %d", d.MaxConns, d.MinConns))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateEditor(e EditorConfig) error {
	var errs []string
	if e.CatalogPath == "" {
		errs = append(errs, "editor.catalog_path must not be empty")
	}
	if e.MaxChildCorridors < 1 {
		errs = append(errs, fmt.Sprintf("editor.max_child_corridors must be >= 1, got %d", e.MaxChildCorridors))
	}
	if e.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("editor.script_instruction_limit must be >= 0, got %d", e.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateGRPC(g GRPCConfig) error {
	var errs []string
	if g.Host == "" {
		errs = append(errs, "grpc.host must not be empty")
	}
	if g.Port < 1 || g.Port > 65535 {
		errs = append(errs, fmt.Sprintf("grpc.port must be 1-65535, got %d", g.Port))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance carrying the defaults and the
// ROOMGRAPH_ environment overrides but no config file.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "roomgraph")
	v.SetDefault("database.password", "roomgraph")
	v.SetDefault("database.name", "roomgraph")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("editor.catalog_path", "content/room_types.yaml")
	v.SetDefault("editor.graphs_dir", "content/graphs")
	v.SetDefault("editor.templates_dir", "content/templates")
	v.SetDefault("editor.max_child_corridors", 3)
	v.SetDefault("editor.script_instruction_limit", 0)

	v.SetDefault("grpc.host", "127.0.0.1")
	v.SetDefault("grpc.port", 50061)

	v.SetDefault("metrics.addr", ":9108")
}
