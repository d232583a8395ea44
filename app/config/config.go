// Package config loads server settings from defaults, an optional
// TOML or YAML file, and TODO_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile  = "file"
	BackendNeo4j = "neo4j"
)

// Defaults.
const (
	DefaultAddr      = ":8000"
	DefaultDataFile  = "todo.json"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultNeo4jURI  = "neo4j://localhost:7687"
)

// Config holds all server settings.
type Config struct {
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Storage StorageConfig `toml:"storage" yaml:"storage"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Web     WebConfig     `toml:"web" yaml:"web"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// StorageConfig selects and configures the repository backend.
type StorageConfig struct {
	Backend  string      `toml:"backend" yaml:"backend"`
	DataFile string      `toml:"data_file" yaml:"data_file"`
	Neo4j    Neo4jConfig `toml:"neo4j" yaml:"neo4j"`
}

// Neo4jConfig holds graph database connection settings.
type Neo4jConfig struct {
	URI      string `toml:"uri" yaml:"uri"`
	Username string `toml:"username" yaml:"username"`
	Password string `toml:"password" yaml:"password"`
	Database string `toml:"database" yaml:"database"`
}

// LoggingConfig configures the logger and the optional remote sink.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	// Sink is a host:port accepting newline-delimited log lines over TCP.
	Sink string `toml:"sink" yaml:"sink"`
}

// WebConfig configures static content. An empty Dir serves the embedded assets.
type WebConfig struct {
	Dir string `toml:"dir" yaml:"dir"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: DefaultAddr},
		Storage: StorageConfig{
			Backend:  BackendFile,
			DataFile: DefaultDataFile,
			Neo4j:    Neo4jConfig{URI: DefaultNeo4jURI},
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load builds a Config from defaults, the file at path (if non-empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return yaml.Unmarshal(data, cfg)
	default:
		_, err := toml.DecodeFile(path, cfg)
		return err
	}
}

func loadFromEnv(cfg *Config) {
	setFromEnv(&cfg.Server.Addr, "TODO_ADDR")
	setFromEnv(&cfg.Storage.Backend, "TODO_STORAGE_BACKEND")
	setFromEnv(&cfg.Storage.DataFile, "TODO_DATA_FILE")
	setFromEnv(&cfg.Storage.Neo4j.URI, "TODO_NEO4J_URI")
	setFromEnv(&cfg.Storage.Neo4j.Username, "TODO_NEO4J_USERNAME")
	setFromEnv(&cfg.Storage.Neo4j.Password, "TODO_NEO4J_PASSWORD")
	setFromEnv(&cfg.Storage.Neo4j.Database, "TODO_NEO4J_DATABASE")
	setFromEnv(&cfg.Logging.Level, "TODO_LOG_LEVEL")
	setFromEnv(&cfg.Logging.Format, "TODO_LOG_FORMAT")
	setFromEnv(&cfg.Logging.Sink, "TODO_LOG_SINK")
	setFromEnv(&cfg.Web.Dir, "TODO_WEB_DIR")
}

func setFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.DataFile == "" {
			return fmt.Errorf("storage.data_file is required for the %q backend", BackendFile)
		}
	case BackendNeo4j:
		if c.Storage.Neo4j.URI == "" {
			return fmt.Errorf("storage.neo4j.uri is required for the %q backend", BackendNeo4j)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}
