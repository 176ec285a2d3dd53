package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/laogong5i0-2/utopia"
)

// ServerConfig configures the project daemon.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	Database      string `yaml:"database"`
	LogLevel      string `yaml:"logLevel"`
	MaxAssetBytes int64  `yaml:"maxAssetBytes"`
}

const (
	defaultAddr     = ":8070"
	defaultDatabase = "projects.db"
)

// LoadServerConfig reads a YAML server configuration. Missing fields take
// their defaults.
func LoadServerConfig(path string) (ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("read config: %w", err)
	}
	return ParseServerConfig(data)
}

// ParseServerConfig decodes and validates a YAML server configuration.
func ParseServerConfig(data []byte) (ServerConfig, error) {
	var cfg ServerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.MaxAssetBytes == 0 {
		cfg.MaxAssetBytes = DefaultMaxAssetBytes
	}
	if cfg.MaxAssetBytes < 0 {
		return ServerConfig{}, fmt.Errorf("maxAssetBytes cannot be negative")
	}
	if _, err := utopia.ParseLogLevel(cfg.LogLevel); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}
