package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/fixdecode/internal/fix"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultName         = "fixdecode"
	DefaultAddr         = ":8044"
	DefaultMaxBodyBytes = 1 << 20
)

// ServerConfig configures the HTTP server. An empty TrustedProxies list
// trusts loopback only.
type ServerConfig struct {
	Name           string       `toml:"name"`
	Addr           string       `toml:"addr"`
	CorsOrigins    []string     `toml:"cors_origins"`
	TrustedProxies []string     `toml:"trusted_proxies"`
	MaxBodyBytes   int64        `toml:"max_body_bytes"`
	TLS            TLSConfig    `toml:"tls"`
	Decode         DecodeConfig `toml:"decode"`
}

type TLSConfig struct {
	Enabled  bool   `toml:"enabled"`
	CertFile string `toml:"cert_file"`
	KeyFile  string `toml:"key_file"`
}

// DecodeConfig is shared by the server and the CLI.
type DecodeConfig struct {
	// Delimiter is auto, pipe or soh.
	Delimiter string `toml:"delimiter"`
	// MalformedSegments is empty or skip.
	MalformedSegments string `toml:"malformed_segments"`
	// QuickFIXSpecs are QuickFIX XML data dictionaries layered over the
	// embedded ones.
	QuickFIXSpecs []string `toml:"quickfix_specs"`
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Name:         DefaultName,
		Addr:         DefaultAddr,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

func LoadServerConfig(path string) (ServerConfig, error) {
	var cfg ServerConfig
	if err := loadToml(path, &cfg); err != nil {
		return ServerConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if err := ValidateServerConfig(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateServerConfig(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("server config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("server config missing addr")
	}
	if cfg.MaxBodyBytes < 0 {
		return fmt.Errorf("server config max_body_bytes must be positive")
	}
	if cfg.TLS.Enabled {
		if strings.TrimSpace(cfg.TLS.CertFile) == "" || strings.TrimSpace(cfg.TLS.KeyFile) == "" {
			return fmt.Errorf("tls requires cert_file and key_file")
		}
	}
	if err := ValidateDecodeConfig(cfg.Decode); err != nil {
		return fmt.Errorf("decode invalid: %w", err)
	}
	return nil
}

func ValidateDecodeConfig(cfg DecodeConfig) error {
	if _, err := fix.ParseDelimiter(cfg.Delimiter); err != nil {
		return err
	}
	if _, err := fix.ParseMalformedPolicy(cfg.MalformedSegments); err != nil {
		return err
	}
	for i, path := range cfg.QuickFIXSpecs {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("quickfix_specs[%d] is empty", i)
		}
	}
	return nil
}
