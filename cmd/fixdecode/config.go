package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/fixdecode/internal/config"
	"github.com/danmuck/fixdecode/internal/render"
	"github.com/mattn/go-isatty"
)

// EnvPrefs names a preferences file used when --prefs is not given.
const EnvPrefs = "FIXDECODE_PREFS"

type fileConfig struct {
	Delimiter         string   `toml:"delimiter"`
	Format            string   `toml:"format"`
	Color             bool     `toml:"color"`
	MalformedSegments string   `toml:"malformed_segments"`
	QuickFIXSpecs     []string `toml:"quickfix_specs"`
}

// cliConfig holds CLI preferences after the file and flags are applied.
type cliConfig struct {
	Decode config.DecodeConfig
	Format render.Format
	Color  bool
}

func defaultCLIConfig() cliConfig {
	return cliConfig{
		Format: render.FormatTable,
		Color:  isatty.IsTerminal(os.Stdout.Fd()),
	}
}

func loadCLIConfig(path string) (cliConfig, error) {
	cfg := defaultCLIConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cliConfig{}, fmt.Errorf("load prefs: %w", err)
	}

	if meta.IsDefined("delimiter") {
		cfg.Decode.Delimiter = strings.TrimSpace(raw.Delimiter)
	}

	if meta.IsDefined("format") {
		f, err := render.ParseFormat(raw.Format)
		if err != nil {
			return cliConfig{}, fmt.Errorf("parse format: %w", err)
		}
		cfg.Format = f
	}

	if meta.IsDefined("color") {
		cfg.Color = raw.Color
	}

	if meta.IsDefined("malformed_segments") {
		cfg.Decode.MalformedSegments = strings.TrimSpace(raw.MalformedSegments)
	}

	if meta.IsDefined("quickfix_specs") {
		cfg.Decode.QuickFIXSpecs = normalizePaths(raw.QuickFIXSpecs)
	}

	if err := config.ValidateDecodeConfig(cfg.Decode); err != nil {
		return cliConfig{}, fmt.Errorf("prefs invalid: %w", err)
	}
	return cfg, nil
}

func normalizePaths(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		v := strings.TrimSpace(p)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
