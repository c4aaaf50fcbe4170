package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/fixdecode/internal/dictionary"
	"github.com/danmuck/fixdecode/internal/fix"
	"github.com/danmuck/fixdecode/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadServerConfigDefaults(t *testing.T) {
	testlog.Start(t)
	cfg, err := LoadServerConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultName, cfg.Name)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.EqualValues(t, DefaultMaxBodyBytes, cfg.MaxBodyBytes)
	assert.Equal(t, fix.DelimiterAuto, cfg.Decode.DefaultDelimiter())
}

func TestLoadServerConfigTemplate(t *testing.T) {
	testlog.Start(t)
	tmpl, err := Template("server")
	require.NoError(t, err)
	cfg, err := LoadServerConfig(writeConfig(t, tmpl))
	require.NoError(t, err)
	assert.Equal(t, "fixdecode", cfg.Name)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CorsOrigins)
	assert.Equal(t, []string{"127.0.0.1", "::1"}, cfg.TrustedProxies)
	assert.False(t, cfg.TLS.Enabled)
	assert.Equal(t, "empty", cfg.Decode.MalformedSegments)
	assert.Empty(t, cfg.Decode.QuickFIXSpecs)
}

func TestLoadServerConfigOverrides(t *testing.T) {
	testlog.Start(t)
	cfg, err := LoadServerConfig(writeConfig(t, `
name = "fix-inspector"
addr = "127.0.0.1:9044"

[decode]
delimiter = "pipe"
malformed_segments = "skip"
`))
	require.NoError(t, err)
	assert.Equal(t, "fix-inspector", cfg.Name)
	assert.Equal(t, "127.0.0.1:9044", cfg.Addr)
	assert.Equal(t, fix.DelimiterPipe, cfg.Decode.DefaultDelimiter())

	dec, err := cfg.Decode.BuildDecoder()
	require.NoError(t, err)
	assert.Equal(t, fix.MalformedSkip, dec.MalformedPolicy())
	assert.Same(t, dictionary.Builtin(), dec.Store())
}

func TestLoadServerConfigErrors(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"bad delimiter": "[decode]\ndelimiter = \"tab\"\n",
		"bad policy":    "[decode]\nmalformed_segments = \"explode\"\n",
		"empty spec":    "[decode]\nquickfix_specs = [\" \"]\n",
		"tls no files":  "[tls]\nenabled = true\n",
		"negative body": "max_body_bytes = -1\n",
		"not toml":      "name = \n",
	}
	for name, body := range cases {
		_, err := LoadServerConfig(writeConfig(t, body))
		assert.Error(t, err, name)
	}

	_, err := LoadServerConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "config load failed"))
}

func TestBuildDecoderMissingSpec(t *testing.T) {
	testlog.Start(t)
	cfg := DecodeConfig{QuickFIXSpecs: []string{filepath.Join(t.TempDir(), "FIX42.xml")}}
	_, err := cfg.BuildDecoder()
	require.ErrorIs(t, err, dictionary.ErrInvalidDataset)
}

func TestWriteTemplate(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "fixdecode.toml")
	require.NoError(t, WriteTemplate(path, "cli", false))
	require.Error(t, WriteTemplate(path, "cli", false))
	require.NoError(t, WriteTemplate(path, "server", true))

	_, err := Template("gateway")
	require.Error(t, err)
}
