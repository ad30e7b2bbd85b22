package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"interrupted", errInterrupted, exitInterrupted},
		{"wrapped interrupted", fmt.Errorf("convert: %w", errInterrupted), exitInterrupted},
		{"plain error", errors.New("boom"), exitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

// withConfigPath temporarily sets the --config value for a test.
func withConfigPath(t *testing.T, path string) {
	t.Helper()
	old := configPath
	configPath = path
	t.Cleanup(func() { configPath = old })
}

func TestLoadConfig_ExplicitMissingFileErrors(t *testing.T) {
	withConfigPath(t, filepath.Join(t.TempDir(), "nope.toml"))

	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.toml")
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remaster.toml")
	require.NoError(t, os.WriteFile(path, []byte("[convert]\ncodec = \"opus\"\n"), 0o644))
	withConfigPath(t, path)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "opus", cfg.Convert.Codec)
}

func TestLoadConfig_DefaultPathMayBeMissing(t *testing.T) {
	withConfigPath(t, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "copy", cfg.Convert.Codec)
}
