package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dbusevents/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings("", nil)
	require.NoError(t, err)

	assert.Equal(t, BusSession, s.Bus)
	assert.Equal(t, ModeWatch, s.Mode)
	assert.Equal(t, "sh", s.Shell)
	assert.Equal(t, 0, s.MaxConcurrentActions)
	assert.Equal(t, "", s.MetricsAddr)
	assert.Equal(t, ColorAuto, s.Color)
}

func TestLoadSettings_Layering(t *testing.T) {
	dir := t.TempDir()
	settingsFile := filepath.Join(dir, "settings.toml")
	require.NoError(t, os.WriteFile(settingsFile, []byte(`
bus = "system"
mode = "event"
shell = "bash"
max_concurrent_actions = 4
`), 0644))

	t.Run("file overrides defaults", func(t *testing.T) {
		s, err := LoadSettings(settingsFile, nil)
		require.NoError(t, err)
		assert.Equal(t, BusSystem, s.Bus)
		assert.Equal(t, ModeEvent, s.Mode)
		assert.Equal(t, "bash", s.Shell)
		assert.Equal(t, 4, s.MaxConcurrentActions)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("DBUSEVENTS_SHELL", "zsh")
		t.Setenv("DBUSEVENTS_MAX_CONCURRENT_ACTIONS", "8")

		s, err := LoadSettings(settingsFile, nil)
		require.NoError(t, err)
		assert.Equal(t, "zsh", s.Shell)
		assert.Equal(t, 8, s.MaxConcurrentActions)
		assert.Equal(t, BusSystem, s.Bus)
	})

	t.Run("overrides win", func(t *testing.T) {
		t.Setenv("DBUSEVENTS_MODE", "event")

		s, err := LoadSettings(settingsFile, map[string]interface{}{
			"mode": "watch",
			"bus":  "session",
		})
		require.NoError(t, err)
		assert.Equal(t, ModeWatch, s.Mode)
		assert.Equal(t, BusSession, s.Bus)
	})
}

func TestLoadSettings_MissingFileIsFine(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.toml"), nil)
	require.NoError(t, err)
	assert.Equal(t, BusSession, s.Bus)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]interface{}
		field     string
	}{
		{"bad bus", map[string]interface{}{"bus": "tcp"}, "bus"},
		{"bad mode", map[string]interface{}{"mode": "replay"}, "mode"},
		{"bad color", map[string]interface{}{"color": "rainbow"}, "color"},
		{"empty shell", map[string]interface{}{"shell": " "}, "shell"},
		{"negative bound", map[string]interface{}{"max_concurrent_actions": -1}, "max_concurrent_actions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSettings("", tt.overrides)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
			assert.Equal(t, tt.field, errors.GetErrorDetails(err)["field"])
		})
	}
}

func TestLoadSettings_BadFile(t *testing.T) {
	settingsFile := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(settingsFile, []byte("bus = "), 0644))

	_, err := LoadSettings(settingsFile, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestSettingsValidateNormalizesCase(t *testing.T) {
	s := &Settings{Bus: " System ", Mode: "EVENT", Color: "Never", Shell: "sh"}
	require.NoError(t, s.Validate())
	assert.Equal(t, BusSystem, s.Bus)
	assert.Equal(t, ModeEvent, s.Mode)
	assert.Equal(t, ColorNever, s.Color)
}

func TestGetDefaultSettingsContent(t *testing.T) {
	assert.Contains(t, GetDefaultSettingsContent(), `bus = "session"`)
}
