package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentOutConfigValues(t *testing.T) {
	in := "# header\n\nbus = \"session\"\n[section]\n  mode = \"watch\"\n"
	want := "# header\n\n# bus = \"session\"\n[section]\n#   mode = \"watch\"\n"
	assert.Equal(t, want, commentOutConfigValues(in))
}

func TestGenerateSettingsContent(t *testing.T) {
	content := GenerateSettingsContent()
	assert.Contains(t, content, `# bus = "session"`)

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			assert.True(t, strings.HasPrefix(trimmed, "#"), "uncommented line %q", line)
		}
	}

	// Generated content loads to the defaults
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	s, err := LoadSettings(path, nil)
	require.NoError(t, err)
	assert.Equal(t, BusSession, s.Bus)
	assert.Equal(t, ModeWatch, s.Mode)
}

func TestWriteSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")

	written, err := WriteSettingsFile(path)
	require.NoError(t, err)
	assert.True(t, written)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, GenerateSettingsContent(), string(got))

	require.NoError(t, os.WriteFile(path, []byte("bus = \"system\"\n"), 0644))
	written, err = WriteSettingsFile(path)
	require.NoError(t, err)
	assert.False(t, written)

	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bus = \"system\"\n", string(got))
}
