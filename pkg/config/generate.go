package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dbusevents/pkg/errors"
)

// GenerateSettingsContent returns the built-in settings with every value
// commented out, ready to be edited into a settings.toml
func GenerateSettingsContent() string {
	return commentOutConfigValues(GetDefaultSettingsContent())
}

// WriteSettingsFile writes the generated settings to path. An existing file
// is left alone and reported with written=false.
func WriteSettingsFile(path string) (written bool, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(path))
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if os.IsExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileCreate, "failed to create %s", path)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(GenerateSettingsContent()); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileCreate, "failed to write %s", path)
	}
	return true, nil
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Keep blank lines and comments as-is
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
