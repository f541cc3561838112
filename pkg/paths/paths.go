package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dbusevents/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for dbusevents
	EnvConfigDir = "DBUSEVENTS_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// ConfigDirName is the directory name under XDG_CONFIG_HOME. It keeps
	// the historical name so existing rule files are picked up.
	ConfigDirName = "dbuseventshandler"

	// StateDirName is the directory name under XDG_STATE_HOME
	StateDirName = "dbusevents"

	// RulesFileName holds the rule tables
	RulesFileName = "config.toml"

	// SettingsFileName holds optional router settings
	SettingsFileName = "settings.toml"
)

// Paths provides centralized path management for dbusevents
type Paths interface {
	ConfigDir() string
	RulesFile() string
	SettingsFile() string
	StateDir() string
	EnsureRulesFile() (created bool, err error)
}

type paths struct {
	configDir string
	rulesFile string
	stateDir  string
}

// New creates a Paths instance. rulesFile overrides the default rules
// location; when it is empty the XDG config directory is used, honouring
// DBUSEVENTS_CONFIG_DIR.
func New(rulesFile string) (Paths, error) {
	xdg.Reload()

	p := &paths{}

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = expandHome(dir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, ConfigDirName)
	}

	if rulesFile != "" {
		abs, err := filepath.Abs(expandHome(rulesFile))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", rulesFile)
		}
		p.rulesFile = abs
		p.configDir = filepath.Dir(abs)
	} else {
		p.rulesFile = filepath.Join(p.configDir, RulesFileName)
	}

	p.stateDir = filepath.Join(xdg.StateHome, StateDirName)

	return p, nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}

// ConfigDir returns the directory holding the rules and settings files
func (p *paths) ConfigDir() string {
	return p.configDir
}

// RulesFile returns the path of the TOML rules file
func (p *paths) RulesFile() string {
	return p.rulesFile
}

// SettingsFile returns the path of the optional settings file
func (p *paths) SettingsFile() string {
	return filepath.Join(p.configDir, SettingsFileName)
}

// StateDir returns the XDG state directory for dbusevents
func (p *paths) StateDir() string {
	return p.stateDir
}

// EnsureRulesFile creates the config directory and an empty rules file if
// either is missing. A missing file is never an error.
func (p *paths) EnsureRulesFile() (bool, error) {
	if err := os.MkdirAll(p.configDir, 0755); err != nil {
		return false, errors.Wrapf(err, errors.ErrDirCreate, "failed to create config directory %s", p.configDir)
	}

	_, err := os.Stat(p.rulesFile)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", p.rulesFile)
	}

	f, err := os.OpenFile(p.rulesFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrFileCreate, "failed to create %s", p.rulesFile)
	}
	if err := f.Close(); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileCreate, "failed to close %s", p.rulesFile)
	}

	return true, nil
}
