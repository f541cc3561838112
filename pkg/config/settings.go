package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/dbusevents/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read into Settings
const EnvPrefix = "DBUSEVENTS_"

// Bus kinds
const (
	BusSession = "session"
	BusSystem  = "system"
)

// Router modes
const (
	ModeWatch = "watch"
	ModeEvent = "event"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Settings holds the router settings. Rules live in a separate file.
type Settings struct {
	Bus                  string `koanf:"bus"`
	Mode                 string `koanf:"mode"`
	Shell                string `koanf:"shell"`
	MaxConcurrentActions int    `koanf:"max_concurrent_actions"`
	MetricsAddr          string `koanf:"metrics_addr"`
	Color                string `koanf:"color"`
}

// LoadSettings layers the embedded defaults, the optional settings file,
// DBUSEVENTS_* environment variables and finally overrides (usually CLI
// flags that were explicitly set).
func LoadSettings(settingsFile string, overrides map[string]interface{}) (*Settings, error) {
	k := koanf.New(".")

	// 1. Load system defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load default settings")
	}

	// 2. Load the settings file if it exists
	if settingsFile != "" {
		if _, err := os.Stat(settingsFile); err == nil {
			if err := k.Load(file.Provider(settingsFile), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", settingsFile)
			}
		}
	}

	// 3. Load env vars
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Explicit overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	// 5. Unmarshal
	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal settings")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// Validate checks enumerated settings and bounds
func (s *Settings) Validate() error {
	s.Bus = strings.ToLower(strings.TrimSpace(s.Bus))
	s.Mode = strings.ToLower(strings.TrimSpace(s.Mode))
	s.Color = strings.ToLower(strings.TrimSpace(s.Color))

	switch s.Bus {
	case BusSession, BusSystem:
	default:
		return errors.Newf(errors.ErrConfigValid, "unknown bus %q (want %s or %s)", s.Bus, BusSession, BusSystem).
			WithDetail("field", "bus")
	}

	switch s.Mode {
	case ModeWatch, ModeEvent:
	default:
		return errors.Newf(errors.ErrConfigValid, "unknown mode %q (want %s or %s)", s.Mode, ModeWatch, ModeEvent).
			WithDetail("field", "mode")
	}

	switch s.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Newf(errors.ErrConfigValid, "unknown color mode %q", s.Color).
			WithDetail("field", "color")
	}

	if strings.TrimSpace(s.Shell) == "" {
		return errors.New(errors.ErrConfigValid, "shell must not be empty").
			WithDetail("field", "shell")
	}

	if s.MaxConcurrentActions < 0 {
		return errors.Newf(errors.ErrConfigValid, "max_concurrent_actions must be >= 0, got %d", s.MaxConcurrentActions).
			WithDetail("field", "max_concurrent_actions")
	}

	return nil
}
