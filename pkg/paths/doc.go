// Package paths provides centralized path handling for dbusevents.
//
// Locations follow the XDG Base Directory layout:
//
//   - Config: $XDG_CONFIG_HOME/dbuseventshandler (config.toml rules, settings.toml)
//   - State: $XDG_STATE_HOME/dbusevents
//
// # Environment Variables
//
//   - DBUSEVENTS_CONFIG_DIR: Override the config directory
//
// An explicit rules file (the --config flag) moves the config directory to
// the directory containing that file, so settings.toml is looked up next to
// it.
//
// # Usage
//
//	p, err := paths.New("")
//	if err != nil {
//	    return err
//	}
//
//	created, err := p.EnsureRulesFile()  // empty config.toml on first run
//	rules := p.RulesFile()               // ~/.config/dbuseventshandler/config.toml
package paths
