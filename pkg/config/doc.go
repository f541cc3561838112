// Package config loads the two configuration inputs of dbusevents.
//
// The rules file ($XDG_CONFIG_HOME/dbuseventshandler/config.toml) holds one
// TOML table per rule. Declarations are returned in document order because
// the first declared rule dispatches first when several rules match.
//
// Router settings are layered with koanf: embedded defaults, the optional
// settings.toml next to the rules file, DBUSEVENTS_* environment variables,
// then explicit overrides from the command line.
package config
