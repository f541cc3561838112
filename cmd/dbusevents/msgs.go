package dbusevents

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort      = "Run commands and signal processes when D-Bus signals arrive"
	MsgRulesShort     = "List the configured rules"
	MsgVersionShort   = "Print version information"
	MsgGenConfigShort = "Print a commented settings.toml"

	// Flags
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig      = "Rules file (default $XDG_CONFIG_HOME/dbuseventshandler/config.toml)"
	MsgFlagMode        = "watch prints signals, event runs the rules (watch|event)"
	MsgFlagBus         = "Bus to listen on (session|system)"
	MsgFlagDryRun      = "Log matched actions without performing them"
	MsgFlagMetricsAddr = "Serve Prometheus metrics on this address, e.g. 127.0.0.1:9464"
	MsgFlagColor       = "Colorize output (auto|always|never)"
	MsgFlagFormat      = "Output format (auto|text|json|yaml)"
	MsgFlagWrite       = "Write settings.toml next to the rules file instead of printing"

	// Status messages
	MsgListening        = "Listening to all D-Bus signals..."
	MsgRulesFileCreated = "Created empty rules file"
	MsgConfigEmpty      = "Config is empty, exiting."
	MsgVersionFormat    = "dbusevents version %s\n  commit: %s\n  built:  %s\n"
	MsgSettingsWritten  = "Wrote %s\n"
	MsgSettingsExists   = "%s already exists, left unchanged\n"
)

// MsgGenConfigExample shows gen-config usage
const MsgGenConfigExample = `  # Print the settings with their defaults
  dbusevents gen-config

  # Create settings.toml if it does not exist yet
  dbusevents gen-config --write`

// MsgRootLong is the long description of the root command
const MsgRootLong = `dbusevents listens to every signal on the session (or system) bus.

In watch mode, the default, each signal is printed with its path, member and
data, so you can find the values to match on.

In event mode each signal is checked against the rules in the rules file. A
rule matches on regular expressions over the path, member and data, and can
send SIGRTMIN+N to a running process and/or run a shell command:

  [bluetooth]
  path = "^/org/bluez/"
  member = "PropertiesChanged"
  signal = 13
  signal_process = "waybar"
  exec = "notify-send bluetooth"

Settings (bus, mode, shell, max_concurrent_actions, metrics_addr, color) are
read from settings.toml next to the rules file, then from DBUSEVENTS_*
environment variables, then from flags.`

// MsgUsageTemplate is the usage template for all commands
const MsgUsageTemplate = `{{boldUpper "Usage"}}:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if .HasAvailableSubCommands}}

{{boldUpper "Commands"}}:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{boldUpper "Flags"}}:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{boldUpper "Global Flags"}}:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
