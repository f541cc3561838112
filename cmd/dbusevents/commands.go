package dbusevents

import (
	"fmt"
	"os"

	"github.com/arthur-debert/dbusevents/internal/version"
	"github.com/arthur-debert/dbusevents/pkg/bus"
	"github.com/arthur-debert/dbusevents/pkg/config"
	"github.com/arthur-debert/dbusevents/pkg/dispatcher"
	"github.com/arthur-debert/dbusevents/pkg/errors"
	"github.com/arthur-debert/dbusevents/pkg/logging"
	"github.com/arthur-debert/dbusevents/pkg/paths"
	"github.com/arthur-debert/dbusevents/pkg/proc"
	"github.com/arthur-debert/dbusevents/pkg/rules"
	"github.com/arthur-debert/dbusevents/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Deps are the outside-world collaborators of the CLI
type Deps struct {
	Dial      func(kind string) (bus.Connection, error)
	Processes proc.Directory
	Signaler  proc.Signaler
	Runner    dispatcher.Runner
}

// DefaultDeps talks to the real bus, process table and shell
func DefaultDeps() Deps {
	return Deps{
		Dial:      bus.Dial,
		Processes: proc.NewTable(),
		Signaler:  proc.Kill{},
		Runner:    dispatcher.ShellRunner{},
	}
}

// runFlags are the flags of the root command
type runFlags struct {
	verbosity   int
	configFile  string
	mode        string
	bus         string
	dryRun      bool
	metricsAddr string
	color       string
}

// overrides returns the settings named by flags the user actually set
func (f *runFlags) overrides(cmd *cobra.Command) map[string]interface{} {
	out := map[string]interface{}{}
	set := func(flag, key string, value interface{}) {
		if cmd.Flags().Changed(flag) {
			out[key] = value
		}
	}
	set("mode", "mode", f.mode)
	set("bus", "bus", f.bus)
	set("metrics-addr", "metrics_addr", f.metricsAddr)
	set("color", "color", f.color)
	return out
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(DefaultDeps())
}

// NewRootCmdWithDeps creates the root command over deps
func NewRootCmdWithDeps(deps Deps) *cobra.Command {
	initTemplateFormatting()

	f := &runFlags{}

	rootCmd := &cobra.Command{
		Use:     "dbusevents",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(f.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, deps, f)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&f.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&f.configFile, "config", "c", "", MsgFlagConfig)

	rootCmd.Flags().StringVarP(&f.mode, "mode", "m", config.ModeWatch, MsgFlagMode)
	rootCmd.Flags().StringVar(&f.bus, "bus", config.BusSession, MsgFlagBus)
	rootCmd.Flags().BoolVar(&f.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", MsgFlagMetricsAddr)
	rootCmd.Flags().StringVar(&f.color, "color", config.ColorAuto, MsgFlagColor)

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newRulesCmd(f))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenConfigCmd(f))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
			return err
		},
	}
}

func newRulesCmd(f *runFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: MsgRulesShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.rules")

			out, err := ui.ParseFormat(format)
			if err != nil {
				return err
			}
			if out == ui.FormatAuto {
				out = ui.FormatText
				if file, ok := cmd.OutOrStdout().(*os.File); ok {
					out = ui.DetectFormat(file)
				}
			}

			p, err := paths.New(f.configFile)
			if err != nil {
				return err
			}

			var list []*rules.Rule
			if _, err := os.Stat(p.RulesFile()); err == nil {
				decls, _, err := config.LoadRuleDecls(p.RulesFile())
				if err != nil {
					return err
				}
				set, err := rules.Compile(decls)
				if err != nil {
					return err
				}
				list = set.Rules()
			} else if !os.IsNotExist(err) {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", p.RulesFile())
			}

			logger.Debug().Str("path", p.RulesFile()).Int("count", len(list)).Msg("Listing rules")
			return ui.RenderRules(cmd.OutOrStdout(), out, list)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "auto", MsgFlagFormat)
	return cmd
}
