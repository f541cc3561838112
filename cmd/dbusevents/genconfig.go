package dbusevents

import (
	"fmt"

	"github.com/arthur-debert/dbusevents/pkg/config"
	"github.com/arthur-debert/dbusevents/pkg/logging"
	"github.com/arthur-debert/dbusevents/pkg/paths"
	"github.com/spf13/cobra"
)

func newGenConfigCmd(f *runFlags) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		Example: MsgGenConfigExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.GenerateSettingsContent())
				return err
			}

			p, err := paths.New(f.configFile)
			if err != nil {
				return err
			}

			written, err := config.WriteSettingsFile(p.SettingsFile())
			if err != nil {
				return err
			}

			logger := logging.GetLogger("cmd.genconfig")
			logger.Debug().
				Str("path", p.SettingsFile()).
				Bool("written", written).
				Msg("Generated settings")

			msg := MsgSettingsWritten
			if !written {
				msg = MsgSettingsExists
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), msg, p.SettingsFile())
			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}
