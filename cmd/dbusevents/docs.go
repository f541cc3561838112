package dbusevents

import (
	"io"

	"github.com/arthur-debert/dbusevents/internal/version"
	"github.com/arthur-debert/dbusevents/pkg/errors"
	"github.com/spf13/cobra/doc"
)

// CompletionShells lists the shells GenCompletion supports
var CompletionShells = []string{"bash", "zsh", "fish", "powershell"}

// GenCompletion writes the completion script of the root command for shell
func GenCompletion(w io.Writer, shell string) error {
	rootCmd := NewRootCmd()

	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletionV2(w, true)
	case "zsh":
		err = rootCmd.GenZshCompletion(w)
	case "fish":
		err = rootCmd.GenFishCompletion(w, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(w)
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown shell %q", shell).
			WithDetail("supported", CompletionShells)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to generate %s completion", shell)
	}
	return nil
}

// GenManPage writes the section 1 man page of the root command
func GenManPage(w io.Writer) error {
	header := &doc.GenManHeader{
		Title:   "DBUSEVENTS",
		Section: "1",
		Source:  "dbusevents " + version.Version,
		Manual:  "dbusevents manual",
	}

	if err := doc.GenMan(NewRootCmd(), header, w); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to generate man page")
	}
	return nil
}
