package dispatcher

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"

	"github.com/arthur-debert/dbusevents/pkg/errors"
	"github.com/arthur-debert/dbusevents/pkg/events"
)

// Command is one exec action ready to run
type Command struct {
	Shell  string
	Script string
	// Env is appended to the inherited environment
	Env []string
}

// Runner runs a command to completion and reports its exit code. A non-zero
// exit is not an error; err is reserved for commands that could not run.
type Runner interface {
	Run(ctx context.Context, cmd Command) (exitCode int, err error)
}

// RunnerFunc adapts a function to Runner
type RunnerFunc func(ctx context.Context, cmd Command) (int, error)

func (f RunnerFunc) Run(ctx context.Context, cmd Command) (int, error) {
	return f(ctx, cmd)
}

// ShellRunner runs commands as child processes sharing our stdout and stderr
type ShellRunner struct{}

func (ShellRunner) Run(ctx context.Context, c Command) (int, error) {
	cmd := exec.CommandContext(ctx, c.Shell, "-c", c.Script)
	cmd.Env = append(os.Environ(), c.Env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, errors.Wrapf(err, errors.ErrActionExecute, "failed to run %s -c %q", c.Shell, c.Script)
}

// Environment describes the triggering signal to an exec action
func Environment(rule string, sig events.Signal) []string {
	return []string{
		"DBUSEVENTS_RULE=" + rule,
		"DBUSEVENTS_PATH=" + sig.Path,
		"DBUSEVENTS_MEMBER=" + sig.Member,
		"DBUSEVENTS_INTERFACE=" + sig.Interface,
		"DBUSEVENTS_SENDER=" + sig.Sender,
		"DBUSEVENTS_DATA=" + sig.Data,
	}
}
