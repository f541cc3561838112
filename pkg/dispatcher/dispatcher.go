// Package dispatcher performs the actions of matched rules: signalling a
// named process inline and launching shell commands in the background.
package dispatcher

import (
	"context"
	"sync"
	"time"

	"github.com/arthur-debert/dbusevents/pkg/errors"
	"github.com/arthur-debert/dbusevents/pkg/events"
	"github.com/arthur-debert/dbusevents/pkg/logging"
	"github.com/arthur-debert/dbusevents/pkg/metrics"
	"github.com/arthur-debert/dbusevents/pkg/proc"
	"github.com/arthur-debert/dbusevents/pkg/rules"
	"github.com/rs/zerolog"
)

// DefaultShell runs exec actions when no shell is configured
const DefaultShell = "sh"

// Options tune a Dispatcher
type Options struct {
	// Shell is invoked as `<Shell> -c <exec>`
	Shell string

	// MaxConcurrent caps running exec actions. Zero means no cap.
	MaxConcurrent int

	// DryRun logs actions without performing them
	DryRun bool

	Metrics *metrics.Metrics
}

// Dispatcher runs rule actions. Dispatch never blocks on a spawned command
// and never returns an error: every failure is logged and counted.
type Dispatcher struct {
	procs    proc.Directory
	signaler proc.Signaler
	runner   Runner
	opts     Options
	slots    chan struct{}
	wg       sync.WaitGroup
	logger   zerolog.Logger
}

// New creates a dispatcher
func New(procs proc.Directory, signaler proc.Signaler, runner Runner, opts Options) *Dispatcher {
	if opts.Shell == "" {
		opts.Shell = DefaultShell
	}

	d := &Dispatcher{
		procs:    procs,
		signaler: signaler,
		runner:   runner,
		opts:     opts,
		logger:   logging.GetLogger("dispatcher"),
	}
	if opts.MaxConcurrent > 0 {
		d.slots = make(chan struct{}, opts.MaxConcurrent)
	}
	return d
}

// Dispatch performs the actions of rule for sig: the signal first, then the
// command.
func (d *Dispatcher) Dispatch(rule *rules.Rule, sig events.Signal) {
	if rule.Signal != nil {
		d.sendSignal(rule, rule.Signal)
	}
	if rule.Exec != nil {
		d.startExec(rule, rule.Exec, sig)
	}
}

// Wait blocks until every launched command has exited
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) sendSignal(rule *rules.Rule, action *rules.SignalAction) {
	logger := d.logger.With().
		Str("rule", rule.Name).
		Str("process", action.Process).
		Int("signal", action.Offset).
		Logger()

	if d.opts.DryRun {
		logger.Info().Msg("Dry run mode - process would be signalled")
		d.opts.Metrics.RecordAction(metrics.KindSignal, metrics.OutcomeDryRun)
		return
	}

	pid, found, err := d.procs.Lookup(action.Process)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to look up process")
		d.opts.Metrics.RecordAction(metrics.KindSignal, metrics.OutcomeFailed)
		return
	}
	if !found {
		err := errors.Newf(errors.ErrProcessNotFound, "%s not active", action.Process)
		logger.Warn().Err(err).Msg("Signal target is not running")
		d.opts.Metrics.RecordAction(metrics.KindSignal, metrics.OutcomeNotFound)
		return
	}

	if err := d.signaler.SignalRealtime(pid, action.Offset); err != nil {
		logger.Error().Err(err).Int("pid", pid).Msg("Failed to signal process")
		d.opts.Metrics.RecordAction(metrics.KindSignal, metrics.OutcomeFailed)
		return
	}

	logger.Info().Int("pid", pid).Msg("Signalled process")
	d.opts.Metrics.RecordAction(metrics.KindSignal, metrics.OutcomeOK)
}

func (d *Dispatcher) startExec(rule *rules.Rule, action *rules.ExecAction, sig events.Signal) {
	cmd := Command{
		Shell:  d.opts.Shell,
		Script: action.Command,
		Env:    Environment(rule.Name, sig),
	}
	logger := d.logger.With().
		Str("rule", rule.Name).
		Str("command", action.Command).
		Logger()

	if d.opts.DryRun {
		logger.Info().Msg("Dry run mode - command would be executed")
		d.opts.Metrics.RecordAction(metrics.KindExec, metrics.OutcomeDryRun)
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		if d.slots != nil {
			d.slots <- struct{}{}
			defer func() { <-d.slots }()
		}

		d.opts.Metrics.ExecStarted()
		defer d.opts.Metrics.ExecFinished()

		logger.Debug().Msg("Executing command")
		start := time.Now()
		code, err := d.runner.Run(context.Background(), cmd)
		elapsed := time.Since(start)

		switch {
		case err != nil:
			logger.Error().Err(err).Dur("duration", elapsed).Msg("Command could not be run")
			d.opts.Metrics.RecordAction(metrics.KindExec, metrics.OutcomeFailed)
		case code != 0:
			logger.Warn().Int("exit_code", code).Dur("duration", elapsed).Msg("Command exited")
			d.opts.Metrics.RecordAction(metrics.KindExec, metrics.OutcomeFailed)
		default:
			logger.Info().Int("exit_code", code).Dur("duration", elapsed).Msg("Command exited")
			d.opts.Metrics.RecordAction(metrics.KindExec, metrics.OutcomeOK)
		}
	}()
}
