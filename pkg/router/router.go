// Package router runs the event loop: it subscribes to every signal on a bus
// connection and processes messages one at a time, in arrival order.
//
// In event mode each signal is matched against the rule set and the actions
// of every matching rule are dispatched, in rule order, before the next
// message is pulled. In watch mode each signal is printed and nothing is
// dispatched.
//
// The loop ends when the context is cancelled (a clean stop), or on a fatal
// error: a failed subscription, the end of the message stream, a failed pull
// or a signal without a path or member.
package router

import (
	"context"
	stderrors "errors"
	"io"
	"sync/atomic"

	"github.com/arthur-debert/dbusevents/pkg/bus"
	"github.com/arthur-debert/dbusevents/pkg/config"
	"github.com/arthur-debert/dbusevents/pkg/errors"
	"github.com/arthur-debert/dbusevents/pkg/events"
	"github.com/arthur-debert/dbusevents/pkg/logging"
	"github.com/arthur-debert/dbusevents/pkg/metrics"
	"github.com/arthur-debert/dbusevents/pkg/rules"
	"github.com/rs/zerolog"
)

// State is the lifecycle state of a Router
type State int32

const (
	Idle State = iota
	Listening
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Listening:
		return "listening"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Dispatcher performs the actions of a matched rule
type Dispatcher interface {
	Dispatch(rule *rules.Rule, sig events.Signal)
}

// Printer shows signals in watch mode
type Printer interface {
	PrintSignal(sig events.Signal) error
}

// Options configure a Router
type Options struct {
	// Mode is config.ModeEvent or config.ModeWatch
	Mode string

	// Rules and Dispatcher are required in event mode
	Rules      *rules.RuleSet
	Dispatcher Dispatcher

	// Printer is required in watch mode
	Printer Printer

	Metrics *metrics.Metrics

	// Ready, when set, is called once the subscription is in place and
	// before the first message is pulled
	Ready func()
}

// Router owns the consumption loop for one connection
type Router struct {
	conn   bus.Connection
	opts   Options
	state  atomic.Int32
	logger zerolog.Logger
}

// New creates a Router in the Idle state
func New(conn bus.Connection, opts Options) *Router {
	return &Router{
		conn:   conn,
		opts:   opts,
		logger: logging.GetLogger("router"),
	}
}

// State returns the current lifecycle state
func (r *Router) State() State {
	return State(r.state.Load())
}

// Run subscribes and processes messages until ctx is cancelled or a fatal
// error occurs. A cancelled context returns nil. Run can only be called once.
func (r *Router) Run(ctx context.Context) error {
	if err := r.validate(); err != nil {
		return err
	}
	if !r.state.CompareAndSwap(int32(Idle), int32(Listening)) {
		return errors.New(errors.ErrInternal, "router has already run")
	}
	defer r.state.Store(int32(Terminated))

	if err := r.conn.Subscribe(ctx); err != nil {
		return coded(err, errors.ErrBusSubscribe, "failed to subscribe to signals")
	}

	r.logger.Info().Str("mode", r.opts.Mode).Msg("Listening to all D-Bus signals")
	if r.opts.Ready != nil {
		r.opts.Ready()
	}

	for {
		msg, err := r.conn.Next(ctx)
		if ctx.Err() != nil {
			r.logger.Info().Msg("Stopping")
			return nil
		}
		if stderrors.Is(err, io.EOF) {
			return errors.New(errors.ErrBusStream, "message stream ended")
		}
		if err != nil {
			return coded(err, errors.ErrBusStream, "failed to read message")
		}

		if err := r.process(msg); err != nil {
			return err
		}
	}
}

func (r *Router) validate() error {
	switch r.opts.Mode {
	case config.ModeEvent:
		if r.opts.Rules == nil || r.opts.Dispatcher == nil {
			return errors.New(errors.ErrInternal, "event mode requires rules and a dispatcher")
		}
	case config.ModeWatch:
		if r.opts.Printer == nil {
			return errors.New(errors.ErrInternal, "watch mode requires a printer")
		}
	default:
		return errors.Newf(errors.ErrConfigValid, "unknown mode %q", r.opts.Mode).
			WithDetail("field", "mode")
	}
	return nil
}

func (r *Router) process(msg *bus.Message) error {
	if msg != nil {
		r.opts.Metrics.RecordMessage(msg.Type.String())
	}

	sig, ok, err := events.Normalize(msg)
	if err != nil {
		return err
	}
	if !ok {
		r.opts.Metrics.RecordDropped()
		return nil
	}

	r.logger.Trace().
		Str("path", sig.Path).
		Str("member", sig.Member).
		Str("interface", sig.Interface).
		Str("sender", sig.Sender).
		Msg("Signal")

	if r.opts.Mode == config.ModeWatch {
		if err := r.opts.Printer.PrintSignal(sig); err != nil {
			r.logger.Warn().Err(err).Msg("Failed to print signal")
		}
		return nil
	}

	for _, rule := range r.opts.Rules.Match(sig) {
		r.opts.Metrics.RecordMatch(rule.Name)
		logMatch(r.logger, rule, sig)
		r.opts.Dispatcher.Dispatch(rule, sig)
	}
	return nil
}

// logMatch writes the one info line per matched rule, naming its actions
func logMatch(logger zerolog.Logger, rule *rules.Rule, sig events.Signal) {
	ev := logger.Info().
		Str("rule", rule.Name).
		Str("path", sig.Path).
		Str("member", sig.Member)
	if rule.Signal != nil {
		ev = ev.Int("signal", rule.Signal.Offset).Str("process", rule.Signal.Process)
	}
	if rule.Exec != nil {
		ev = ev.Str("exec", rule.Exec.Command)
	}
	if !rule.HasAction() {
		ev = ev.Bool("noAction", true)
	}
	ev.Msg("Rule matched")
}

// coded keeps an existing error code, wrapping uncoded errors with code
func coded(err error, code errors.ErrorCode, msg string) error {
	if errors.GetErrorCode(err) != errors.ErrUnknown {
		return err
	}
	return errors.Wrap(err, code, msg)
}
