package bus

import (
	"context"
	"io"
	"strings"

	"github.com/arthur-debert/dbusevents/pkg/errors"
	"github.com/arthur-debert/dbusevents/pkg/logging"
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

// Bus kinds accepted by Dial
const (
	Session = "session"
	System  = "system"
)

// signalBuffer sizes the channel godbus delivers into
const signalBuffer = 64

// signalHandler returns the handler every connection is dialed with. It
// queues behind a full channel and keeps arrival order.
func signalHandler() dbus.SignalHandler {
	return dbus.NewSequentialSignalHandler()
}

type dbusConn struct {
	conn    *dbus.Conn
	signals chan *dbus.Signal
	kind    string
	logger  zerolog.Logger
}

// Dial connects to the session or system bus.
func Dial(kind string) (Connection, error) {
	logger := logging.GetLogger("bus")

	var (
		conn *dbus.Conn
		err  error
	)
	opts := []dbus.ConnOption{dbus.WithSignalHandler(signalHandler())}
	switch kind {
	case System:
		conn, err = dbus.ConnectSystemBus(opts...)
	case Session, "":
		kind = Session
		conn, err = dbus.ConnectSessionBus(opts...)
	default:
		return nil, errors.Newf(errors.ErrBusConnect, "unknown bus %q", kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrBusConnect, "failed to connect to %s bus", kind).
			WithDetail("bus", kind)
	}

	c := &dbusConn{
		conn:    conn,
		signals: make(chan *dbus.Signal, signalBuffer),
		kind:    kind,
		logger:  logger,
	}
	conn.Signal(c.signals)

	logger.Debug().Str("bus", kind).Msg("Connected")
	return c, nil
}

// Subscribe adds a type='signal' match rule on the bus daemon
func (c *dbusConn) Subscribe(ctx context.Context) error {
	if err := c.conn.AddMatchSignalContext(ctx); err != nil {
		return errors.Wrapf(err, errors.ErrBusSubscribe, "failed to subscribe to signals on %s bus", c.kind)
	}
	c.logger.Debug().Str("bus", c.kind).Msg("Subscribed to all signals")
	return nil
}

// Next returns the next signal. godbus closes the channel when the
// connection terminates.
func (c *dbusConn) Next(ctx context.Context) (*Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case sig, ok := <-c.signals:
		if !ok {
			return nil, io.EOF
		}
		return fromSignal(sig), nil
	}
}

func (c *dbusConn) Close() error {
	return c.conn.Close()
}

func fromSignal(sig *dbus.Signal) *Message {
	iface, member := splitName(sig.Name)
	msg := &Message{
		Type:      TypeSignal,
		Sequence:  uint64(sig.Sequence),
		Sender:    sig.Sender,
		Path:      string(sig.Path),
		Interface: iface,
		Member:    member,
	}
	if len(sig.Body) > 0 {
		msg.Body = goBody(sig.Body)
	}
	return msg
}

// splitName splits godbus' "interface.Member" signal name
func splitName(name string) (iface, member string) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+1:]
}
