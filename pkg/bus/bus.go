// Package bus is the boundary to the message bus. It exposes a pull-style,
// ordered stream of messages behind the Connection interface; the godbus
// implementation lives in dbus.go and an in-memory one in bustest.
package bus

import (
	"context"
	"fmt"

	"github.com/arthur-debert/dbusevents/pkg/variant"
)

// MessageType is the class of a bus message
type MessageType uint8

const (
	TypeInvalid MessageType = iota
	TypeMethodCall
	TypeMethodReturn
	TypeError
	TypeSignal
)

func (t MessageType) String() string {
	switch t {
	case TypeMethodCall:
		return "method_call"
	case TypeMethodReturn:
		return "method_return"
	case TypeError:
		return "error"
	case TypeSignal:
		return "signal"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(t))
	}
}

// RawBody is a message body as delivered by the transport, decoded on
// demand into generic values. Decode must be free of side effects and
// return the same result on every call.
type RawBody interface {
	Decode() ([]variant.Value, error)
}

// Message is one incoming bus message. Empty Path or Member mean the
// header field was absent.
type Message struct {
	Type      MessageType
	Sequence  uint64
	Sender    string
	Path      string
	Interface string
	Member    string
	Body      RawBody
}

// Connection is a subscribed session on a bus.
type Connection interface {
	// Subscribe asks the bus to route every signal-class message to us.
	Subscribe(ctx context.Context) error

	// Next blocks until the next message arrives. It returns io.EOF once
	// the connection is closed and no further messages will arrive.
	Next(ctx context.Context) (*Message, error)

	// Close releases the connection.
	Close() error
}

// Values is a RawBody that is already decoded
type Values []variant.Value

// Decode implements RawBody
func (v Values) Decode() ([]variant.Value, error) { return v, nil }
