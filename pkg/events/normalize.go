// Package events turns raw bus messages into the flat records rules are
// matched against.
package events

import (
	"strings"

	"github.com/arthur-debert/dbusevents/pkg/bus"
	"github.com/arthur-debert/dbusevents/pkg/errors"
	"github.com/arthur-debert/dbusevents/pkg/variant"
)

// FieldSeparator joins the rendered body fields
const FieldSeparator = ",\n"

// Signal is a normalized signal-class message. Path, Member and Data are
// matched by rules; Interface and Sender are informational.
type Signal struct {
	Path      string
	Member    string
	Data      string
	Interface string
	Sender    string
}

// Normalize converts msg into a Signal. ok is false for anything that is
// not a signal; such messages are to be dropped without further work.
// A signal without a path or member violates the bus protocol and yields
// an ErrMessageShape error.
func Normalize(msg *bus.Message) (sig Signal, ok bool, err error) {
	if msg == nil || msg.Type != bus.TypeSignal {
		return Signal{}, false, nil
	}

	if msg.Path == "" {
		return Signal{}, false, errors.New(errors.ErrMessageShape, "signal message without object path").
			WithDetail("sender", msg.Sender).
			WithDetail("member", msg.Member)
	}
	if msg.Member == "" {
		return Signal{}, false, errors.New(errors.ErrMessageShape, "signal message without member").
			WithDetail("sender", msg.Sender).
			WithDetail("path", msg.Path)
	}

	return Signal{
		Path:      msg.Path,
		Member:    msg.Member,
		Data:      RenderBody(msg.Body),
		Interface: msg.Interface,
		Sender:    msg.Sender,
	}, true, nil
}

// RenderBody renders each body field as pretty JSON joined by
// FieldSeparator. An absent body, an empty one, or one that fails to
// decode renders as "".
func RenderBody(body bus.RawBody) string {
	if body == nil {
		return ""
	}

	fields, err := body.Decode()
	if err != nil || len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = variant.Render(f)
	}
	return strings.Join(parts, FieldSeparator)
}
