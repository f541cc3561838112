// Package bustest provides an in-memory bus.Connection for tests.
package bustest

import (
	"context"
	"io"
	"sync"

	"github.com/arthur-debert/dbusevents/pkg/bus"
	"github.com/arthur-debert/dbusevents/pkg/variant"
)

// Conn replays queued messages in order. Once the queue is drained Next
// returns io.EOF, or blocks when KeepOpen was called until Close.
type Conn struct {
	mu           sync.Mutex
	queue        []*bus.Message
	subscribed   int
	subscribeErr error
	nextErr      error
	keepOpen     bool
	closed       bool
	wake         chan struct{}
	pulled       int
}

// New returns a connection that will deliver msgs in order
func New(msgs ...*bus.Message) *Conn {
	return &Conn{queue: msgs, wake: make(chan struct{}, 1)}
}

// FailSubscribe makes Subscribe return err
func (c *Conn) FailSubscribe(err error) *Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribeErr = err
	return c
}

// FailAfterQueue makes Next return err, instead of io.EOF, once the queue
// is drained
func (c *Conn) FailAfterQueue(err error) *Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextErr = err
	return c
}

// KeepOpen makes Next block on an empty queue instead of returning io.EOF
func (c *Conn) KeepOpen() *Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keepOpen = true
	return c
}

// Push appends a message and wakes a blocked Next
func (c *Conn) Push(msg *bus.Message) {
	c.mu.Lock()
	c.queue = append(c.queue, msg)
	c.mu.Unlock()
	c.signal()
}

func (c *Conn) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Subscribe implements bus.Connection
func (c *Conn) Subscribe(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribed++
	return c.subscribeErr
}

// Next implements bus.Connection
func (c *Conn) Next(ctx context.Context) (*bus.Message, error) {
	for {
		c.mu.Lock()
		if len(c.queue) > 0 {
			msg := c.queue[0]
			c.queue = c.queue[1:]
			c.pulled++
			c.mu.Unlock()
			return msg, nil
		}
		if c.nextErr != nil {
			err := c.nextErr
			c.mu.Unlock()
			return nil, err
		}
		if c.closed || !c.keepOpen {
			c.mu.Unlock()
			return nil, io.EOF
		}
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.wake:
		}
	}
}

// Close implements bus.Connection
func (c *Conn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.signal()
	return nil
}

// Subscriptions returns how many times Subscribe was called
func (c *Conn) Subscriptions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subscribed
}

// Pulled returns how many messages Next has delivered
func (c *Conn) Pulled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pulled
}

// Closed reports whether Close was called
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Signal builds a signal message with a decoded body
func Signal(path, iface, member string, body ...variant.Value) *bus.Message {
	msg := &bus.Message{
		Type:      bus.TypeSignal,
		Sender:    ":1.1",
		Path:      path,
		Interface: iface,
		Member:    member,
	}
	if len(body) > 0 {
		msg.Body = bus.Values(body)
	}
	return msg
}

// Message builds a message of any type
func Message(typ bus.MessageType, path, member string) *bus.Message {
	return &bus.Message{Type: typ, Sender: ":1.1", Path: path, Member: member}
}

// BrokenBody is a body that never decodes
type BrokenBody struct{ Err error }

// Decode implements bus.RawBody
func (b BrokenBody) Decode() ([]variant.Value, error) {
	if b.Err != nil {
		return nil, b.Err
	}
	return nil, io.ErrUnexpectedEOF
}
