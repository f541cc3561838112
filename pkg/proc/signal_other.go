//go:build !linux

package proc

import "github.com/arthur-debert/dbusevents/pkg/errors"

// MaxRealtimeOffset is the largest offset accepted by SignalRealtime
const MaxRealtimeOffset = 30

// Kill is unavailable outside Linux; realtime signals are Linux-specific
type Kill struct{}

// SignalRealtime always fails on this platform
func (Kill) SignalRealtime(pid int, offset int) error {
	return errors.New(errors.ErrActionSignal, "realtime signals are only supported on linux")
}
