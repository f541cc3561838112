//go:build linux

package proc

import (
	"github.com/arthur-debert/dbusevents/pkg/errors"
	"golang.org/x/sys/unix"
)

// glibc reserves the first two kernel realtime signals for its threading
// implementation, so the SIGRTMIN seen by C programs such as waybar is 34.
const (
	sigRTMin = 34
	sigRTMax = 64

	// MaxRealtimeOffset is the largest offset accepted by SignalRealtime
	MaxRealtimeOffset = sigRTMax - sigRTMin
)

// Kill delivers signals with kill(2)
type Kill struct{}

// SignalRealtime sends SIGRTMIN+offset to pid
func (Kill) SignalRealtime(pid int, offset int) error {
	if !ValidOffset(int64(offset)) {
		return errors.Newf(errors.ErrActionSignal, "signal offset %d out of range 0..%d", offset, MaxRealtimeOffset)
	}
	if err := unix.Kill(pid, unix.Signal(sigRTMin+offset)); err != nil {
		return errors.Wrapf(err, errors.ErrActionSignal, "failed to send SIGRTMIN+%d to pid %d", offset, pid)
	}
	return nil
}
