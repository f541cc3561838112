// Package proc resolves process names against the live process table and
// delivers realtime signals to them.
package proc

import (
	"os"

	"github.com/arthur-debert/dbusevents/pkg/errors"
	ps "github.com/mitchellh/go-ps"
)

// Directory resolves an exact process name to a live PID
type Directory interface {
	Lookup(name string) (pid int, found bool, err error)
}

// Signaler delivers a realtime signal, SIGRTMIN+offset, to a PID
type Signaler interface {
	SignalRealtime(pid int, offset int) error
}

// Table is the Directory backed by a fresh scan of the process table on
// every call. Nothing is cached.
type Table struct {
	list func() ([]ps.Process, error)
}

// NewTable returns a Directory over the running system
func NewTable() *Table {
	return &Table{list: ps.Processes}
}

// Lookup returns the lowest PID whose executable name equals name. Our own
// process is never returned.
func (t *Table) Lookup(name string) (int, bool, error) {
	procs, err := t.list()
	if err != nil {
		return 0, false, errors.Wrap(err, errors.ErrInternal, "failed to list processes")
	}

	self := os.Getpid()
	best := 0
	for _, p := range procs {
		if p.Executable() != name || p.Pid() == self {
			continue
		}
		if best == 0 || p.Pid() < best {
			best = p.Pid()
		}
	}

	return best, best != 0, nil
}

// ValidOffset reports whether SIGRTMIN+offset stays within the realtime
// signal range
func ValidOffset(offset int64) bool {
	return offset >= 0 && offset <= MaxRealtimeOffset
}
