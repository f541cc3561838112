// Package proctest provides in-memory stand-ins for the process table and
// signal delivery.
package proctest

import (
	"sync"

	"github.com/arthur-debert/dbusevents/pkg/proc"
)

// Delivery is one recorded SignalRealtime call
type Delivery struct {
	PID    int
	Offset int
}

// Table is a fake proc.Directory and proc.Signaler. Names map to PIDs;
// signals sent through it are recorded, never delivered.
type Table struct {
	mu         sync.Mutex
	pids       map[string]int
	lookups    []string
	deliveries []Delivery
	lookupErr  error
	signalErr  error
}

var (
	_ proc.Directory = (*Table)(nil)
	_ proc.Signaler  = (*Table)(nil)
)

// New returns a table containing the given name to PID entries
func New(pids map[string]int) *Table {
	t := &Table{pids: map[string]int{}}
	for name, pid := range pids {
		t.pids[name] = pid
	}
	return t
}

// FailLookup makes every Lookup return err
func (t *Table) FailLookup(err error) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lookupErr = err
	return t
}

// FailSignal makes every SignalRealtime return err
func (t *Table) FailSignal(err error) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.signalErr = err
	return t
}

func (t *Table) Lookup(name string) (int, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lookups = append(t.lookups, name)
	if t.lookupErr != nil {
		return 0, false, t.lookupErr
	}
	pid, ok := t.pids[name]
	return pid, ok, nil
}

func (t *Table) SignalRealtime(pid int, offset int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.signalErr != nil {
		return t.signalErr
	}
	t.deliveries = append(t.deliveries, Delivery{PID: pid, Offset: offset})
	return nil
}

// Lookups returns the names looked up so far, in order
func (t *Table) Lookups() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.lookups...)
}

// Deliveries returns the signals sent so far, in order
func (t *Table) Deliveries() []Delivery {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Delivery(nil), t.deliveries...)
}
