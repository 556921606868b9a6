// Package failsafe provides the single process-wide fatal signal.
//
// The bridge offers no message durability, so any unrecoverable condition
// (transport failure, handshake violation, dead heartbeat) is handled by
// exiting non-zero and letting the process supervisor restart from scratch.
// Components never call os.Exit themselves; they trip the shared Switch and
// the main goroutine owns termination. Tests observe a trip without dying.
package failsafe

import (
	"sync"
	"sync/atomic"
)

// Cause records which component declared the process unrecoverable and why.
type Cause struct {
	Component string
	Err       error
}

// Switch is a one-shot fatal latch. The first Trip wins; later trips from
// other collapsing components are dropped.
type Switch struct {
	once    sync.Once
	tripped atomic.Bool
	ch      chan Cause
}

func NewSwitch() *Switch {
	return &Switch{ch: make(chan Cause, 1)}
}

// Trip declares the process unrecoverable. Safe to call from any goroutine,
// any number of times.
func (s *Switch) Trip(component string, err error) {
	s.once.Do(func() {
		s.tripped.Store(true)
		s.ch <- Cause{Component: component, Err: err}
	})
}

// Done yields the first Cause once the switch has been tripped.
func (s *Switch) Done() <-chan Cause {
	return s.ch
}

// Tripped reports whether the switch has fired.
func (s *Switch) Tripped() bool {
	return s.tripped.Load()
}
