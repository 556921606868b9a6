package discord

import "sync"

// Sequence tracks the last-observed gateway sequence number. One goroutine
// writes (the sequence tracker task), the heartbeat sender reads. The zero
// value is ready to use and reports no observation yet.
type Sequence struct {
	mu   sync.Mutex
	seen bool
	last int64
}

// Observe records the latest sequence number. Last-observed wins: the
// server's heartbeat contract wants the most recent value, not the maximum.
func (s *Sequence) Observe(n int64) {
	s.mu.Lock()
	s.seen = true
	s.last = n
	s.mu.Unlock()
}

// Last returns the most recently observed sequence number, or nil if no
// frame carrying one has arrived yet.
func (s *Sequence) Last() *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seen {
		return nil
	}
	n := s.last
	return &n
}
