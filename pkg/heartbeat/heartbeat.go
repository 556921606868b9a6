// Package heartbeat runs the per-gateway keep-alive loop. A heartbeat
// that cannot be sent means the session is gone, and a silently dead
// heartbeat loop is worse than a crash: the upstream gateway would drop
// the connection without this process noticing. Send failure is fatal.
package heartbeat

import (
	"context"
	"fmt"
	"time"

	"github.com/tinyland-inc/bridgeclaw/pkg/failsafe"
	"github.com/tinyland-inc/bridgeclaw/pkg/gateway"
	"github.com/tinyland-inc/bridgeclaw/pkg/logger"
)

// Supervisor periodically sleeps for Interval, builds a keep-alive frame
// and sends it, forever.
type Supervisor struct {
	// Name tags log lines and the fatal cause.
	Name string
	// Interval is the full sleep between heartbeats. Callers that need to
	// stay ahead of a server timeout pass a pre-scaled value.
	Interval time.Duration
	// Payload builds the next heartbeat frame. Called once per beat so
	// dynamic fields (sequence numbers) are fresh.
	Payload func() (gateway.Frame, error)
	// Send submits the frame to the gateway session.
	Send func(f gateway.Frame) error
	// Switch receives the fatal trip when sending fails.
	Switch *failsafe.Switch
}

// Run loops until ctx is canceled or sending fails. Sending failure trips
// the fatal switch before returning.
func (s *Supervisor) Run(ctx context.Context) {
	logger.InfoCF(s.Name, "Heartbeat loop started", map[string]any{
		"interval": s.Interval.String(),
	})
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.Interval):
		}

		f, err := s.Payload()
		if err != nil {
			s.Switch.Trip(s.Name, fmt.Errorf("build heartbeat: %w", err))
			return
		}
		if err := s.Send(f); err != nil {
			logger.ErrorCF(s.Name, "Heartbeat send failed", map[string]any{
				"error": err.Error(),
			})
			s.Switch.Trip(s.Name, fmt.Errorf("send heartbeat: %w", err))
			return
		}
		logger.DebugC(s.Name, "Heartbeat sent")
	}
}

// ScaleInterval applies the safety factor used for acknowledgement-based
// gateways: beat at 95% of the advertised interval to stay safely ahead
// of the server's timeout.
func ScaleInterval(advertised time.Duration) time.Duration {
	return advertised * 95 / 100
}
