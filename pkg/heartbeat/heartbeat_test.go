package heartbeat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/bridgeclaw/pkg/failsafe"
	"github.com/tinyland-inc/bridgeclaw/pkg/gateway"
)

func TestSupervisor_SendsOnCadence(t *testing.T) {
	sent := make(chan gateway.Frame, 16)
	sw := failsafe.NewSwitch()

	sup := &Supervisor{
		Name:     "test_heartbeat",
		Interval: time.Millisecond,
		Payload: func() (gateway.Frame, error) {
			return gateway.TextFrame([]byte("2")), nil
		},
		Send: func(f gateway.Frame) error {
			sent <- f
			return nil
		},
		Switch: sw,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Run(ctx)

	for range 3 {
		select {
		case f := <-sent:
			assert.Equal(t, "2", string(f.Data))
		case <-time.After(time.Second):
			t.Fatal("heartbeat not sent in time")
		}
	}
	assert.False(t, sw.Tripped())
}

func TestSupervisor_SendFailureTripsSwitch(t *testing.T) {
	sw := failsafe.NewSwitch()

	sup := &Supervisor{
		Name:     "test_heartbeat",
		Interval: time.Millisecond,
		Payload: func() (gateway.Frame, error) {
			return gateway.TextFrame([]byte("2")), nil
		},
		Send: func(gateway.Frame) error {
			return errors.New("connection reset")
		},
		Switch: sw,
	}

	done := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(done)
	}()

	select {
	case cause := <-sw.Done():
		assert.Equal(t, "test_heartbeat", cause.Component)
		assert.ErrorContains(t, cause.Err, "connection reset")
	case <-time.After(time.Second):
		t.Fatal("switch not tripped")
	}
	<-done
}

func TestSupervisor_PayloadFailureTripsSwitch(t *testing.T) {
	sw := failsafe.NewSwitch()

	sup := &Supervisor{
		Name:     "test_heartbeat",
		Interval: time.Millisecond,
		Payload: func() (gateway.Frame, error) {
			return gateway.Frame{}, errors.New("no session state")
		},
		Send: func(gateway.Frame) error {
			t.Fatal("must not send when payload fails")
			return nil
		},
		Switch: sw,
	}

	go sup.Run(context.Background())

	select {
	case cause := <-sw.Done():
		assert.ErrorContains(t, cause.Err, "no session state")
	case <-time.After(time.Second):
		t.Fatal("switch not tripped")
	}
}

func TestSupervisor_StopsOnContextCancel(t *testing.T) {
	sw := failsafe.NewSwitch()

	sup := &Supervisor{
		Name:     "test_heartbeat",
		Interval: time.Hour,
		Payload: func() (gateway.Frame, error) {
			return gateway.TextFrame([]byte("2")), nil
		},
		Send:   func(gateway.Frame) error { return nil },
		Switch: sw,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("supervisor did not stop")
	}
	assert.False(t, sw.Tripped())
}

func TestScaleInterval(t *testing.T) {
	require.Equal(t, 39187500*time.Microsecond, ScaleInterval(41250*time.Millisecond))
	require.Equal(t, 950*time.Millisecond, ScaleInterval(time.Second))
}
