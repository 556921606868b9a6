package failsafe

import (
	"errors"
	"testing"
)

func TestSwitch_FirstTripWins(t *testing.T) {
	sw := NewSwitch()
	if sw.Tripped() {
		t.Fatal("new switch should not be tripped")
	}

	first := errors.New("read failed")
	sw.Trip("gateway", first)
	sw.Trip("heartbeat", errors.New("send failed"))

	if !sw.Tripped() {
		t.Fatal("expected switch to be tripped")
	}

	cause := <-sw.Done()
	if cause.Component != "gateway" {
		t.Errorf("component: got %q, want %q", cause.Component, "gateway")
	}
	if !errors.Is(cause.Err, first) {
		t.Errorf("unexpected cause error: %v", cause.Err)
	}
}

func TestSwitch_ConcurrentTrips(t *testing.T) {
	sw := NewSwitch()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			sw.Trip("worker", errors.New("boom"))
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	// Exactly one cause must be delivered.
	<-sw.Done()
	select {
	case c := <-sw.Done():
		t.Errorf("unexpected second cause: %+v", c)
	default:
	}
}
