package discord

import (
	"fmt"
	"time"

	"github.com/tinyland-inc/bridgeclaw/pkg/gateway"
	"github.com/tinyland-inc/bridgeclaw/pkg/hub"
	"github.com/tinyland-inc/bridgeclaw/pkg/logger"
)

// Sender is the outbound half of a gateway session.
type Sender interface {
	Send(f gateway.Frame) error
}

// Handshake runs the mandatory hello → identify → ready exchange on a
// fresh subscription and returns the heartbeat interval advertised by the
// server. Any deviation is a fatal startup error: the session is unusable
// and the process must not enter steady state.
func Handshake(send Sender, sub *hub.Subscription[gateway.Frame], token string) (time.Duration, error) {
	f, ok := sub.Next()
	if !ok {
		return 0, fmt.Errorf("gateway closed before hello")
	}
	env, err := DecodeEnvelope(f.Data)
	if err != nil {
		return 0, fmt.Errorf("hello frame: %w", err)
	}
	if env.Op != OpHello {
		return 0, fmt.Errorf("expected hello (op %d), got op %d", OpHello, env.Op)
	}
	var hello Hello
	if err := decodePayload(env.D, &hello); err != nil {
		return 0, fmt.Errorf("hello payload: %w", err)
	}
	if hello.HeartbeatInterval <= 0 {
		return 0, fmt.Errorf("hello advertised invalid heartbeat interval %d", hello.HeartbeatInterval)
	}
	interval := time.Duration(hello.HeartbeatInterval) * time.Millisecond

	identify, err := EncodeIdentify(token)
	if err != nil {
		return 0, err
	}
	if err := send.Send(gateway.TextFrame(identify)); err != nil {
		return 0, fmt.Errorf("send identify: %w", err)
	}

	f, ok = sub.Next()
	if !ok {
		return 0, fmt.Errorf("gateway closed before ready")
	}
	env, err = DecodeEnvelope(f.Data)
	if err != nil {
		return 0, fmt.Errorf("ready frame: %w", err)
	}
	if env.Op != OpDispatch {
		return 0, fmt.Errorf("expected ready dispatch (op %d), got op %d", OpDispatch, env.Op)
	}

	logger.InfoCF("discord_gateway", "Handshake complete", map[string]any{
		"event":              env.T,
		"heartbeat_interval": interval.String(),
	})
	return interval, nil
}
