package discord

import (
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/tinyland-inc/bridgeclaw/pkg/failsafe"
	"github.com/tinyland-inc/bridgeclaw/pkg/gateway"
	"github.com/tinyland-inc/bridgeclaw/pkg/hub"
	"github.com/tinyland-inc/bridgeclaw/pkg/logger"
)

// TrackSequence consumes every inbound frame and records the sequence
// number of each dispatch. Runs until the subscription ends.
func TrackSequence(sub *hub.Subscription[gateway.Frame], seq *Sequence) {
	for {
		f, ok := sub.Next()
		if !ok {
			return
		}
		if f.Type != websocket.TextMessage {
			continue
		}
		env, err := DecodeEnvelope(f.Data)
		if err != nil || env.S == nil {
			continue
		}
		seq.Observe(*env.S)
	}
}

// RespondHeartbeatRequests watches for server-initiated op 1 frames and
// answers each with an immediate heartbeat outside the normal cadence. A
// failed send means the session is gone, which is fatal.
func RespondHeartbeatRequests(sub *hub.Subscription[gateway.Frame], seq *Sequence, send Sender, sw *failsafe.Switch) {
	for {
		f, ok := sub.Next()
		if !ok {
			return
		}
		if f.Type != websocket.TextMessage {
			continue
		}
		env, err := DecodeEnvelope(f.Data)
		if err != nil || env.Op != OpHeartbeat {
			continue
		}

		logger.DebugC("discord_gateway", "Server requested heartbeat")
		payload, err := EncodeHeartbeat(seq.Last())
		if err != nil {
			sw.Trip("discord_heartbeat", fmt.Errorf("encode requested heartbeat: %w", err))
			return
		}
		if err := send.Send(gateway.TextFrame(payload)); err != nil {
			sw.Trip("discord_heartbeat", fmt.Errorf("send requested heartbeat: %w", err))
			return
		}
	}
}
