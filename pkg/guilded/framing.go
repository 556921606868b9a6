package guilded

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tinyland-inc/bridgeclaw/pkg/gateway"
	"github.com/tinyland-inc/bridgeclaw/pkg/hub"
	"github.com/tinyland-inc/bridgeclaw/pkg/logger"
)

// DefaultPingInterval is used when the engine.io open packet is absent or
// unreadable.
const DefaultPingInterval = 25 * time.Second

// PingFrame is the engine.io client keep-alive packet.
func PingFrame() gateway.Frame {
	return gateway.TextFrame([]byte("2"))
}

// ParseEvent extracts a socket.io event from a text frame. Engine.io
// prefixes the payload with packet-type digits, so the JSON array starts
// at the first '['. ok is false for non-event frames (pings, acks, the
// open packet) and anything malformed.
func ParseEvent(data []byte) (name string, payload json.RawMessage, ok bool) {
	start := bytes.IndexByte(data, '[')
	if start < 0 {
		return "", nil, false
	}
	var parts []json.RawMessage
	if err := json.Unmarshal(data[start:], &parts); err != nil {
		return "", nil, false
	}
	if len(parts) < 2 {
		return "", nil, false
	}
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return "", nil, false
	}
	return name, parts[1], true
}

// openPacket is the engine.io session open payload.
type openPacket struct {
	PingInterval int64 `json:"pingInterval"` // milliseconds
}

// ParseOpen reads the engine.io open packet ("0{...}") and returns the
// advertised ping interval.
func ParseOpen(data []byte) (time.Duration, bool) {
	if len(data) < 2 || data[0] != '0' || data[1] != '{' {
		return 0, false
	}
	var pkt openPacket
	if err := json.Unmarshal(data[1:], &pkt); err != nil || pkt.PingInterval <= 0 {
		return 0, false
	}
	return time.Duration(pkt.PingInterval) * time.Millisecond, true
}

// AwaitOpen consumes the first frame of a fresh gateway subscription and
// extracts the server's ping interval. The Guilded gateway needs no
// structured handshake, so anything unexpected just falls back to the
// default cadence.
func AwaitOpen(sub *hub.Subscription[gateway.Frame]) time.Duration {
	f, ok := sub.Next()
	if !ok {
		return DefaultPingInterval
	}
	if f.Type != websocket.TextMessage {
		return DefaultPingInterval
	}
	interval, ok := ParseOpen(f.Data)
	if !ok {
		logger.DebugC("guilded_gateway", "First frame was not an open packet, using default ping interval")
		return DefaultPingInterval
	}
	logger.InfoCF("guilded_gateway", "Session open", map[string]any{
		"ping_interval": interval.String(),
	})
	return interval
}
