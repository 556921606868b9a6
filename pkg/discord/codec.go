// Package discord implements the Discord gateway wire protocol (envelope
// codec, handshake, heartbeating, sequence tracking) and the REST surface
// the relay needs (webhook provisioning and delivery via discordgo).
//
// The gateway is implemented here rather than through discordgo's own
// gateway because the bridge authenticates with a plain user token and the
// relay layer consumes the raw frame stream through the broadcast hub.
package discord

import (
	"encoding/json"
	"fmt"
)

// Gateway op codes.
const (
	OpDispatch     = 0
	OpHeartbeat    = 1
	OpIdentify     = 2
	OpHello        = 10
	OpHeartbeatACK = 11
)

// EventMessageCreate is the dispatch event name for new chat messages.
const EventMessageCreate = "MESSAGE_CREATE"

// GatewayURL is the Discord gateway endpoint, JSON encoding.
const GatewayURL = "wss://gateway.discord.gg/?v=9&encoding=json"

// Envelope is the {op, d, t?, s?} frame wrapping every gateway message.
type Envelope struct {
	Op int             `json:"op"`
	D  json.RawMessage `json:"d,omitempty"`
	T  string          `json:"t,omitempty"`
	S  *int64          `json:"s,omitempty"`
}

// DecodeEnvelope parses a text frame into an Envelope.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode gateway envelope: %w", err)
	}
	return &env, nil
}

// decodePayload unmarshals an envelope's d field into v.
func decodePayload(d json.RawMessage, v any) error {
	if len(d) == 0 {
		return fmt.Errorf("empty payload")
	}
	return json.Unmarshal(d, v)
}

// Hello is the op 10 payload.
type Hello struct {
	HeartbeatInterval int64 `json:"heartbeat_interval"` // milliseconds
}

type identifyProperties struct {
	OS      string `json:"$os"`
	Browser string `json:"$browser"`
	Device  string `json:"$device"`
}

type identifyPayload struct {
	Token      string             `json:"token"`
	Properties identifyProperties `json:"properties"`
	Intents    int                `json:"intents"`
}

// intentsGuildMessages requests guild message dispatch events only.
const intentsGuildMessages = 1 << 9

// EncodeIdentify builds the op 2 identify frame for the given token.
func EncodeIdentify(token string) ([]byte, error) {
	d, err := json.Marshal(identifyPayload{
		Token: token,
		Properties: identifyProperties{
			OS:      "linux",
			Browser: "bridgeclaw",
			Device:  "bridgeclaw",
		},
		Intents: intentsGuildMessages,
	})
	if err != nil {
		return nil, fmt.Errorf("encode identify payload: %w", err)
	}
	return json.Marshal(Envelope{Op: OpIdentify, D: d})
}

// EncodeHeartbeat builds the op 1 frame embedding the last-observed
// sequence number, or a JSON null before any has been seen.
func EncodeHeartbeat(seq *int64) ([]byte, error) {
	d := json.RawMessage("null")
	if seq != nil {
		d = json.RawMessage(fmt.Sprintf("%d", *seq))
	}
	return json.Marshal(Envelope{Op: OpHeartbeat, D: d})
}
