package guilded

import (
	"encoding/json"

	"github.com/gorilla/websocket"

	"github.com/tinyland-inc/bridgeclaw/pkg/gateway"
	"github.com/tinyland-inc/bridgeclaw/pkg/logger"
	"github.com/tinyland-inc/bridgeclaw/pkg/relay"
)

// EventChatMessageCreated is the gateway event name for new chat messages.
const EventChatMessageCreated = "ChatMessageCreated"

// chatMessageCreated is the ChatMessageCreated payload, reduced to relay
// needs. The author arrives as a bare user ID; display names are resolved
// through the profile endpoint when an identity is first provisioned.
type chatMessageCreated struct {
	ChannelID          string `json:"channelId"`
	ContentType        string `json:"contentType"`
	CreatedBy          string `json:"createdBy"`
	WebhookID          string `json:"webhookId"`
	CreatedByWebhookID string `json:"createdByWebhookId"`
	Message            struct {
		Type    string `json:"type"`
		Content struct {
			Document Node `json:"document"`
		} `json:"content"`
	} `json:"message"`
}

// DecodeMessageEvent is the relay decoder for the Guilded gateway. It
// accepts only ChatMessageCreated events and flags webhook-authored
// messages so the pipeline can suppress echoes of its own deliveries.
func DecodeMessageEvent(f gateway.Frame) (relay.Event, bool) {
	if f.Type != websocket.TextMessage {
		return relay.Event{}, false
	}
	name, payload, ok := ParseEvent(f.Data)
	if !ok || name != EventChatMessageCreated {
		return relay.Event{}, false
	}

	var msg chatMessageCreated
	if err := json.Unmarshal(payload, &msg); err != nil {
		logger.DebugCF("guilded_gateway", "Malformed ChatMessageCreated payload", map[string]any{
			"error": err.Error(),
		})
		return relay.Event{}, false
	}
	if msg.ChannelID == "" || msg.CreatedBy == "" {
		return relay.Event{}, false
	}

	text, attachments := ExtractContent(msg.Message.Content.Document)
	return relay.Event{
		ChannelID:   msg.ChannelID,
		AuthorID:    msg.CreatedBy,
		Text:        text,
		Attachments: attachments,
		FromBridge:  msg.WebhookID != "" || msg.CreatedByWebhookID != "",
	}, true
}
