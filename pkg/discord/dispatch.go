package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/websocket"

	"github.com/tinyland-inc/bridgeclaw/pkg/gateway"
	"github.com/tinyland-inc/bridgeclaw/pkg/logger"
	"github.com/tinyland-inc/bridgeclaw/pkg/relay"
)

// Author is the message author in a MESSAGE_CREATE dispatch.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Bot      bool   `json:"bot"`
}

// Attachment is one file attached to a Discord message.
type Attachment struct {
	Filename string `json:"filename"`
	ProxyURL string `json:"proxy_url"`
	URL      string `json:"url"`
}

// Message is the MESSAGE_CREATE dispatch payload, reduced to relay needs.
type Message struct {
	ID          string       `json:"id"`
	ChannelID   string       `json:"channel_id"`
	Content     string       `json:"content"`
	WebhookID   string       `json:"webhook_id"`
	Author      Author       `json:"author"`
	Attachments []Attachment `json:"attachments"`
}

// DecodeMessageEvent is the relay decoder for the Discord gateway: it
// accepts only well-formed MESSAGE_CREATE dispatches and flags webhook- or
// bot-authored messages so the pipeline can suppress echoes.
func DecodeMessageEvent(f gateway.Frame) (relay.Event, bool) {
	if f.Type != websocket.TextMessage {
		return relay.Event{}, false
	}
	env, err := DecodeEnvelope(f.Data)
	if err != nil {
		logger.DebugCF("discord_gateway", "Undecodable frame", map[string]any{
			"error": err.Error(),
		})
		return relay.Event{}, false
	}
	if env.Op != OpDispatch || env.T != EventMessageCreate {
		return relay.Event{}, false
	}

	var msg Message
	if err := decodePayload(env.D, &msg); err != nil {
		logger.DebugCF("discord_gateway", "Malformed MESSAGE_CREATE payload", map[string]any{
			"error": err.Error(),
		})
		return relay.Event{}, false
	}

	attachments := make([]relay.Attachment, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		url := a.ProxyURL
		if url == "" {
			url = a.URL
		}
		attachments = append(attachments, relay.Attachment{Filename: a.Filename, URL: url})
	}

	return relay.Event{
		ChannelID:   msg.ChannelID,
		AuthorID:    msg.Author.ID,
		AuthorName:  msg.Author.Username,
		AvatarURL:   avatarURL(msg.Author),
		Text:        msg.Content,
		Attachments: attachments,
		FromBridge:  msg.WebhookID != "" || msg.Author.Bot,
	}, true
}

// avatarURL builds the CDN URL for an author's avatar hash, or "" when the
// author has no custom avatar.
func avatarURL(a Author) string {
	if a.Avatar == "" {
		return ""
	}
	return discordgo.EndpointUserAvatar(a.ID, a.Avatar)
}
