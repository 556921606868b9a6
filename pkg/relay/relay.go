// Package relay moves chat messages from one platform's gateway stream to
// the other platform's linked channel, posting through a per-author
// impersonation webhook so the message appears to come from its original
// author. One Pipeline instance runs per direction.
package relay

import (
	"context"
	"strings"
)

// Attachment references one file attached to a message.
type Attachment struct {
	Filename string
	URL      string
}

// Event is a decoded "new chat message" notification from the source
// platform, reduced to the fields the relay needs.
type Event struct {
	ChannelID   string
	AuthorID    string
	AuthorName  string // may be empty when the source event only carries an ID
	AvatarURL   string // may be empty; resolved lazily via Profiles
	Text        string
	Attachments []Attachment
	FromBridge  bool // authored by a webhook or bot, i.e. possibly our own echo
}

// Profile is a source-platform user profile, fetched when the inbound
// event does not carry a display name.
type Profile struct {
	Name      string
	AvatarURL string
}

// Endpointer provisions and drives impersonation webhooks on the
// destination platform. Endpoints are opaque strings owned by the
// implementation (in practice, webhook URLs).
type Endpointer interface {
	// CreateIdentity provisions a webhook in the destination channel,
	// named after the source author. No avatar is set at creation; that
	// happens asynchronously via UpdateAvatar.
	CreateIdentity(ctx context.Context, channelID, name string) (endpoint string, err error)

	// UpdateAvatar sets the webhook's avatar from an image URL. Best
	// effort: failures leave the identity without an avatar.
	UpdateAvatar(ctx context.Context, endpoint, avatarURL string) error

	// Deliver posts content through the webhook.
	Deliver(ctx context.Context, endpoint, content string) error
}

// RenderContent appends one "<filename>: <url>" line per attachment to the
// extracted text. When the base text is empty the result starts with the
// separator newline; downstream platforms render that fine and it keeps
// the format uniform.
func RenderContent(text string, attachments []Attachment) string {
	if len(attachments) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	for _, a := range attachments {
		b.WriteString("\n")
		b.WriteString(a.Filename)
		b.WriteString(": ")
		b.WriteString(a.URL)
	}
	return b.String()
}
