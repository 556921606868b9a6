package relay

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tinyland-inc/bridgeclaw/pkg/gateway"
	"github.com/tinyland-inc/bridgeclaw/pkg/hub"
	"github.com/tinyland-inc/bridgeclaw/pkg/logger"
	"github.com/tinyland-inc/bridgeclaw/pkg/webhookcache"
)

// Decoder turns a raw gateway frame into zero or one relayable events.
// ok is false for frames that are not new-chat-message notifications.
type Decoder func(f gateway.Frame) (Event, bool)

// LinkFunc resolves the destination channel linked to a source channel.
type LinkFunc func(sourceChannel string) (string, bool)

// ProfileFunc fetches a source-platform user profile by ID.
type ProfileFunc func(ctx context.Context, userID string) (Profile, error)

// Pipeline relays decoded chat events in one direction. It is the sole
// writer of its Cache. Per-message failures are logged and the message is
// dropped; the pipeline itself never stops until its subscription ends.
type Pipeline struct {
	Name     string // component tag, e.g. "discord_to_guilded"
	Decode   Decoder
	Link     LinkFunc
	Cache    *webhookcache.Cache
	Remote   Endpointer
	Profiles ProfileFunc // optional; required only when events lack AuthorName

	// Detach runs a fire-and-forget unit of work (avatar upgrades).
	// Defaults to `go fn()`; tests substitute a synchronous runner.
	Detach func(fn func())
}

// Run consumes the subscription until end-of-stream. End-of-stream means
// the owning gateway session died, which already tripped the fatal switch,
// so Run just returns.
func (p *Pipeline) Run(ctx context.Context, sub *hub.Subscription[gateway.Frame]) {
	logger.InfoC(p.Name, "Relay pipeline started")
	for {
		f, ok := sub.Next()
		if !ok {
			logger.InfoC(p.Name, "Inbound stream ended, relay stopping")
			return
		}
		p.Handle(ctx, f)
	}
}

// Handle relays a single inbound frame through the full state machine:
// decode, filter, link, identity, transform, deliver.
func (p *Pipeline) Handle(ctx context.Context, f gateway.Frame) {
	ev, ok := p.Decode(f)
	if !ok {
		return
	}
	if ev.FromBridge {
		// Webhook- or bot-authored: relaying it back would echo our own
		// deliveries in an infinite loop.
		logger.DebugCF(p.Name, "Skipping bridge-authored message", map[string]any{
			"channel": ev.ChannelID,
			"author":  ev.AuthorID,
		})
		return
	}

	dest, ok := p.Link(ev.ChannelID)
	if !ok {
		logger.DebugCF(p.Name, "No channel link", map[string]any{
			"channel": ev.ChannelID,
		})
		return
	}

	trace := uuid.NewString()
	endpoint, err := p.ensureIdentity(ctx, dest, ev)
	if err != nil {
		logger.ErrorCF(p.Name, "Identity resolution failed, dropping message", map[string]any{
			"trace":   trace,
			"channel": ev.ChannelID,
			"author":  ev.AuthorID,
			"error":   err.Error(),
		})
		return
	}

	content := RenderContent(ev.Text, ev.Attachments)
	if err := p.Remote.Deliver(ctx, endpoint, content); err != nil {
		logger.ErrorCF(p.Name, "Delivery failed, dropping message", map[string]any{
			"trace":   trace,
			"channel": ev.ChannelID,
			"author":  ev.AuthorID,
			"error":   err.Error(),
		})
		return
	}
	logger.DebugCF(p.Name, "Relayed message", map[string]any{
		"trace":        trace,
		"channel":      ev.ChannelID,
		"dest_channel": dest,
		"author":       ev.AuthorID,
	})
}

// ensureIdentity returns the impersonation endpoint for (dest, author),
// provisioning and persisting a new one on first sight. The avatar upgrade
// is detached so the first message is never delayed by an image fetch.
func (p *Pipeline) ensureIdentity(ctx context.Context, dest string, ev Event) (string, error) {
	if endpoint, ok := p.Cache.Get(dest, ev.AuthorID); ok {
		return endpoint, nil
	}

	name := ev.AuthorName
	avatar := ev.AvatarURL
	if name == "" {
		if p.Profiles == nil {
			return "", fmt.Errorf("event for author %s has no name and no profile source", ev.AuthorID)
		}
		profile, err := p.Profiles(ctx, ev.AuthorID)
		if err != nil {
			return "", fmt.Errorf("fetch profile for %s: %w", ev.AuthorID, err)
		}
		name = profile.Name
		if avatar == "" {
			avatar = profile.AvatarURL
		}
	}

	endpoint, err := p.Remote.CreateIdentity(ctx, dest, name)
	if err != nil {
		return "", fmt.Errorf("create identity %q in %s: %w", name, dest, err)
	}
	if err := p.Cache.Put(dest, ev.AuthorID, endpoint); err != nil {
		// The webhook exists and works; losing the cache entry only means
		// a duplicate webhook after a restart.
		logger.WarnCF(p.Name, "Failed to persist webhook cache", map[string]any{
			"channel": dest,
			"author":  ev.AuthorID,
			"error":   err.Error(),
		})
	}

	if avatar != "" {
		p.detach(func() { p.upgradeAvatar(endpoint, avatar, ev.AuthorID) })
	}
	return endpoint, nil
}

func (p *Pipeline) detach(fn func()) {
	if p.Detach != nil {
		p.Detach(fn)
		return
	}
	go fn()
}

// upgradeAvatar is a detached unit of work; its failure is terminal for
// the unit only and never reaches the message path.
func (p *Pipeline) upgradeAvatar(endpoint, avatarURL, authorID string) {
	if err := p.Remote.UpdateAvatar(context.Background(), endpoint, avatarURL); err != nil {
		logger.WarnCF(p.Name, "Avatar upgrade failed", map[string]any{
			"author": authorID,
			"error":  err.Error(),
		})
	}
}
