package discord

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/tinyland-inc/bridgeclaw/pkg/logger"
)

// Webhooks provisions and drives Discord impersonation webhooks through
// the REST API. It implements relay.Endpointer for the guilded→discord
// direction. Endpoints are full webhook URLs, matching what earlier
// deployments stored in their cache files.
type Webhooks struct {
	rest *discordgo.Session
	http *http.Client
}

// NewWebhooks builds a REST-only discordgo session; the gateway side of
// discordgo is never opened.
func NewWebhooks(token string) (*Webhooks, error) {
	s, err := discordgo.New(token)
	if err != nil {
		return nil, fmt.Errorf("discord rest client: %w", err)
	}
	return &Webhooks{rest: s, http: http.DefaultClient}, nil
}

func (w *Webhooks) CreateIdentity(ctx context.Context, channelID, name string) (string, error) {
	wh, err := w.rest.WebhookCreate(channelID, name, "", discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("create webhook in %s: %w", channelID, err)
	}
	logger.InfoCF("discord_rest", "Provisioned webhook", map[string]any{
		"channel": channelID,
		"name":    name,
	})
	return discordgo.EndpointWebhookToken(wh.ID, wh.Token), nil
}

func (w *Webhooks) Deliver(ctx context.Context, endpoint, content string) error {
	id, token, err := splitWebhookURL(endpoint)
	if err != nil {
		return err
	}
	_, err = w.rest.WebhookExecute(id, token, false, &discordgo.WebhookParams{
		Content: content,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("execute webhook: %w", err)
	}
	return nil
}

// UpdateAvatar downloads the author's avatar and attaches it to the
// webhook as a data URI. Best effort; the caller treats failure as
// ignorable.
func (w *Webhooks) UpdateAvatar(ctx context.Context, endpoint, avatarURL string) error {
	id, token, err := splitWebhookURL(endpoint)
	if err != nil {
		return err
	}
	dataURI, err := w.fetchAsDataURI(ctx, avatarURL)
	if err != nil {
		return fmt.Errorf("fetch avatar %s: %w", avatarURL, err)
	}
	_, err = w.rest.WebhookEditWithToken(id, token, "", dataURI, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("edit webhook avatar: %w", err)
	}
	return nil
}

func (w *Webhooks) fetchAsDataURI(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	res, err := w.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", res.Status)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	contentType := res.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = "image/png"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}

// splitWebhookURL pulls the webhook ID and token back out of a stored
// endpoint URL (".../webhooks/{id}/{token}").
func splitWebhookURL(endpoint string) (id, token string, err error) {
	parts := strings.Split(strings.TrimSuffix(endpoint, "/"), "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("malformed webhook endpoint %q", endpoint)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}
