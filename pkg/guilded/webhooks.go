package guilded

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tinyland-inc/bridgeclaw/pkg/logger"
)

// The Client doubles as the relay.Endpointer for the discord→guilded
// direction: webhooks are provisioned through the authenticated REST API
// and executed against the media host. Endpoints are full execution URLs.

func (c *Client) CreateIdentity(ctx context.Context, channelID, name string) (string, error) {
	var res struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	payload := map[string]string{"name": name, "channelId": channelID}
	if err := c.do(ctx, http.MethodPost, c.apiBase+"/webhooks", payload, &res); err != nil {
		return "", fmt.Errorf("create guilded webhook in %s: %w", channelID, err)
	}
	if res.ID == "" || res.Token == "" {
		return "", fmt.Errorf("create guilded webhook in %s: response missing id or token", channelID)
	}
	logger.InfoCF("guilded_rest", "Provisioned webhook", map[string]any{
		"channel": channelID,
		"name":    name,
	})
	return c.mediaBase + "/webhooks/" + res.ID + "/" + res.Token, nil
}

func (c *Client) Deliver(ctx context.Context, endpoint, content string) error {
	if err := c.do(ctx, http.MethodPost, endpoint, map[string]string{"content": content}, nil); err != nil {
		return fmt.Errorf("execute guilded webhook: %w", err)
	}
	return nil
}

// UpdateAvatar points the webhook's icon at the author's avatar image.
// Guilded accepts external image URLs directly, so no binary fetch is
// needed on this side.
func (c *Client) UpdateAvatar(ctx context.Context, endpoint, avatarURL string) error {
	id, err := webhookIDFromEndpoint(endpoint)
	if err != nil {
		return err
	}
	payload := map[string]string{"iconUrl": avatarURL}
	if err := c.do(ctx, http.MethodPut, c.apiBase+"/webhooks/"+id, payload, nil); err != nil {
		return fmt.Errorf("update guilded webhook icon: %w", err)
	}
	return nil
}

func webhookIDFromEndpoint(endpoint string) (string, error) {
	parts := strings.Split(strings.TrimSuffix(endpoint, "/"), "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("malformed webhook endpoint %q", endpoint)
	}
	return parts[len(parts)-2], nil
}
