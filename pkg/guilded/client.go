// Package guilded implements the Guilded side of the bridge: cookie-based
// REST authentication, the socket.io gateway framing, rich-text content
// extraction, and webhook provisioning/delivery.
package guilded

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/tinyland-inc/bridgeclaw/pkg/logger"
	"github.com/tinyland-inc/bridgeclaw/pkg/relay"
)

const (
	// APIBase is the Guilded private REST API root.
	APIBase = "https://www.guilded.gg/api"
	// MediaBase hosts webhook execution endpoints.
	MediaBase = "https://media.guilded.gg"
	// GatewayURL is the socket.io gateway endpoint.
	GatewayURL = "wss://api.guilded.gg/socket.io/?jwt=undefined&EIO=3&transport=websocket"
)

// Client is an authenticated Guilded REST client. The session cookie from
// login bears identity for both REST calls and the gateway dial; there is
// no in-process refresh.
type Client struct {
	http      *http.Client
	apiBase   string
	mediaBase string
	cookie    string
}

// Login authenticates with email and password and captures the session
// cookies. Authentication failure is fatal to startup.
func Login(ctx context.Context, email, password string) (*Client, error) {
	return login(ctx, http.DefaultClient, APIBase, MediaBase, email, password)
}

func login(ctx context.Context, hc *http.Client, apiBase, mediaBase, email, password string) (*Client, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+"/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("guilded login: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("guilded login: unexpected status %s", res.Status)
	}

	setCookies := res.Header.Values("Set-Cookie")
	if len(setCookies) == 0 {
		return nil, fmt.Errorf("guilded login: no session cookie in response")
	}

	logger.InfoC("guilded_rest", "Authenticated")
	return &Client{
		http:      hc,
		apiBase:   apiBase,
		mediaBase: mediaBase,
		cookie:    cookieHeader(setCookies),
	}, nil
}

// cookieHeader reduces Set-Cookie response values to a Cookie request
// header (name=value pairs, attributes stripped).
func cookieHeader(setCookies []string) string {
	pairs := make([]string, 0, len(setCookies))
	for _, sc := range setCookies {
		if i := strings.Index(sc, ";"); i >= 0 {
			sc = sc[:i]
		}
		sc = strings.TrimSpace(sc)
		if sc != "" {
			pairs = append(pairs, sc)
		}
	}
	return strings.Join(pairs, "; ")
}

// DialGateway opens the socket.io websocket with the session cookie. No
// structured handshake follows; the session is usable once the transport
// is open.
func (c *Client) DialGateway() (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("Cookie", c.cookie)
	conn, _, err := websocket.DefaultDialer.Dial(GatewayURL, header)
	if err != nil {
		return nil, fmt.Errorf("dial guilded gateway: %w", err)
	}
	return conn, nil
}

// do issues an authenticated JSON request and decodes the response into
// out when out is non-nil.
func (c *Client) do(ctx context.Context, method, url string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Cookie", c.cookie)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %s", method, url, res.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// Profile fetches a user's display name and avatar for identity
// provisioning. Implements relay.ProfileFunc.
func (c *Client) Profile(ctx context.Context, userID string) (relay.Profile, error) {
	var res struct {
		User struct {
			Name           string `json:"name"`
			ProfilePicture string `json:"profilePicture"`
		} `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, c.apiBase+"/users/"+userID, nil, &res); err != nil {
		return relay.Profile{}, fmt.Errorf("fetch guilded user %s: %w", userID, err)
	}
	if res.User.Name == "" {
		return relay.Profile{}, fmt.Errorf("guilded user %s has no name", userID)
	}
	return relay.Profile{Name: res.User.Name, AvatarURL: res.User.ProfilePicture}, nil
}
