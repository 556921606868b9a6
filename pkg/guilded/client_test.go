package guilded

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogin(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Add("Set-Cookie", "hmac_signed_session=abc; Path=/; HttpOnly")
		w.Header().Add("Set-Cookie", "guilded_mid=xyz; Path=/")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := login(context.Background(), srv.Client(), srv.URL, srv.URL, "ann@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if gotBody["email"] != "ann@example.com" || gotBody["password"] != "hunter2" {
		t.Errorf("login body: %v", gotBody)
	}
	if c.cookie != "hmac_signed_session=abc; guilded_mid=xyz" {
		t.Errorf("cookie header: got %q", c.cookie)
	}
}

func TestLogin_Failures(t *testing.T) {
	badStatus := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer badStatus.Close()
	if _, err := login(context.Background(), badStatus.Client(), badStatus.URL, badStatus.URL, "e", "p"); err == nil {
		t.Error("expected error for 401 response")
	}

	noCookie := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer noCookie.Close()
	if _, err := login(context.Background(), noCookie.Client(), noCookie.URL, noCookie.URL, "e", "p"); err == nil {
		t.Error("expected error when no session cookie is returned")
	}
}

// webhookTestClient wires a Client at a test server without going through login.
func webhookTestClient(srv *httptest.Server) *Client {
	return &Client{
		http:      srv.Client(),
		apiBase:   srv.URL,
		mediaBase: srv.URL,
		cookie:    "session=abc",
	}
}

func TestClient_CreateIdentityAndDeliver(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.Path)
		if r.Header.Get("Cookie") != "session=abc" {
			t.Errorf("missing session cookie on %s", r.URL.Path)
		}
		switch {
		case r.URL.Path == "/webhooks" && r.Method == http.MethodPost:
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["name"] != "Ann" || body["channelId"] != "gc1" {
				t.Errorf("create body: %v", body)
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "wh1", "token": "tok1"})
		case strings.HasPrefix(r.URL.Path, "/webhooks/wh1/tok1"):
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["content"] != "hi" {
				t.Errorf("deliver body: %v", body)
			}
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := webhookTestClient(srv)
	endpoint, err := c.CreateIdentity(context.Background(), "gc1", "Ann")
	if err != nil {
		t.Fatalf("create identity: %v", err)
	}
	if !strings.HasSuffix(endpoint, "/webhooks/wh1/tok1") {
		t.Errorf("endpoint: got %q", endpoint)
	}

	if err := c.Deliver(context.Background(), endpoint, "hi"); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if len(requests) != 2 {
		t.Errorf("requests: %v", requests)
	}
}

func TestClient_UpdateAvatar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/webhooks/wh1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["iconUrl"] != "http://img/a.png" {
			t.Errorf("icon body: %v", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := webhookTestClient(srv)
	endpoint := srv.URL + "/webhooks/wh1/tok1"
	if err := c.UpdateAvatar(context.Background(), endpoint, "http://img/a.png"); err != nil {
		t.Fatalf("update avatar: %v", err)
	}
}

func TestClient_Profile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/guser" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"user":{"name":"Greta","profilePicture":"http://img/g.png"}}`))
	}))
	defer srv.Close()

	c := webhookTestClient(srv)
	profile, err := c.Profile(context.Background(), "guser")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Name != "Greta" || profile.AvatarURL != "http://img/g.png" {
		t.Errorf("profile: %+v", profile)
	}
}
