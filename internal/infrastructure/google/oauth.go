// Package google talks to Google's OAuth2 and Gmail HTTP endpoints. Token
// flows are plain form POSTs; endpoint URLs live in the config so tests can
// point the client at a local server.
package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultAuthURL   = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultTokenURL  = "https://oauth2.googleapis.com/token"
	defaultRevokeURL = "https://oauth2.googleapis.com/revoke"
	defaultSendURL   = "https://gmail.googleapis.com/gmail/v1/users/me/messages/send"

	// send-only scope: the app never reads the mailbox
	defaultScope = "https://www.googleapis.com/auth/gmail.send"
)

// ErrUnauthorized marks a provider 401; the caller may refresh and retry once.
var ErrUnauthorized = errors.New("google: unauthorized")

// Config carries the process-wide OAuth secrets, injected at construction
// instead of read from the environment inside business logic.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scope        string

	AuthURL   string
	TokenURL  string
	RevokeURL string
	SendURL   string
}

func (c Config) withDefaults() Config {
	if c.Scope == "" {
		c.Scope = defaultScope
	}
	if c.AuthURL == "" {
		c.AuthURL = defaultAuthURL
	}
	if c.TokenURL == "" {
		c.TokenURL = defaultTokenURL
	}
	if c.RevokeURL == "" {
		c.RevokeURL = defaultRevokeURL
	}
	if c.SendURL == "" {
		c.SendURL = defaultSendURL
	}
	return c
}

// Token is one grant's worth of credentials. RefreshToken is empty on
// refresh responses unless the provider rotated it.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

type Client struct {
	cfg  Config
	http *http.Client
	now  func() time.Time
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg.withDefaults(),
		http: &http.Client{Timeout: 15 * time.Second},
		now:  time.Now,
	}
}

// AuthCodeURL builds the consent URL. state must be echoed back verbatim by
// the provider; loginHint pre-fills the expected Gmail account.
func (c *Client) AuthCodeURL(state, loginHint string) string {
	params := url.Values{}
	params.Set("client_id", c.cfg.ClientID)
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", c.cfg.Scope)
	params.Set("access_type", "offline")
	params.Set("prompt", "consent")
	params.Set("state", state)
	if loginHint != "" {
		params.Set("login_hint", loginHint)
	}
	return c.cfg.AuthURL + "?" + params.Encode()
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Error        string `json:"error"`
	ErrorDesc    string `json:"error_description"`
}

// ExchangeCode trades an authorization code for tokens. Nothing is persisted
// here; on failure the caller must not store partial credentials.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("redirect_uri", c.cfg.RedirectURI)
	return c.postToken(ctx, form)
}

// RefreshToken exchanges a refresh token for a fresh access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	return c.postToken(ctx, form)
}

func (c *Client) postToken(ctx context.Context, form url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "building token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "calling token endpoint")
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return nil, errors.Wrapf(err, "decoding token response (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		desc := tr.ErrorDesc
		if desc == "" {
			desc = tr.Error
		}
		if desc == "" {
			desc = strings.TrimSpace(string(raw))
		}
		return nil, errors.Errorf("token endpoint returned %d: %s", resp.StatusCode, desc)
	}

	return &Token{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    c.now().UTC().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}

// Revoke invalidates a refresh or access token remotely. Best-effort: the
// caller clears local credentials regardless of the outcome here.
func (c *Client) Revoke(ctx context.Context, token string) error {
	form := url.Values{}
	form.Set("token", token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "building revoke request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "calling revoke endpoint")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return errors.Errorf("revoke endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}

type sendResponse struct {
	ID    string `json:"id"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SendMessage builds an RFC 2822 message, wraps it in the Gmail raw format
// and posts it. A provider 401 comes back as ErrUnauthorized so the caller
// can refresh and retry exactly once.
func (c *Client) SendMessage(ctx context.Context, accessToken, from, to, subject, body string) (string, error) {
	raw := buildMIME(from, to, subject, body)
	payload, err := json.Marshal(map[string]string{
		"raw": base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(raw)),
	})
	if err != nil {
		return "", errors.Wrap(err, "encoding send payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SendURL, strings.NewReader(string(payload)))
	if err != nil {
		return "", errors.Wrap(err, "building send request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling send endpoint")
	}
	defer resp.Body.Close()

	rawBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrUnauthorized
	}
	var sr sendResponse
	if err := json.Unmarshal(rawBody, &sr); err != nil {
		return "", errors.Wrapf(err, "decoding send response (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		msg := sr.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(string(rawBody))
		}
		return "", errors.Errorf("send endpoint returned %d: %s", resp.StatusCode, msg)
	}
	return sr.ID, nil
}

func buildMIME(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}
