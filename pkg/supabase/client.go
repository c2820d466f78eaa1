// Package supabase talks to the Supabase Auth (GoTrue) REST API.
package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/vestahome/designer-hub/internal/model"
	"github.com/vestahome/designer-hub/internal/resilience"
)

// Client resolves and ends identity-provider sessions.
type Client interface {
	// AuthorizeURL returns where to send a browser to sign in with provider.
	AuthorizeURL(provider, redirectTo string) string
	// GetUser returns the user owning accessToken, or nil when the token is
	// missing, expired or revoked.
	GetUser(ctx context.Context, accessToken string) (*model.Identity, error)
	// Logout revokes accessToken.
	Logout(ctx context.Context, accessToken string) error
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	baseURL string
	anonKey string
	http    *http.Client
	retry   resilience.RetryConfig
}

// NewClient creates a client for the project at projectURL authenticated with
// its anon key.
func NewClient(projectURL, anonKey string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(projectURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		retry:   resilience.RetryConfig{MaxAttempts: 2},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) AuthorizeURL(provider, redirectTo string) string {
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return c.baseURL + "/auth/v1/authorize?" + q.Encode()
}

type userResponse struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (c *httpClient) GetUser(ctx context.Context, accessToken string) (*model.Identity, error) {
	if accessToken == "" {
		return nil, nil
	}

	cfg := c.retry
	cfg.OnRetry = resilience.RetryLogger("supabase", "get_user")

	return resilience.DoVal(ctx, cfg, func(ctx context.Context) (*model.Identity, error) {
		status, body, err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken)
		if err != nil {
			return nil, err
		}
		switch {
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return nil, nil
		case status < 200 || status >= 300:
			return nil, statusError("get user", status, body)
		}

		var u userResponse
		if err := json.Unmarshal(body, &u); err != nil {
			return nil, eris.Wrap(err, "supabase: unmarshal user")
		}
		return &model.Identity{ID: u.ID, Email: u.Email, Metadata: u.UserMetadata}, nil
	})
}

func (c *httpClient) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	status, body, err := c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken)
	if err != nil {
		return err
	}
	// An already-invalid token is as good as logged out.
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil
	}
	if status < 200 || status >= 300 {
		return statusError("logout", status, body)
	}
	return nil
}

func (c *httpClient) do(ctx context.Context, method, path, token string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, eris.Wrap(err, "supabase: create request")
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, eris.Wrap(err, "supabase: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, eris.Wrap(err, "supabase: read response")
	}
	return resp.StatusCode, body, nil
}

func statusError(op string, status int, body []byte) error {
	err := eris.Errorf("supabase: %s: unexpected status %d: %s", op, status, string(body))
	if resilience.IsTransientHTTPStatus(status) {
		return resilience.NewTransientError(err, status)
	}
	return err
}
