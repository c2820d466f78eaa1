package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestahome/designer-hub/internal/resilience"
)

func TestAuthorizeURL(t *testing.T) {
	c := NewClient("https://abc.supabase.co/", "anon")
	got := c.AuthorizeURL("google", "https://vestahome.design/auth/callback")

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "abc.supabase.co", u.Host)
	assert.Equal(t, "/auth/v1/authorize", u.Path)
	assert.Equal(t, "google", u.Query().Get("provider"))
	assert.Equal(t, "https://vestahome.design/auth/callback", u.Query().Get("redirect_to"))

	assert.NotContains(t, c.AuthorizeURL("google", ""), "redirect_to")
}

func TestGetUser(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantEmail string
		wantNil   bool
		wantErr   bool
	}{
		{
			name:      "ok",
			status:    http.StatusOK,
			body:      `{"id":"u-1","email":"jane@vestahome.com","user_metadata":{"full_name":"Jane Doe"}}`,
			wantEmail: "jane@vestahome.com",
		},
		{name: "expired", status: http.StatusUnauthorized, body: `{"msg":"invalid JWT"}`, wantNil: true},
		{name: "forbidden", status: http.StatusForbidden, body: `{}`, wantNil: true},
		{name: "bad request", status: http.StatusBadRequest, body: `{}`, wantErr: true},
		{name: "garbage", status: http.StatusOK, body: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/auth/v1/user", r.URL.Path)
				assert.Equal(t, "anon-key", r.Header.Get("apikey"))
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			id, err := NewClient(srv.URL, "anon-key").GetUser(context.Background(), "tok")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, id)
				return
			}
			require.NotNil(t, id)
			assert.Equal(t, tt.wantEmail, id.Email)
			assert.Equal(t, "u-1", id.ID)
			assert.Equal(t, "Jane Doe", id.FullName())
		})
	}
}

func TestGetUserEmptyToken(t *testing.T) {
	id, err := NewClient("http://unused.invalid", "anon").GetUser(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestGetUserRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"id":"u-1","email":"a@b.c"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon", WithRetry(resilience.RetryConfig{MaxAttempts: 2, InitialBackoff: time.Millisecond}))
	id, err := c.GetUser(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", id.Email)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"no content", http.StatusNoContent, false},
		{"already invalid", http.StatusUnauthorized, false},
		{"server error", http.StatusInternalServerError, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/auth/v1/logout", r.URL.Path)
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := NewClient(srv.URL, "anon").Logout(context.Background(), "tok")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
