package server

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/vestahome/designer-hub/internal/model"
)

type ctxKey struct{}

// identityFrom returns the caller resolved by the identify middleware.
func identityFrom(ctx context.Context) *model.Identity {
	id, _ := ctx.Value(ctxKey{}).(*model.Identity)
	return id
}

func withIdentity(ctx context.Context, id *model.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// accessToken reads the bearer token, falling back to the session cookie.
func (s *Server) accessToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// identify resolves the caller when a token is present. Anonymous requests
// pass through; requireIdentity rejects them where sign-in is needed.
func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := s.accessToken(r)
		if tok == "" || s.deps.Auth == nil {
			next.ServeHTTP(w, r)
			return
		}
		id, err := s.deps.Auth.GetUser(r.Context(), tok)
		if err != nil {
			zap.L().Warn("identity lookup failed", zap.Error(err))
		}
		if id != nil && id.Email != "" {
			r = r.WithContext(withIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identityFrom(r.Context()) == nil {
			writeError(w, r, errUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// greetingName is the first name shown in the hub header.
func greetingName(id *model.Identity) string {
	if f := strings.Fields(id.FullName()); len(f) > 0 {
		return f[0]
	}
	local, _, _ := strings.Cut(id.Email, "@")
	return local
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	redirect := r.URL.Query().Get("redirect")
	if redirect == "" {
		redirect = strings.TrimRight(s.cfg.SiteURL, "/") + "/auth/callback"
	}
	http.Redirect(w, r, s.deps.Auth.AuthorizeURL(s.cfg.Provider, redirect), http.StatusFound)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if tok := s.accessToken(r); tok != "" {
		if err := s.deps.Auth.Logout(r.Context(), tok); err != nil {
			writeError(w, r, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	ID           string `json:"id,omitempty"`
	Email        string `json:"email"`
	FullName     string `json:"full_name,omitempty"`
	GreetingName string `json:"greeting_name"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	writeJSON(w, http.StatusOK, meResponse{
		ID:           id.ID,
		Email:        id.Email,
		FullName:     id.FullName(),
		GreetingName: greetingName(id),
	})
}
