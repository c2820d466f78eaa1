// Package server exposes the project-close wizard, identity, history and
// receipt endpoints over HTTP.
package server

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vestahome/designer-hub/internal/form"
	"github.com/vestahome/designer-hub/internal/model"
	"github.com/vestahome/designer-hub/internal/receipt"
	"github.com/vestahome/designer-hub/internal/session"
	"github.com/vestahome/designer-hub/internal/store"
	"github.com/vestahome/designer-hub/internal/wizard"
	"github.com/vestahome/designer-hub/pkg/supabase"
)

// DefaultCookieName is the cookie the identity provider's browser client
// stores the access token in.
const DefaultCookieName = "sb-access-token"

// Store is the persistence the handlers read from.
type Store interface {
	FindProject(ctx context.Context, id string) (*model.Project, error)
	ListSubmissions(ctx context.Context, filter store.SubmissionFilter) ([]model.Submission, error)
	GetSubmission(ctx context.Context, id string) (*model.Submission, error)
	Ping(ctx context.Context) error
}

// Notifier sends receipts on request.
type Notifier interface {
	Notify(ctx context.Context, r model.Receipt) (receipt.Result, error)
}

// Config holds the HTTP-facing settings.
type Config struct {
	AllowedOrigins []string
	SiteURL        string
	CookieName     string
	Provider       string
	Location       *time.Location
	LookupTimeout  time.Duration
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Schema    *form.Schema
	Sessions  *session.Manager
	Store     Store
	Submitter session.Submitter
	Notifier  Notifier
	Auth      supabase.Client
}

// Server routes requests to handlers.
type Server struct {
	cfg  Config
	deps Deps
}

// New creates a Server, filling unset config with defaults.
func New(cfg Config, deps Deps) *Server {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.Provider == "" {
		cfg.Provider = "google"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 5 * time.Second
	}
	if len(cfg.AllowedOrigins) == 0 {
		if o := originOf(cfg.SiteURL); o != "" {
			cfg.AllowedOrigins = []string{o}
		}
	}
	return &Server{cfg: cfg, deps: deps}
}

// corsOptions allows credentials only for an explicit origin list; browsers
// reject credentialed responses carrying a wildcard origin.
func (s *Server) corsOptions() cors.Options {
	credentials := len(s.cfg.AllowedOrigins) > 0
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" {
			credentials = false
		}
	}
	return cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: credentials,
		MaxAge:           300,
	}
}

func originOf(siteURL string) string {
	u, err := url.Parse(siteURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(s.corsOptions()))
	r.Use(s.identify)

	r.Get("/health", s.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/signin", s.handleSignIn)
		r.Post("/signout", s.handleSignOut)
		r.With(requireIdentity).Get("/me", s.handleMe)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/schema", s.handleSchema)
		r.With(requireIdentity).Post("/send-receipt", s.handleSendReceipt)

		r.Group(func(r chi.Router) {
			r.Use(requireIdentity)

			r.Post("/sessions", s.handleCreateSession)
			r.Route("/sessions/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Patch("/answers", s.handleChange)
				r.Post("/lookup", s.handleLookup)
				r.Post("/confirm", s.step((*wizard.Wizard).Confirm))
				r.Post("/unconfirm", s.step((*wizard.Wizard).Unconfirm))
				r.Post("/next", s.step((*wizard.Wizard).GoNext))
				r.Post("/prev", s.step((*wizard.Wizard).GoPrev))
				r.Post("/jump", s.handleJump)
				r.Post("/submit", s.handleSubmit)
				r.Post("/reset", s.step((*wizard.Wizard).Reset))
			})

			r.Get("/submissions", s.handleListSubmissions)
			r.Get("/submissions/{id}", s.handleGetSubmission)
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if s.deps.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Store.Ping(ctx); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	body := map[string]any{"status": status}
	if s.deps.Sessions != nil {
		body["sessions"] = s.deps.Sessions.Stats().Active
	}
	writeJSON(w, code, body)
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Schema)
}
