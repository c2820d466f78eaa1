package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vestahome/designer-hub/internal/project"
	"github.com/vestahome/designer-hub/internal/wizard"
)

type sessionResponse struct {
	ID     string           `json:"id"`
	View   wizard.View      `json:"view"`
	Lookup *project.Outcome `json:"lookup,omitempty"`
}

func (s *Server) owner(r *http.Request) string {
	return identityFrom(r.Context()).Email
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, view := s.deps.Sessions.Create(s.owner(r))
	writeJSON(w, http.StatusCreated, sessionResponse{ID: id, View: view})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.deps.Sessions.View(id, s.owner(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, View: view})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Sessions.Delete(chi.URLParam(r, "id"), s.owner(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// step builds a handler applying one transition and returning the new view.
func (s *Server) step(fn func(*wizard.Wizard) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.apply(w, r, fn)
	}
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request, fn func(*wizard.Wizard) error) {
	id := chi.URLParam(r, "id")
	var view wizard.View
	err := s.deps.Sessions.Do(id, s.owner(r), func(wz *wizard.Wizard) error {
		if err := fn(wz); err != nil {
			return err
		}
		view = wz.Snapshot()
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, View: view})
}

func (s *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Step int `json:"step"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.apply(w, r, func(wz *wizard.Wizard) error { return wz.JumpTo(req.Step) })
}

type changeRequest struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// handleChange applies one edit. An edit to a long enough project id also
// runs the directory lookup before responding.
func (s *Server) handleChange(w http.ResponseWriter, r *http.Request) {
	var req changeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	owner := s.owner(r)
	if err := s.deps.Sessions.Do(id, owner, func(wz *wizard.Wizard) error {
		return wz.Change(req.Name, req.Value)
	}); err != nil {
		writeError(w, r, err)
		return
	}

	var out *project.Outcome
	if project.ShouldAutofill(req.Name, req.Value) {
		o, err := s.autofill(r.Context(), id, owner)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out = &o
	}
	s.respondView(w, r, id, owner, out)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	owner := s.owner(r)
	out, err := s.autofill(r.Context(), id, owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respondView(w, r, id, owner, &out)
}

func (s *Server) autofill(ctx context.Context, id, owner string) (project.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.LookupTimeout)
	defer cancel()
	var finder project.Finder
	if s.deps.Store != nil {
		finder = s.deps.Store
	}
	return project.Autofill(ctx, finder, s.deps.Sessions.Locker(id, owner))
}

func (s *Server) respondView(w http.ResponseWriter, r *http.Request, id, owner string, out *project.Outcome) {
	view, err := s.deps.Sessions.View(id, owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, View: view, Lookup: out})
}

type submitResponse struct {
	ID           string      `json:"id"`
	View         wizard.View `json:"view"`
	SubmissionID string      `json:"submission_id"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub, view, err := s.deps.Sessions.Submit(r.Context(), id, identityFrom(r.Context()), s.deps.Submitter)
	if err != nil && view.Phase == "" {
		writeError(w, r, err)
		return
	}
	if err != nil {
		// The write failed after the wizard locked; the view carries the
		// error and is back on the last step.
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": view.Error, "view": view})
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{ID: id, View: view, SubmissionID: sub.ID})
}
