package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vestahome/designer-hub/internal/export"
	"github.com/vestahome/designer-hub/internal/model"
	"github.com/vestahome/designer-hub/internal/store"
)

// summary is one row of the history list.
type summary struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Market      string    `json:"market"`
	Address     string    `json:"address"`
	SubmittedAt time.Time `json:"submitted_at"`
	Date        string    `json:"date"`
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	subs, err := s.deps.Store.ListSubmissions(r.Context(), store.SubmissionFilter{
		SubmittedBy: s.owner(r),
		ProjectID:   q.Get("project_id"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]summary, 0, len(subs))
	for _, sub := range subs {
		out = append(out, summary{
			ID:          sub.ID,
			ProjectID:   sub.ProjectID,
			Market:      sub.Market,
			Address:     sub.Address,
			SubmittedAt: sub.SubmittedAt,
			Date:        export.FormatDate(sub.SubmittedAt, s.cfg.Location),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": out})
}

// handleGetSubmission renders one submission section by section. Another
// user's submission is reported as not found.
func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := s.deps.Store.GetSubmission(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ownedBy(sub, s.owner(r)) {
		writeError(w, r, store.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, export.Build(s.deps.Schema, sub, s.cfg.Location))
}

func ownedBy(sub *model.Submission, email string) bool {
	return strings.EqualFold(strings.TrimSpace(sub.SubmittedBy), strings.TrimSpace(email))
}
