// Package store persists projects and project-close submissions.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/vestahome/designer-hub/internal/form"
	"github.com/vestahome/designer-hub/internal/model"
	"github.com/vestahome/designer-hub/internal/submission"
)

// Default table locations.
const (
	DefaultProjectsSchema    = "vesta"
	DefaultSubmissionsSchema = "designer_hub"
	ProjectsTable            = "projects"
	SubmissionsTable         = "project_close_submissions"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ErrNotFound is returned by lookups that must name an existing row.
var ErrNotFound = eris.New("store: not found")

// SubmissionFilter narrows ListSubmissions. Results are newest first.
type SubmissionFilter struct {
	SubmittedBy string `json:"submitted_by,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

func (f SubmissionFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return defaultListLimit
	case f.Limit > maxListLimit:
		return maxListLimit
	}
	return f.Limit
}

func (f SubmissionFilter) offset() int {
	return max(f.Offset, 0)
}

// Store defines persistence for the project directory and submissions.
type Store interface {
	// Projects
	FindProject(ctx context.Context, id string) (*model.Project, error)
	UpsertProjects(ctx context.Context, projects []model.Project) (int64, error)

	// Submissions
	InsertSubmission(ctx context.Context, payload map[string]any) (*model.Submission, error)
	ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]model.Submission, error)
	GetSubmission(ctx context.Context, id string) (*model.Submission, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// newSubmission derives the row columns from an assembled payload.
func newSubmission(payload map[string]any) (*model.Submission, []byte, error) {
	str := func(key string) string {
		s, _ := payload[key].(string)
		return s
	}

	if str(form.FieldProjectID) == "" {
		return nil, nil, eris.New("store: submission has no project_id")
	}
	answers, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, eris.Wrap(err, "store: marshal answers")
	}

	submittedBy := str(submission.SubmittedByKey)
	if submittedBy == "" {
		submittedBy = model.UnknownSubmitter
	}

	return &model.Submission{
		ID:          uuid.New().String(),
		ProjectID:   str(form.FieldProjectID),
		Market:      str(form.FieldMarket),
		Address:     str(form.FieldAddress),
		SubmittedBy: submittedBy,
		SubmittedAt: time.Now().UTC().Truncate(time.Microsecond),
		Answers:     payload,
	}, answers, nil
}

func decodeAnswers(sub *model.Submission, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &sub.Answers); err != nil {
		return eris.Wrapf(err, "store: unmarshal answers for %s", sub.ID)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}
