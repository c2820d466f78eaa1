package model

import (
	"time"

	"github.com/rotisserie/eris"
)

var errMissingProjectID = eris.New("model: project id is required")

// UnknownSubmitter is recorded as submitted_by when no identity is available.
const UnknownSubmitter = "unknown"

// Identity is the signed-in user as reported by the identity provider.
type Identity struct {
	ID       string         `json:"id,omitempty"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata,omitempty"`
}

// FullName returns the full_name metadata entry, if any.
func (i *Identity) FullName() string {
	if i == nil {
		return ""
	}
	name, _ := i.Metadata["full_name"].(string)
	return name
}

// SubmitterEmail returns the identity's email or UnknownSubmitter.
func (i *Identity) SubmitterEmail() string {
	if i == nil || i.Email == "" {
		return UnknownSubmitter
	}
	return i.Email
}

// Submission is one stored project-close form.
type Submission struct {
	ID          string         `json:"id"`
	ProjectID   string         `json:"project_id"`
	Market      string         `json:"market"`
	Address     string         `json:"address"`
	SubmittedBy string         `json:"submitted_by"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Answers     map[string]any `json:"answers"`
}

// Receipt carries what the confirmation email needs about a submission.
type Receipt struct {
	SubmitterEmail string    `json:"submitterEmail"`
	ProjectID      string    `json:"projectId"`
	Market         string    `json:"market"`
	Address        string    `json:"address"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// ReceiptFor builds the receipt of a stored submission.
func ReceiptFor(s *Submission) Receipt {
	return Receipt{
		SubmitterEmail: s.SubmittedBy,
		ProjectID:      s.ProjectID,
		Market:         s.Market,
		Address:        s.Address,
		SubmittedAt:    s.SubmittedAt,
	}
}
