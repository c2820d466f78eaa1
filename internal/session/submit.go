package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/vestahome/designer-hub/internal/form"
	"github.com/vestahome/designer-hub/internal/model"
	"github.com/vestahome/designer-hub/internal/wizard"
)

// Submitter stores a snapshot of answers on behalf of identity.
type Submitter interface {
	Submit(ctx context.Context, answers form.Answers, identity *model.Identity) (*model.Submission, error)
}

// Submit drives the wizard's submit lifecycle. The write happens outside
// the session lock so reads of the session stay responsive; the wizard's
// submitting phase rejects concurrent submits and edits meanwhile.
func (m *Manager) Submit(ctx context.Context, id string, identity *model.Identity, svc Submitter) (*model.Submission, wizard.View, error) {
	owner := identity.SubmitterEmail()

	var answers form.Answers
	if err := m.Do(id, owner, func(w *wizard.Wizard) error {
		a, err := w.BeginSubmit()
		answers = a
		return err
	}); err != nil {
		return nil, wizard.View{}, err
	}

	sub, submitErr := svc.Submit(ctx, answers, identity)

	var view wizard.View
	if err := m.Do(id, owner, func(w *wizard.Wizard) error {
		w.FinishSubmit(submitErr)
		view = w.Snapshot()
		return nil
	}); err != nil {
		if submitErr != nil {
			return nil, wizard.View{}, err
		}
		// The row is stored; losing the session must not read as a failed
		// submit or the caller would insert it twice.
		zap.L().Warn("session gone after submit",
			zap.String("session_id", id),
			zap.String("submission_id", sub.ID),
			zap.Error(err),
		)
		return sub, wizard.View{Phase: wizard.PhaseSubmitted}, nil
	}
	return sub, view, submitErr
}
