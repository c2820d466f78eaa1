package submission

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vestahome/designer-hub/internal/form"
	"github.com/vestahome/designer-hub/internal/model"
)

// Inserter writes one assembled payload as a single row.
type Inserter interface {
	InsertSubmission(ctx context.Context, payload map[string]any) (*model.Submission, error)
}

// Hook runs after a submission is committed. Hooks are best-effort: their
// outcome never affects the submission.
type Hook func(ctx context.Context, r model.Receipt)

// Service assembles and stores submissions.
type Service struct {
	schema   *form.Schema
	inserter Inserter
	hooks    []Hook
	wg       sync.WaitGroup
}

// NewService creates a Service writing through inserter.
func NewService(schema *form.Schema, inserter Inserter, hooks ...Hook) *Service {
	return &Service{schema: schema, inserter: inserter, hooks: hooks}
}

// Submit stores the assembled answers. On success each hook is started on
// its own goroutine and the stored record is returned without waiting.
func (s *Service) Submit(ctx context.Context, answers form.Answers, identity *model.Identity) (*model.Submission, error) {
	payload := Assemble(answers, s.schema, identity)

	sub, err := s.inserter.InsertSubmission(ctx, payload)
	if err != nil {
		zap.L().Error("submission insert failed",
			zap.String("project_id", payload.String(form.FieldProjectID)),
			zap.Error(err),
		)
		return nil, eris.Wrap(err, "submission: insert")
	}

	zap.L().Info("submission stored",
		zap.String("id", sub.ID),
		zap.String("project_id", sub.ProjectID),
		zap.String("submitted_by", sub.SubmittedBy),
	)

	receipt := model.ReceiptFor(sub)
	hookCtx := context.WithoutCancel(ctx)
	for _, h := range s.hooks {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					zap.L().Error("post-commit hook panicked", zap.Any("panic", r), zap.String("submission", sub.ID))
				}
			}()
			h(hookCtx, receipt)
		}()
	}
	return sub, nil
}

// Wait blocks until every hook started so far has returned.
func (s *Service) Wait() {
	s.wg.Wait()
}
