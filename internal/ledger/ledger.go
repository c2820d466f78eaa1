// Package ledger mirrors committed submissions into a Notion database so the
// studio can track project closes alongside its other boards.
package ledger

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vestahome/designer-hub/internal/model"
	"github.com/vestahome/designer-hub/internal/submission"
	"github.com/vestahome/designer-hub/pkg/notion"
)

// Notion property names. Pages are keyed by PropProjectID.
const (
	PropName        = "Name"
	PropProjectID   = "Project ID"
	PropMarket      = "Market"
	PropAddress     = "Address"
	PropSubmittedBy = "Submitted By"
	PropSubmittedAt = "Submitted At"
)

// Pages is the project-keyed page store the ledger writes to.
type Pages interface {
	Put(ctx context.Context, key string, props notionapi.Properties) (notion.Written, error)
	Keys(ctx context.Context) (map[string]string, error)
}

// Ledger keeps one Notion page per project, refreshed on every submission.
type Ledger struct {
	pages Pages
}

// New creates a Ledger writing to pages.
func New(pages Pages) *Ledger {
	return &Ledger{pages: pages}
}

// Open creates a Ledger over the closings database db.
func Open(token, db string) *Ledger {
	return New(notion.Open(token, db, PropProjectID))
}

// Record creates the project's page, or updates it when one already exists.
// It returns the page id.
func (l *Ledger) Record(ctx context.Context, r model.Receipt) (string, error) {
	if r.ProjectID == "" {
		return "", eris.New("ledger: project id is required")
	}
	w, err := l.pages.Put(ctx, r.ProjectID, properties(r))
	if err != nil {
		return "", eris.Wrapf(err, "ledger: mirror %s", r.ProjectID)
	}
	zap.L().Debug("ledger: page written",
		zap.String("project_id", r.ProjectID),
		zap.String("page_id", w.PageID),
		zap.Bool("created", w.Created),
	)
	return w.PageID, nil
}

// Existing returns the project ids that already have a page.
func (l *Ledger) Existing(ctx context.Context) (map[string]bool, error) {
	keys, err := l.pages.Keys(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "ledger: list pages")
	}
	ids := make(map[string]bool, len(keys))
	for id := range keys {
		ids[id] = true
	}
	return ids, nil
}

// Hook adapts the ledger as a post-commit hook. Failures are logged only.
func (l *Ledger) Hook() submission.Hook {
	return func(ctx context.Context, r model.Receipt) {
		if _, err := l.Record(ctx, r); err != nil {
			zap.L().Warn("ledger: mirror failed", zap.String("project_id", r.ProjectID), zap.Error(err))
		}
	}
}

func properties(r model.Receipt) notionapi.Properties {
	title := r.ProjectID
	if r.Market != "" {
		title += " · " + r.Market
	}

	props := notionapi.Properties{
		PropName:        notion.Title(title),
		PropAddress:     notion.Text(r.Address),
		PropSubmittedBy: notion.Email(r.SubmitterEmail),
	}
	if r.Market != "" {
		props[PropMarket] = notion.Select(r.Market)
	}
	if !r.SubmittedAt.IsZero() {
		props[PropSubmittedAt] = notion.Date(r.SubmittedAt)
	}
	return props
}
