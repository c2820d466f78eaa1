// Package project resolves a project id against the studio's project
// directory and autofills the confirmation answers from the result.
package project

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/vestahome/designer-hub/internal/form"
	"github.com/vestahome/designer-hub/internal/model"
	"github.com/vestahome/designer-hub/internal/wizard"
)

// AutofillMinLength is the shortest project id that triggers an automatic
// lookup while typing.
const AutofillMinLength = 4

// Finder looks up a project by exact id. It returns nil, nil when no
// project matches.
type Finder interface {
	FindProject(ctx context.Context, id string) (*model.Project, error)
}

// Status classifies a lookup outcome.
type Status string

const (
	StatusFound    Status = "found"
	StatusNotFound Status = "not_found"
	StatusFailed   Status = "failed"
	StatusSkipped  Status = "skipped"
)

// Outcome is the result of a lookup. Callers treat not-found and failed the
// same way (answers untouched); the distinction is kept for logging and
// for clients that want to show it.
type Outcome struct {
	Status Status         `json:"status"`
	Record *model.Project `json:"record,omitempty"`
}

// Lookup performs a single point lookup. Errors are absorbed into the
// outcome rather than returned.
func Lookup(ctx context.Context, finder Finder, id string) Outcome {
	id = strings.TrimSpace(id)
	if id == "" || finder == nil {
		return Outcome{Status: StatusSkipped}
	}

	rec, err := finder.FindProject(ctx, id)
	if err != nil {
		zap.L().Warn("project lookup failed", zap.String("project_id", id), zap.Error(err))
		return Outcome{Status: StatusFailed}
	}
	if rec == nil {
		zap.L().Debug("project not found", zap.String("project_id", id))
		return Outcome{Status: StatusNotFound}
	}
	return Outcome{Status: StatusFound, Record: rec}
}

// Merge copies the present, non-empty record values over the answers.
// project_id is never touched.
func Merge(answers form.Answers, rec *model.Project) {
	if rec == nil {
		return
	}
	set := func(name, v string) {
		if v != "" {
			answers.Set(name, v)
		}
	}
	set(form.FieldMarket, rec.Market)
	set(form.FieldAddress, rec.Address)
	set(form.FieldSalesPersonnel, rec.SalesPerson)
	set(form.FieldDesigner, rec.Designer)
}

// Locker serializes access to a wizard. The lookup itself runs outside the
// lock so a slow directory does not block other edits.
type Locker func(fn func(w *wizard.Wizard) error) error

// Autofill looks up the wizard's current project id and merges the result
// if no newer lookup has started meanwhile.
func Autofill(ctx context.Context, finder Finder, with Locker) (Outcome, error) {
	var (
		ticket wizard.LookupTicket
		ok     bool
	)
	if err := with(func(w *wizard.Wizard) error {
		ticket, ok = w.BeginLookup()
		return nil
	}); err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Outcome{Status: StatusSkipped}, nil
	}

	out := Lookup(ctx, finder, ticket.ProjectID)

	err := with(func(w *wizard.Wizard) error {
		w.ApplyLookup(ticket, func(a form.Answers) {
			if out.Status == StatusFound {
				Merge(a, out.Record)
			}
		})
		return nil
	})
	return out, err
}

// ShouldAutofill reports whether an edit to name with value should trigger
// an automatic lookup. Length counts characters, not bytes.
func ShouldAutofill(name string, value any) bool {
	if name != form.FieldProjectID {
		return false
	}
	s, ok := value.(string)
	return ok && utf8.RuneCountInString(s) >= AutofillMinLength
}
