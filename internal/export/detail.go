// Package export presents stored submissions: a per-section detail view for
// history screens and an xlsx workbook for offline review.
package export

import (
	"fmt"
	"time"

	"github.com/vestahome/designer-hub/internal/form"
	"github.com/vestahome/designer-hub/internal/model"
)

// Blank is shown for unanswered values.
const Blank = "—"

// FormatValue renders a stored answer for people: booleans as Yes/No and
// unanswered values as Blank.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return Blank
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case string:
		if t == "" {
			return Blank
		}
		return t
	default:
		return fmt.Sprint(t)
	}
}

// FormatDate renders a submission time as in "Mon, Jun 2, 2025, 3:04 PM".
func FormatDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("Mon, Jan 2, 2006, 3:04 PM")
}

// Item is one answered question.
type Item struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Group is one section of a detail view.
type Group struct {
	ID    string `json:"id"`
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Detail is the read-only view of one submission.
type Detail struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Market      string    `json:"market"`
	Address     string    `json:"address"`
	SubmittedBy string    `json:"submitted_by"`
	SubmittedAt time.Time `json:"submitted_at"`
	Date        string    `json:"date"`
	Groups      []Group   `json:"groups"`
}

// Build groups the answered fields of sub by section. Unanswered fields and
// sections with no answers are left out.
func Build(schema *form.Schema, sub *model.Submission, loc *time.Location) Detail {
	d := Detail{
		ID:          sub.ID,
		ProjectID:   sub.ProjectID,
		Market:      sub.Market,
		Address:     sub.Address,
		SubmittedBy: sub.SubmittedBy,
		SubmittedAt: sub.SubmittedAt,
		Date:        FormatDate(sub.SubmittedAt, loc),
	}

	for _, sec := range schema.Sections {
		g := Group{ID: sec.ID, Icon: sec.Icon, Title: sec.Title}
		for _, f := range sec.Fields {
			v := sub.Answers[f.Name]
			if form.IsEmpty(v) {
				continue
			}
			g.Items = append(g.Items, Item{Name: f.Name, Label: f.Label, Value: FormatValue(v)})
		}
		if len(g.Items) > 0 {
			d.Groups = append(d.Groups, g)
		}
	}
	return d
}
