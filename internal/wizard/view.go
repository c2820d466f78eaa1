package wizard

import "github.com/vestahome/designer-hub/internal/form"

// SectionHeader is the display header of a section.
type SectionHeader struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Icon     string `json:"icon"`
}

// ProjectContext is the confirmed project identification shown above the
// questionnaire.
type ProjectContext struct {
	ProjectID string `json:"project_id"`
	Market    string `json:"market"`
	Address   string `json:"address"`
}

// View is a serializable snapshot of a wizard for clients.
type View struct {
	Phase         Phase           `json:"phase"`
	CanConfirm    bool            `json:"can_confirm"`
	LookupPending bool            `json:"lookup_pending"`
	Context       ProjectContext  `json:"context"`
	Confirm       []form.Control  `json:"confirm,omitempty"`
	Steps         []SectionHeader `json:"steps"`
	Progress      *Progress       `json:"progress,omitempty"`
	Section       *SectionHeader  `json:"section,omitempty"`
	Controls      []form.Control  `json:"controls,omitempty"`
	Missing       []string        `json:"missing,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// Snapshot renders the wizard's current state. Missing lists visible
// required fields still empty on the current step; it is advisory only.
func (w *Wizard) Snapshot() View {
	v := View{
		Phase:         w.phase,
		CanConfirm:    w.CanConfirm(),
		LookupPending: w.lookupPending,
		Context: ProjectContext{
			ProjectID: w.answers.String(form.FieldProjectID),
			Market:    w.answers.String(form.FieldMarket),
			Address:   w.answers.String(form.FieldAddress),
		},
		Error: w.submitErr,
	}
	for _, sec := range w.schema.Sections {
		v.Steps = append(v.Steps, header(sec))
	}

	switch w.phase {
	case PhaseConfirming:
		for _, f := range w.schema.Confirm {
			v.Confirm = append(v.Confirm, form.Render(f, w.answers))
		}
		v.Missing = form.MissingRequired(w.schema.Confirm, w.answers)
	case PhaseEditing, PhaseSubmitting:
		p := w.Progress()
		sec := w.Section()
		h := header(sec)
		v.Progress = &p
		v.Section = &h
		v.Controls = form.RenderSection(sec, w.answers)
		v.Missing = form.MissingRequired(sec.Fields, w.answers)
	}
	return v
}

func header(sec form.Section) SectionHeader {
	return SectionHeader{ID: sec.ID, Title: sec.Title, Subtitle: sec.Subtitle, Icon: sec.Icon}
}
