// Package wizard sequences the project-close questionnaire: the project
// confirmation gate, step navigation across sections, and the submit
// lifecycle. A Wizard is not safe for concurrent use; callers serialize
// access (see internal/session).
package wizard

import (
	"github.com/rotisserie/eris"

	"github.com/vestahome/designer-hub/internal/form"
)

// Phase is the coarse state of a wizard.
type Phase string

const (
	PhaseConfirming Phase = "confirming"
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseSubmitted  Phase = "submitted"
)

var (
	ErrGateIncomplete = eris.New("wizard: project id, market and address are required")
	ErrStepOutOfRange = eris.New("wizard: step out of range")
	ErrWrongPhase     = eris.New("wizard: action not allowed in current phase")
	ErrNotLastStep    = eris.New("wizard: submit is only available on the last step")
	ErrSubmitInFlight = eris.New("wizard: submission already in progress")
	ErrLocked         = eris.New("wizard: answers are locked")
	ErrContextLocked  = eris.New("wizard: project context is confirmed; change it first")
)

// confirmFields are the answers that make up the confirmed project context.
var confirmFields = map[string]bool{
	form.FieldProjectID: true,
	form.FieldMarket:    true,
	form.FieldAddress:   true,
}

// Wizard holds one user's in-progress questionnaire.
type Wizard struct {
	schema  *form.Schema
	answers form.Answers
	editor  *form.Editor

	phase     Phase
	cursor    int
	submitErr string

	lookupSeq     uint64
	lookupPending bool
}

// New starts a wizard in the confirming phase with a fresh answer map.
func New(schema *form.Schema) *Wizard {
	w := &Wizard{schema: schema}
	w.reset()
	return w
}

func (w *Wizard) reset() {
	w.answers = form.InitialState(w.schema)
	w.editor = form.NewEditor(w.schema, w.answers)
	w.phase = PhaseConfirming
	w.cursor = 0
	w.submitErr = ""
	w.lookupPending = false
}

// Schema returns the schema the wizard walks.
func (w *Wizard) Schema() *form.Schema { return w.schema }

// Answers returns the live answer map.
func (w *Wizard) Answers() form.Answers { return w.answers }

// Phase returns the current phase.
func (w *Wizard) Phase() Phase { return w.phase }

// Cursor returns the current section index. It is only meaningful while editing.
func (w *Wizard) Cursor() int { return w.cursor }

// SubmitError returns the message of the last failed submission, if any.
func (w *Wizard) SubmitError() string { return w.submitErr }

// Len returns the number of sections.
func (w *Wizard) Len() int { return len(w.schema.Sections) }

// Section returns the section under the cursor.
func (w *Wizard) Section() form.Section {
	return w.schema.Sections[w.cursor]
}

// Change applies one edit. Edits never move the cursor.
func (w *Wizard) Change(name string, value any) error {
	switch w.phase {
	case PhaseSubmitting, PhaseSubmitted:
		return ErrLocked
	case PhaseEditing:
		if confirmFields[name] {
			return ErrContextLocked
		}
	}
	return w.editor.Change(name, value)
}

// CanConfirm reports whether the gate into the questionnaire is open.
func (w *Wizard) CanConfirm() bool {
	return w.answers.Trimmed(form.FieldProjectID) != "" &&
		w.answers.String(form.FieldMarket) != "" &&
		w.answers.Trimmed(form.FieldAddress) != ""
}

// Confirm moves from confirming to the first section.
func (w *Wizard) Confirm() error {
	if w.phase != PhaseConfirming {
		return ErrWrongPhase
	}
	if !w.CanConfirm() {
		return ErrGateIncomplete
	}
	w.phase = PhaseEditing
	w.cursor = 0
	return nil
}

// Unconfirm reopens the project context for editing without clearing it.
func (w *Wizard) Unconfirm() error {
	if w.phase != PhaseEditing {
		return ErrWrongPhase
	}
	w.phase = PhaseConfirming
	w.cursor = 0
	return nil
}

// GoNext advances one section. It is a no-op on the last section.
func (w *Wizard) GoNext() error {
	if w.phase != PhaseEditing {
		return ErrWrongPhase
	}
	if w.cursor < w.Len()-1 {
		w.cursor++
	}
	return nil
}

// GoPrev steps back one section, or back to confirming from the first.
func (w *Wizard) GoPrev() error {
	if w.phase != PhaseEditing {
		return ErrWrongPhase
	}
	if w.cursor == 0 {
		w.phase = PhaseConfirming
		return nil
	}
	w.cursor--
	return nil
}

// JumpTo moves directly to section k. Intervening sections need not be
// complete.
func (w *Wizard) JumpTo(k int) error {
	if w.phase != PhaseEditing {
		return ErrWrongPhase
	}
	if k < 0 || k >= w.Len() {
		return eris.Wrapf(ErrStepOutOfRange, "step %d of %d", k, w.Len())
	}
	w.cursor = k
	return nil
}

// BeginSubmit locks the answers and returns a snapshot to assemble. It is
// only allowed from the last section.
func (w *Wizard) BeginSubmit() (form.Answers, error) {
	switch w.phase {
	case PhaseSubmitting:
		return nil, ErrSubmitInFlight
	case PhaseEditing:
	default:
		return nil, ErrWrongPhase
	}
	if w.cursor != w.Len()-1 {
		return nil, ErrNotLastStep
	}
	w.phase = PhaseSubmitting
	w.submitErr = ""
	return w.answers.Clone(), nil
}

// FinishSubmit records the outcome of a submission started by BeginSubmit.
// On failure the wizard returns to the last section with the error attached.
func (w *Wizard) FinishSubmit(err error) {
	if w.phase != PhaseSubmitting {
		return
	}
	if err != nil {
		w.phase = PhaseEditing
		w.cursor = w.Len() - 1
		w.submitErr = err.Error()
		return
	}
	w.phase = PhaseSubmitted
}

// Reset starts over after a successful submission.
func (w *Wizard) Reset() error {
	if w.phase == PhaseSubmitting {
		return ErrSubmitInFlight
	}
	w.reset()
	return nil
}

// Progress describes the cursor position for display.
type Progress struct {
	Step    int  `json:"step"`
	Total   int  `json:"total"`
	Percent int  `json:"percent"`
	IsFirst bool `json:"is_first"`
	IsLast  bool `json:"is_last"`
}

// Progress reports the 1-based step and completion percentage.
func (w *Wizard) Progress() Progress {
	n := w.Len()
	return Progress{
		Step:    w.cursor + 1,
		Total:   n,
		Percent: (w.cursor + 1) * 100 / n,
		IsFirst: w.cursor == 0,
		IsLast:  w.cursor == n-1,
	}
}
