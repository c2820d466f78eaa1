package wizard

import "github.com/vestahome/designer-hub/internal/form"

// LookupTicket identifies one project lookup started by BeginLookup.
type LookupTicket struct {
	ProjectID string
	seq       uint64
}

// BeginLookup marks a project lookup as pending for the current project id.
// It returns false when there is nothing to look up.
func (w *Wizard) BeginLookup() (LookupTicket, bool) {
	if w.phase != PhaseConfirming {
		return LookupTicket{}, false
	}
	id := w.answers.Trimmed(form.FieldProjectID)
	if id == "" {
		return LookupTicket{}, false
	}
	w.lookupSeq++
	w.lookupPending = true
	return LookupTicket{ProjectID: id, seq: w.lookupSeq}, true
}

// ApplyLookup runs merge against the answers if t is still the newest
// lookup and the project context is still open. Superseded or late results
// are dropped. It reports whether merge ran.
func (w *Wizard) ApplyLookup(t LookupTicket, merge func(form.Answers)) bool {
	if t.seq != w.lookupSeq {
		return false
	}
	w.lookupPending = false
	if w.phase != PhaseConfirming || merge == nil {
		return false
	}
	merge(w.answers)
	return true
}

// LookupPending reports whether the newest lookup has not landed yet.
func (w *Wizard) LookupPending() bool { return w.lookupPending }
