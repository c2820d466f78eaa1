// Package submission turns a finished answer map into a stored project-close
// record and fires the post-commit notifications.
package submission

import (
	"github.com/vestahome/designer-hub/internal/form"
	"github.com/vestahome/designer-hub/internal/model"
)

// SubmittedByKey is the payload key carrying the submitter's email.
const SubmittedByKey = "submitted_by"

// Payload is the storage-ready form of an answer map.
type Payload map[string]any

// Assemble builds the payload from a shallow copy of answers: an "Other"
// yes_no_other answer absorbs its companion text, every companion key is
// dropped, and submitted_by is attached.
func Assemble(answers form.Answers, schema *form.Schema, identity *model.Identity) Payload {
	payload := make(Payload, len(answers)+1)
	for k, v := range answers {
		payload[k] = v
	}

	for _, f := range schema.Fields() {
		if f.Type != form.TypeYesNoOther {
			continue
		}
		key := form.OtherKey(f.Name)
		if v, ok := payload[f.Name].(string); ok && v == form.ChoiceOther {
			other, _ := payload[key].(string)
			payload[f.Name] = "Other: " + other
		}
		delete(payload, key)
	}

	payload[SubmittedByKey] = identity.SubmitterEmail()
	return payload
}

// String returns the string value at key, or "".
func (p Payload) String(key string) string {
	s, _ := p[key].(string)
	return s
}
