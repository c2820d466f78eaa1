package form

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Editor funnels every edit through the schema's per-type contract and into
// a single answer map.
type Editor struct {
	schema  *Schema
	answers Answers
	others  map[string]string // companion key -> parent field name
}

// NewEditor binds schema and answers. The answer map is shared, not copied.
func NewEditor(schema *Schema, answers Answers) *Editor {
	others := make(map[string]string)
	for _, f := range schema.Fields() {
		if f.Type == TypeYesNoOther {
			others[OtherKey(f.Name)] = f.Name
		}
	}
	return &Editor{schema: schema, answers: answers, others: others}
}

// Answers returns the live answer map.
func (e *Editor) Answers() Answers {
	return e.answers
}

// Change validates raw for the named key and stores it. Companion keys of
// yes_no_other fields accept any text and are kept when the parent moves
// away from Other.
func (e *Editor) Change(name string, raw any) error {
	if _, ok := e.others[name]; ok {
		s, ok := raw.(string)
		if !ok {
			return eris.Wrapf(ErrInvalidValue, "%s expects text", name)
		}
		e.answers.Set(name, s)
		return nil
	}

	f := e.schema.Field(name)
	if f == nil {
		return eris.Wrapf(ErrUnknownField, "%q", name)
	}
	v, err := Normalize(*f, raw)
	if err != nil {
		return err
	}
	e.answers.Set(name, v)
	return nil
}

// MissingRequired lists the visible required fields among fields whose
// answer is still empty. Whitespace-only text counts as empty.
func MissingRequired(fields []Field, answers Answers) []string {
	var missing []string
	for _, f := range fields {
		if !f.Required || Resolve(f, answers) == Hidden {
			continue
		}
		v := answers[f.Name]
		if s, ok := v.(string); ok {
			v = strings.TrimSpace(s)
		}
		if IsEmpty(v) {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
