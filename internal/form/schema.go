// Package form holds the project-close questionnaire: its declarative schema,
// the answer map derived from it, and the per-field interpretation rules used
// when rendering and editing answers.
package form

import (
	"github.com/rotisserie/eris"
)

// FieldType is the closed set of input kinds a question can take.
type FieldType string

const (
	TypeText       FieldType = "text"
	TypeURL        FieldType = "url"
	TypeTextarea   FieldType = "textarea"
	TypeSelect     FieldType = "select"
	TypeBoolean    FieldType = "boolean"
	TypeYesNoOther FieldType = "yes_no_other"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case TypeText, TypeURL, TypeTextarea, TypeSelect, TypeBoolean, TypeYesNoOther:
		return true
	default:
		return false
	}
}

// Conditional gates a field's visibility on another field's current answer.
type Conditional struct {
	Field string `json:"field" yaml:"field"`
	Value any    `json:"value" yaml:"value"`
}

// Field describes one question.
type Field struct {
	Name        string       `json:"name" yaml:"name"`
	Label       string       `json:"label" yaml:"label"`
	Type        FieldType    `json:"type" yaml:"type"`
	Required    bool         `json:"required" yaml:"required"`
	Options     []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Conditional *Conditional `json:"conditional,omitempty" yaml:"conditional,omitempty"`
	HelperText  string       `json:"helper_text,omitempty" yaml:"helper_text,omitempty"`
	Placeholder string       `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	OtherLabel  string       `json:"other_label,omitempty" yaml:"other_label,omitempty"`
	Rows        int          `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// Section is one wizard step.
type Section struct {
	ID       string  `json:"id" yaml:"id"`
	Title    string  `json:"title" yaml:"title"`
	Subtitle string  `json:"subtitle" yaml:"subtitle"`
	Icon     string  `json:"icon" yaml:"icon"`
	Fields   []Field `json:"fields" yaml:"fields"`
}

// Schema is the whole questionnaire. Confirm holds the pre-wizard project
// identification fields; Sections are walked in order by the wizard.
type Schema struct {
	Confirm  []Field   `json:"confirm" yaml:"confirm"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Field returns the definition with the given name from either the confirm
// fields or any section, or nil if not found.
func (s *Schema) Field(name string) *Field {
	for i := range s.Confirm {
		if s.Confirm[i].Name == name {
			return &s.Confirm[i]
		}
	}
	for i := range s.Sections {
		for j := range s.Sections[i].Fields {
			if s.Sections[i].Fields[j].Name == name {
				return &s.Sections[i].Fields[j]
			}
		}
	}
	return nil
}

// Fields returns every section field in wizard order. Confirm fields are not
// included.
func (s *Schema) Fields() []Field {
	var out []Field
	for _, sec := range s.Sections {
		out = append(out, sec.Fields...)
	}
	return out
}

// Labels maps every field name to its display label.
func (s *Schema) Labels() map[string]string {
	labels := make(map[string]string)
	for _, f := range s.Confirm {
		labels[f.Name] = f.Label
	}
	for _, f := range s.Fields() {
		labels[f.Name] = f.Label
	}
	return labels
}

// Validate checks the structural invariants the rest of the package relies
// on: unique names (including generated companion keys), known types,
// options on selects, and conditionals that point at real fields.
func (s *Schema) Validate() error {
	if len(s.Sections) == 0 {
		return eris.New("form: schema has no sections")
	}

	seen := make(map[string]bool)
	claim := func(name string) error {
		if name == "" {
			return eris.New("form: field with empty name")
		}
		if seen[name] {
			return eris.Errorf("form: duplicate field name %q", name)
		}
		seen[name] = true
		return nil
	}

	all := append([]Field{}, s.Confirm...)
	all = append(all, s.Fields()...)

	for _, f := range all {
		if err := claim(f.Name); err != nil {
			return err
		}
		if !f.Type.Valid() {
			return eris.Errorf("form: field %q has unknown type %q", f.Name, f.Type)
		}
		if f.Type == TypeSelect && len(f.Options) == 0 {
			return eris.Errorf("form: select field %q has no options", f.Name)
		}
	}
	for _, f := range all {
		if f.Type == TypeYesNoOther {
			if err := claim(OtherKey(f.Name)); err != nil {
				return err
			}
		}
	}
	for _, f := range all {
		if f.Conditional == nil {
			continue
		}
		if s.Field(f.Conditional.Field) == nil {
			return eris.Errorf("form: field %q depends on unknown field %q", f.Name, f.Conditional.Field)
		}
	}
	return nil
}
