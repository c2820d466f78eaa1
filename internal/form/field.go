package form

import (
	"github.com/rotisserie/eris"
)

// Choices offered by a yes_no_other field.
const (
	ChoiceYes   = "Yes"
	ChoiceNo    = "No"
	ChoiceOther = "Other"
)

// YesNoOtherChoices lists the yes_no_other answers in display order.
var YesNoOtherChoices = []string{ChoiceYes, ChoiceNo, ChoiceOther}

// ErrInvalidValue is returned when an edit does not fit the field's contract.
var ErrInvalidValue = eris.New("form: invalid value")

// ErrUnknownField is returned when an edit names a key the schema does not define.
var ErrUnknownField = eris.New("form: unknown field")

// Visibility is the outcome of evaluating a field's conditional rule.
type Visibility int

const (
	Visible Visibility = iota
	Hidden
)

// Resolve decides whether f is shown given the current answers. A field with
// a conditional is visible only when the controlling answer equals the
// expected value exactly, type included: false, "" and nil are all distinct.
// Hiding a field never touches its stored answer.
func Resolve(f Field, answers Answers) Visibility {
	if f.Conditional == nil {
		return Visible
	}
	if strictEqual(answers[f.Conditional.Field], f.Conditional.Value) {
		return Visible
	}
	return Hidden
}

func strictEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	default:
		return false
	}
}

// Kind names the input abstraction presented for a field.
type Kind string

const (
	KindText        Kind = "input-text"
	KindURL         Kind = "input-url"
	KindTextarea    Kind = "textarea"
	KindSelect      Kind = "select"
	KindToggle      Kind = "toggle"
	KindChoiceOther Kind = "choice-other"
)

// Control is the render model for one field.
type Control struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Kind        Kind     `json:"kind"`
	Required    bool     `json:"required"`
	Visible     bool     `json:"visible"`
	Value       any      `json:"value"`
	Choices     []string `json:"choices,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	HelperText  string   `json:"helper_text,omitempty"`
	Rows        int      `json:"rows,omitempty"`
	OtherKey    string   `json:"other_key,omitempty"`
	OtherLabel  string   `json:"other_label,omitempty"`
	OtherValue  string   `json:"other_value,omitempty"`
	ShowOther   bool     `json:"show_other,omitempty"`
}

// Render interprets f against the current answers.
func Render(f Field, answers Answers) Control {
	c := Control{
		Name:        f.Name,
		Label:       f.Label,
		Required:    f.Required,
		Visible:     Resolve(f, answers) == Visible,
		Value:       answers[f.Name],
		Placeholder: f.Placeholder,
		HelperText:  f.HelperText,
	}

	switch f.Type {
	case TypeText:
		c.Kind = KindText
	case TypeURL:
		c.Kind = KindURL
		if c.Placeholder == "" {
			c.Placeholder = "https://"
		}
	case TypeTextarea:
		c.Kind = KindTextarea
		c.Rows = f.Rows
		if c.Rows == 0 {
			c.Rows = 3
		}
	case TypeSelect:
		c.Kind = KindSelect
		c.Choices = f.Options
	case TypeBoolean:
		c.Kind = KindToggle
		c.Choices = []string{ChoiceYes, ChoiceNo}
	case TypeYesNoOther:
		c.Kind = KindChoiceOther
		c.Choices = YesNoOtherChoices
		c.OtherKey = OtherKey(f.Name)
		c.OtherLabel = f.OtherLabel
		c.OtherValue = answers.String(c.OtherKey)
		c.ShowOther = answers.String(f.Name) == ChoiceOther
	}
	return c
}

// RenderSection renders every field of sec, hidden ones included with
// Visible=false so callers can decide how to treat them.
func RenderSection(sec Section, answers Answers) []Control {
	controls := make([]Control, 0, len(sec.Fields))
	for _, f := range sec.Fields {
		controls = append(controls, Render(f, answers))
	}
	return controls
}

// Normalize checks raw against the edit contract of f and returns the value
// to store.
func Normalize(f Field, raw any) (any, error) {
	switch f.Type {
	case TypeText, TypeURL, TypeTextarea:
		s, ok := raw.(string)
		if !ok {
			return nil, eris.Wrapf(ErrInvalidValue, "%s expects text", f.Name)
		}
		return s, nil
	case TypeSelect:
		s, ok := raw.(string)
		if !ok {
			return nil, eris.Wrapf(ErrInvalidValue, "%s expects one of its options", f.Name)
		}
		if s == "" || contains(f.Options, s) {
			return s, nil
		}
		return nil, eris.Wrapf(ErrInvalidValue, "%s: %q is not an option", f.Name, s)
	case TypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, eris.Wrapf(ErrInvalidValue, "%s expects true or false", f.Name)
		}
		return b, nil
	case TypeYesNoOther:
		s, ok := raw.(string)
		if !ok {
			return nil, eris.Wrapf(ErrInvalidValue, "%s expects Yes, No or Other", f.Name)
		}
		if s == "" || contains(YesNoOtherChoices, s) {
			return s, nil
		}
		return nil, eris.Wrapf(ErrInvalidValue, "%s: %q is not Yes, No or Other", f.Name, s)
	default:
		return nil, eris.Wrapf(ErrInvalidValue, "%s has unknown type %q", f.Name, f.Type)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
