package form

import "strings"

// otherSuffix marks the free-text companion of a yes_no_other field.
const otherSuffix = "_other"

// OtherKey returns the answer-map key of the companion text for a
// yes_no_other field.
func OtherKey(name string) string {
	return name + otherSuffix
}

// Answers is the in-memory answer map keyed by field name. Values are
// strings, or for boolean fields nil (unanswered), true or false.
type Answers map[string]any

// InitialState builds a fresh answer map with a type-appropriate empty value
// for every key the schema defines. Each call returns an independent map.
func InitialState(s *Schema) Answers {
	state := make(Answers)
	for _, f := range s.Confirm {
		state[f.Name] = ""
	}
	for _, f := range s.Fields() {
		switch f.Type {
		case TypeBoolean:
			state[f.Name] = nil
		case TypeYesNoOther:
			state[f.Name] = ""
			state[OtherKey(f.Name)] = ""
		default:
			state[f.Name] = ""
		}
	}
	return state
}

// Set stores value at name. It is the only mutation path for answers.
func (a Answers) Set(name string, value any) {
	a[name] = value
}

// String returns the answer at name if it is a string, or "".
func (a Answers) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Trimmed returns the string answer at name with surrounding whitespace removed.
func (a Answers) Trimmed(name string) string {
	return strings.TrimSpace(a.String(name))
}

// Clone returns a shallow copy.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// IsEmpty reports whether v counts as unanswered: nil or the empty string.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	default:
		return false
	}
}
