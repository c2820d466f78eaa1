package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialStateCoversEveryKey(t *testing.T) {
	s := Default()
	state := InitialState(s)

	for _, f := range s.Confirm {
		v, ok := state[f.Name]
		require.True(t, ok, f.Name)
		assert.Equal(t, "", v, f.Name)
	}

	for _, f := range s.Fields() {
		v, ok := state[f.Name]
		require.True(t, ok, f.Name)
		switch f.Type {
		case TypeBoolean:
			assert.Nil(t, v, f.Name)
		case TypeYesNoOther:
			assert.Equal(t, "", v, f.Name)
			other, ok := state[OtherKey(f.Name)]
			require.True(t, ok, OtherKey(f.Name))
			assert.Equal(t, "", other)
		default:
			assert.Equal(t, "", v, f.Name)
		}
	}
}

func TestInitialStateExactKeySet(t *testing.T) {
	s := &Schema{Sections: []Section{{ID: "a", Fields: []Field{
		{Name: "done", Type: TypeBoolean},
		{Name: "late", Type: TypeYesNoOther},
		{Name: "link", Type: TypeURL},
	}}}}

	assert.Equal(t, Answers{
		"done":       nil,
		"late":       "",
		"late_other": "",
		"link":       "",
	}, InitialState(s))
}

func TestInitialStateIndependent(t *testing.T) {
	s := Default()
	a := InitialState(s)
	b := InitialState(s)
	assert.Equal(t, a, b)

	a.Set("designer", "Sam")
	assert.Equal(t, "", b["designer"])
}

func TestAnswersHelpers(t *testing.T) {
	a := Answers{"name": "  Jane ", "flag": true}

	assert.Equal(t, "  Jane ", a.String("name"))
	assert.Equal(t, "Jane", a.Trimmed("name"))
	assert.Equal(t, "", a.String("flag"))
	assert.Equal(t, "", a.String("missing"))

	c := a.Clone()
	c.Set("name", "x")
	assert.Equal(t, "  Jane ", a["name"])

	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty(""))
	assert.False(t, IsEmpty(false))
	assert.False(t, IsEmpty("x"))
}
