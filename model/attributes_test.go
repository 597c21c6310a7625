package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributes_SetGet(t *testing.T) {
	a := NewAttributes()
	assert.NotEmpty(t, a.ID())
	assert.True(t, a.IsEmpty())

	a.Set("name", "alice")
	a.Set("age", 42)
	a.Set("score", 1.5)

	v, err := a.Get("age")
	require.NoError(t, err)
	assert.Equal(t, "42", v)

	v, err = a.Get("score")
	require.NoError(t, err)
	assert.Equal(t, "1.5", v)

	_, err = a.Get("missing")
	assert.ErrorIs(t, err, ErrAttributeNotFound)
	assert.Equal(t, 3, a.Len())
}

func TestAttributes_UpdateRequiresKey(t *testing.T) {
	a := NewAttributes()
	err := a.Update("k", "v")
	assert.ErrorIs(t, err, ErrAttributeNotFound)
	assert.False(t, a.HasKey("k"))

	a.Set("k", "v")
	require.NoError(t, a.Update("k", "w"))
	v, _ := a.Get("k")
	assert.Equal(t, "w", v)
}

func TestAttributes_UpsertIdempotent(t *testing.T) {
	a := NewAttributes()
	a.Upsert("k", 7)
	a.Upsert("k", 7)

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, map[string]string{"k": "7"}, a.Map())
}

func TestAttributes_Delete(t *testing.T) {
	a := NewAttributes()
	a.Set("k", "v")
	require.NoError(t, a.Delete("k"))
	assert.ErrorIs(t, a.Delete("k"), ErrAttributeNotFound)
	assert.True(t, a.IsEmpty())
}

func TestAttributes_Predicates(t *testing.T) {
	a := NewAttributes()
	a.Set("FirstName", "Ada")
	a.Set("born", 1815)

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"HasKey exact", a.HasKey("born"), true},
		{"HasKey case sensitive", a.HasKey("firstname"), false},
		{"HasKeyLike ignores case", a.HasKeyLike("name"), true},
		{"HasKeyLike miss", a.HasKeyLike("last"), false},
		{"Equals formatted int", a.Equals("born", 1815), true},
		{"Equals string form", a.Equals("born", "1815"), true},
		{"Equals wrong value", a.Equals("born", 1816), false},
		{"Equals missing key", a.Equals("died", 1852), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestAttributes_CloneKeepsIdentity(t *testing.T) {
	a := NewAttributes()
	a.Set("k", "v")

	c := a.Clone()
	assert.Equal(t, a.ID(), c.ID())
	assert.True(t, a.Equal(c))

	c.Set("k", "changed")
	v, _ := a.Get("k")
	assert.Equal(t, "v", v)
	assert.False(t, a.Equal(c))
}

func TestAttributes_SortedKeys(t *testing.T) {
	a := NewAttributes()
	for _, k := range []string{"c", "a", "b"} {
		a.Set(k, k)
	}
	assert.Equal(t, []string{"a", "b", "c"}, a.SortedKeys())
	assert.ElementsMatch(t, []string{"a", "b", "c"}, a.Keys())
}
