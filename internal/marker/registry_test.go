package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLastBindingWins(t *testing.T) {
	t.Parallel()

	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")

	r := NewRegistry()
	r.Rebuild([]Binding{
		{MarkerID: 1, Target: a},
		{MarkerID: 2, Target: b},
		{MarkerID: 1, Target: c},
	})

	got, ok := r.Lookup(1)
	require.True(t, ok)
	assert.Same(t, c, got)

	got, ok = r.Lookup(2)
	require.True(t, ok)
	assert.Same(t, b, got)

	_, ok = r.Lookup(3)
	assert.False(t, ok)

	assert.Equal(t, 2, r.Len())
}

func TestRegistrySkipsNilTargets(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Rebuild([]Binding{
		{MarkerID: 7, Target: nil},
		{MarkerID: 8, Target: NewNode("eight")},
	})

	_, ok := r.Lookup(7)
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryRebuildIsIdempotent(t *testing.T) {
	t.Parallel()

	bindings := []Binding{
		{MarkerID: 1, Target: NewNode("one")},
		{MarkerID: 2, Target: NewNode("two")},
	}

	r := NewRegistry()
	r.Rebuild(bindings)
	first := map[int]Target{}
	r.Each(func(id int, tg Target) { first[id] = tg })

	r.Rebuild(bindings)
	second := map[int]Target{}
	r.Each(func(id int, tg Target) { second[id] = tg })

	assert.Equal(t, first, second)
}

func TestRegistryRebuildClearsStaleEntries(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Rebuild([]Binding{{MarkerID: 1, Target: NewNode("one")}})
	require.Equal(t, 1, r.Len())

	r.Rebuild([]Binding{{MarkerID: 2, Target: NewNode("two")}})
	_, ok := r.Lookup(1)
	assert.False(t, ok)
	_, ok = r.Lookup(2)
	assert.True(t, ok)
}

func TestRegistryEachOrderedByID(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Rebuild([]Binding{
		{MarkerID: 9, Target: NewNode("nine")},
		{MarkerID: 3, Target: NewNode("three")},
		{MarkerID: 5, Target: NewNode("five")},
	})

	var ids []int
	r.Each(func(id int, _ Target) { ids = append(ids, id) })
	assert.Equal(t, []int{3, 5, 9}, ids)
}
