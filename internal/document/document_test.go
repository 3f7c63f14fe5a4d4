package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentLastWriteWinsKeepsPosition(t *testing.T) {
	d := New()
	d.Set(3, "three")
	d.Set(1, "one")
	d.Set(3, "trois")

	assert.Equal(t, 2, d.Len())
	assert.Equal(t, []int{3, 1}, d.Indices())
	assert.Equal(t, []int{1, 3}, d.Sorted())

	text, ok := d.Get(3)
	assert.True(t, ok)
	assert.Equal(t, "trois", text)
}

func TestPairSourceIsAuthoritative(t *testing.T) {
	src := New()
	src.Set(1, "Hello")
	src.Set(2, "World")
	tgt := New()
	tgt.Set(1, "Bonjour")
	tgt.Set(9, "orphan")

	assert.Equal(t, []Entry{
		{Index: 1, Source: "Hello", Target: "Bonjour"},
		{Index: 2, Source: "World", Target: ""},
	}, Pair(src, tgt))
}

func TestPairNilTarget(t *testing.T) {
	src := New()
	src.Set(5, "x")
	assert.Equal(t, []Entry{{Index: 5, Source: "x"}}, Pair(src, nil))
}

func TestBilingualProjections(t *testing.T) {
	b := NewBilingual()
	b.Set(Entry{Index: 2, Source: "World", Target: "Monde"})
	b.Set(Entry{Index: 1, Source: "Hello", Target: ""})
	b.Set(Entry{Index: 2, Source: "World", Target: "Le monde"})

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []int{2, 1}, b.Targets().Indices())

	got, _ := b.Targets().Get(2)
	assert.Equal(t, "Le monde", got)
	got, _ = b.Sources().Get(1)
	assert.Equal(t, "Hello", got)
}
