// Package document holds the canonical in-memory form shared by every format codec.
package document

import "slices"

// Entry pairs the source-language and target-language text of one index.
type Entry struct {
	Index  int
	Source string
	Target string
}

// Document is an ordered mapping of index to text for one language file.
// Iteration follows the order in which indices first appeared.
type Document struct {
	order []int
	text  map[int]string
}

// New creates an empty Document.
func New() *Document {
	return &Document{text: make(map[int]string)}
}

// Set stores text for idx. A repeated index overwrites the earlier text
// but keeps its original position.
func (d *Document) Set(idx int, text string) {
	if _, ok := d.text[idx]; !ok {
		d.order = append(d.order, idx)
	}
	d.text[idx] = text
}

// Get returns the text stored for idx.
func (d *Document) Get(idx int) (string, bool) {
	if d == nil {
		return "", false
	}
	t, ok := d.text[idx]
	return t, ok
}

// Len returns the number of distinct indices.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.order)
}

// Indices returns the indices in file order.
func (d *Document) Indices() []int {
	if d == nil {
		return nil
	}
	return slices.Clone(d.order)
}

// Sorted returns the indices in ascending numeric order.
func (d *Document) Sorted() []int {
	idx := d.Indices()
	slices.Sort(idx)
	return idx
}

// Pair joins a source and a target document by index. The source decides
// which indices exist and in which order; a missing target yields "".
func Pair(source, target *Document) []Entry {
	entries := make([]Entry, 0, source.Len())
	for _, idx := range source.Indices() {
		src, _ := source.Get(idx)
		tgt, _ := target.Get(idx)
		entries = append(entries, Entry{Index: idx, Source: src, Target: tgt})
	}
	return entries
}

// Bilingual is an ordered mapping of index to Entry, the adapted form of
// catalog and tabular files.
type Bilingual struct {
	order   []int
	entries map[int]Entry
}

// NewBilingual creates an empty Bilingual document.
func NewBilingual() *Bilingual {
	return &Bilingual{entries: make(map[int]Entry)}
}

// Set stores e under e.Index with the same last-write-wins rule as Document.
func (b *Bilingual) Set(e Entry) {
	if _, ok := b.entries[e.Index]; !ok {
		b.order = append(b.order, e.Index)
	}
	b.entries[e.Index] = e
}

// Get returns the entry stored for idx.
func (b *Bilingual) Get(idx int) (Entry, bool) {
	if b == nil {
		return Entry{}, false
	}
	e, ok := b.entries[idx]
	return e, ok
}

func (b *Bilingual) Len() int {
	if b == nil {
		return 0
	}
	return len(b.order)
}

// Entries returns the entries in file order.
func (b *Bilingual) Entries() []Entry {
	if b == nil {
		return nil
	}
	out := make([]Entry, 0, len(b.order))
	for _, idx := range b.order {
		out = append(out, b.entries[idx])
	}
	return out
}

// Sources projects the source texts into a Document.
func (b *Bilingual) Sources() *Document {
	d := New()
	for _, e := range b.Entries() {
		d.Set(e.Index, e.Source)
	}
	return d
}

// Targets projects the target texts into a Document.
func (b *Bilingual) Targets() *Document {
	d := New()
	for _, e := range b.Entries() {
		d.Set(e.Index, e.Target)
	}
	return d
}
