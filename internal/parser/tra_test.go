package parser

import (
	"testing"

	"tra-converter/internal/diag"
	"tra-converter/internal/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTRA(t *testing.T) {
	src := "// header comment\n" +
		"@10 = ~Hello \"friend\"~\n" +
		"@2=~Line one\nLine two~\n" +
		"@3   =   ~~\n"

	doc, issues := ParseTRA(src)
	assert.Empty(t, issues)
	assert.Equal(t, []int{10, 2, 3}, doc.Indices())

	text, _ := doc.Get(10)
	assert.Equal(t, `Hello "friend"`, text)
	text, _ = doc.Get(2)
	assert.Equal(t, "Line one\nLine two", text)
	text, ok := doc.Get(3)
	assert.True(t, ok)
	assert.Equal(t, "", text)
}

func TestParseTRADuplicateIndexLastWriteWins(t *testing.T) {
	doc, _ := ParseTRA("@1 = ~first~\n@2 = ~b~\n@1 = ~second~\n")
	assert.Equal(t, []int{1, 2}, doc.Indices())
	text, _ := doc.Get(1)
	assert.Equal(t, "second", text)
}

func TestParseTRAMalformedIndexIsDropped(t *testing.T) {
	doc, issues := ParseTRA("@1 = ~ok~\n@x2 = ~bad~\n@99999999999999999999 = ~overflow~\n@3 = ~ok too~\n")

	assert.Equal(t, []int{1, 3}, doc.Indices())
	require.Len(t, issues, 2)
	for _, issue := range issues {
		assert.ErrorIs(t, issue, diag.ErrMalformedEntry)
	}
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, 3, issues[1].Line)
}

func TestFormatTRA(t *testing.T) {
	doc := document.New()
	doc.Set(2, "  spaced  \ntext ")
	doc.Set(1, `say "hi"`)

	assert.Equal(t, "@2 = ~  spaced  \ntext ~\n@1 = ~say \"hi\"~\n", string(FormatTRA(doc)))
}

func TestTRARoundTrip(t *testing.T) {
	in := "@1 = ~Bonjour~\n@5 = ~Multi\r\nline \"quoted\"~\n@3 = ~~\n"
	doc, issues := ParseTRA(in)
	require.Empty(t, issues)
	assert.Equal(t, in, string(FormatTRA(doc)))
}
