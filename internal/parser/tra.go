package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"tra-converter/internal/diag"
	"tra-converter/internal/document"
)

// traEntryPattern matches "@<index> = ~<text>~". The text may span lines and
// ends at the next tilde; a tilde inside text is not representable.
// The index token is captured loosely so malformed indices can be reported.
var traEntryPattern = regexp.MustCompile(`(?s)@([^\s=~]*)\s*=\s*~(.*?)~`)

// ParseTRA parses indexed-text content into a Document in file order.
// Entries with a malformed index are dropped and reported.
func ParseTRA(text string) (*document.Document, []*diag.Error) {
	doc := document.New()
	var issues []*diag.Error

	for _, loc := range traEntryPattern.FindAllStringSubmatchIndex(text, -1) {
		token := text[loc[2]:loc[3]]
		idx, err := parseIndex(token)
		if err != nil {
			line := 1 + strings.Count(text[:loc[0]], "\n")
			issues = append(issues, diag.New(diag.KindMalformedEntry, "", err).WithLine(line))
			continue
		}
		doc.Set(idx, text[loc[4]:loc[5]])
	}

	return doc, issues
}

// FormatTRA serializes doc in its iteration order. Text is written verbatim.
func FormatTRA(doc *document.Document) []byte {
	var buf bytes.Buffer
	for _, idx := range doc.Indices() {
		text, _ := doc.Get(idx)
		fmt.Fprintf(&buf, "@%d = ~%s~\n", idx, text)
	}
	return buf.Bytes()
}
