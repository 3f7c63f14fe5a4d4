package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tra-converter/internal/diag"
	"tra-converter/internal/document"
	"tra-converter/internal/textutil"
)

// CatalogCodec reads and writes the msgctxt/msgid/msgstr catalog format.
// The context carries the entry index.
type CatalogCodec struct{}

func NewCatalogCodec() *CatalogCodec { return &CatalogCodec{} }

func (c *CatalogCodec) Format() string { return "po" }

func (c *CatalogCodec) Ext() string { return ".po" }

func (c *CatalogCodec) CanParse(ext string) bool {
	return ext == ".po" || ext == ".pot"
}

func (c *CatalogCodec) Decode(data []byte) (*document.Bilingual, []*diag.Error) {
	return ParseCatalog(string(data))
}

func (c *CatalogCodec) Encode(name string, entries []document.Entry) ([]byte, error) {
	return FormatCatalog(name, entries), nil
}

// quotedField matches `keyword "text"` where text may contain escaped quotes.
var quotedField = regexp.MustCompile(`^(msgctxt|msgid|msgstr)\s+"((?:[^"\\]|\\.)*)"\s*$`)

// continuation matches a bare quoted line continuing the previous field.
var continuation = regexp.MustCompile(`^"((?:[^"\\]|\\.)*)"\s*$`)

// catalogBlock matches one well-formed three-line block.
var catalogBlock = regexp.MustCompile(`(?m)^msgctxt "((?:[^"\\\n]|\\.)*)"[ \t]*\r?\n[ \t]*msgid "((?:[^"\\\n]|\\.)*)"[ \t]*\r?\n[ \t]*msgstr "((?:[^"\\\n]|\\.)*)"[ \t]*\r?$`)

// pendingEntry accumulates the raw (still escaped) fields of one context.
type pendingEntry struct {
	context string
	line    int
	msgid   strings.Builder
	msgstr  strings.Builder
}

// ParseCatalog scans catalog content line by line, tracking the current
// context. Blank lines, comments and unrelated content between fields are
// tolerated; msgid/msgstr lines outside any context (a header) are ignored.
func ParseCatalog(text string) (*document.Bilingual, []*diag.Error) {
	doc := document.NewBilingual()
	var issues []*diag.Error

	var cur *pendingEntry
	var field *strings.Builder

	flush := func() {
		if cur == nil {
			return
		}
		idx, err := parseIndex(cur.context)
		if err != nil {
			issues = append(issues, diag.New(diag.KindMalformedEntry, "", err).WithLine(cur.line))
		} else {
			doc.Set(document.Entry{
				Index:  idx,
				Source: UnescapeQuoted(cur.msgid.String()),
				Target: UnescapeQuoted(cur.msgstr.String()),
			})
		}
		cur, field = nil, nil
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		trimmed := strings.TrimSpace(scanner.Text())

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if m := quotedField.FindStringSubmatch(trimmed); m != nil {
			switch m[1] {
			case "msgctxt":
				flush()
				cur = &pendingEntry{context: UnescapeQuoted(m[2]), line: lineNum}
				field = nil
			case "msgid":
				if cur == nil {
					field = nil
					continue
				}
				cur.msgid.Reset()
				cur.msgid.WriteString(m[2])
				field = &cur.msgid
			case "msgstr":
				if cur == nil {
					field = nil
					continue
				}
				cur.msgstr.Reset()
				cur.msgstr.WriteString(m[2])
				field = &cur.msgstr
			}
			continue
		}

		if m := continuation.FindStringSubmatch(trimmed); m != nil {
			if field != nil {
				field.WriteString(m[1])
			}
			continue
		}

		if strings.HasPrefix(trimmed, "msgctxt") || strings.HasPrefix(trimmed, "msgid") || strings.HasPrefix(trimmed, "msgstr") {
			issues = append(issues, diag.Errorf(diag.KindMalformedEntry, "", "unterminated field %q", textutil.Truncate(trimmed, 40)).WithLine(lineNum))
		}
		field = nil
	}
	flush()

	if err := scanner.Err(); err != nil {
		issues = append(issues, diag.New(diag.KindMalformedEntry, "", fmt.Errorf("scan catalog: %w", err)))
	}

	return doc, issues
}

// ParseCatalogBlocks parses catalog content by matching whole three-line
// blocks at once. It accepts only single-line fields in the fixed
// msgctxt/msgid/msgstr order and agrees with ParseCatalog on such input.
func ParseCatalogBlocks(text string) (*document.Bilingual, []*diag.Error) {
	doc := document.NewBilingual()
	var issues []*diag.Error

	for _, loc := range catalogBlock.FindAllStringSubmatchIndex(text, -1) {
		context := UnescapeQuoted(text[loc[2]:loc[3]])
		idx, err := parseIndex(context)
		if err != nil {
			line := 1 + strings.Count(text[:loc[0]], "\n")
			issues = append(issues, diag.New(diag.KindMalformedEntry, "", err).WithLine(line))
			continue
		}
		doc.Set(document.Entry{
			Index:  idx,
			Source: UnescapeQuoted(text[loc[4]:loc[5]]),
			Target: UnescapeQuoted(text[loc[6]:loc[7]]),
		})
	}

	return doc, issues
}

// FormatCatalog writes one block per entry, preceded by a comment naming the
// document.
func FormatCatalog(name string, entries []document.Entry) []byte {
	var buf bytes.Buffer
	if name != "" {
		fmt.Fprintf(&buf, "# Translations for %s\n\n", name)
	}
	for _, e := range entries {
		fmt.Fprintf(&buf, "msgctxt \"%s\"\n", strconv.Itoa(e.Index))
		fmt.Fprintf(&buf, "msgid \"%s\"\n", EscapeQuoted(e.Source))
		fmt.Fprintf(&buf, "msgstr \"%s\"\n\n", EscapeQuoted(e.Target))
	}
	return buf.Bytes()
}
