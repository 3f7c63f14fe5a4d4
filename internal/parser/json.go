package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tra-converter/internal/diag"
	"tra-converter/internal/document"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// TabularCodec reads and writes the JSON form: an object keyed by index whose
// values are single-key objects mapping source text to target text.
//
// The source text is used as a JSON key, so an object holding the same source
// key twice keeps only the last value. This is a property of the format.
//
// Decoding turns the literal two-character sequences \n, \t and \u00a0 into
// the characters they name. Text that really contains a backslash sequence,
// such as the path C:\new, does not survive a round trip unchanged.
type TabularCodec struct{}

func NewTabularCodec() *TabularCodec { return &TabularCodec{} }

func (c *TabularCodec) Format() string { return "json" }

func (c *TabularCodec) Ext() string { return ".json" }

func (c *TabularCodec) CanParse(ext string) bool {
	return ext == ".json"
}

func (c *TabularCodec) Decode(data []byte) (*document.Bilingual, []*diag.Error) {
	return ParseTabular(data)
}

func (c *TabularCodec) Encode(_ string, entries []document.Entry) ([]byte, error) {
	return FormatTabular(entries)
}

// literalEscapes turns escape sequences typed as plain text by translators
// back into the characters they stand for.
var literalEscapes = strings.NewReplacer(
	`\n`, "\n",
	`\t`, "\t",
	`\u00a0`, "\u00a0",
	`\u00A0`, "\u00a0",
)

// tabularIndent matches the four-space layout of the files the game tools produce.
var tabularIndent = &pretty.Options{Width: 80, Prefix: "", Indent: "    "}

// ParseTabular walks the JSON object in key order. Invalid JSON yields an
// empty document and a single issue.
func ParseTabular(data []byte) (*document.Bilingual, []*diag.Error) {
	doc := document.NewBilingual()
	var issues []*diag.Error

	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if !gjson.ValidBytes(data) {
		return doc, []*diag.Error{diag.Errorf(diag.KindMalformedEntry, "", "invalid JSON document")}
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return doc, []*diag.Error{diag.Errorf(diag.KindMalformedEntry, "", "top-level JSON value is not an object")}
	}

	root.ForEach(func(key, value gjson.Result) bool {
		idx, err := parseIndex(key.String())
		if err != nil {
			issues = append(issues, diag.New(diag.KindMalformedEntry, "", err))
			return true
		}
		if !value.IsObject() {
			issues = append(issues, diag.Errorf(diag.KindMalformedEntry, "", "entry %d is not an object", idx))
			return true
		}

		var source, target string
		found := false
		value.ForEach(func(k, v gjson.Result) bool {
			source, target, found = k.String(), v.String(), true
			return true
		})
		if !found {
			issues = append(issues, diag.Errorf(diag.KindMalformedEntry, "", "entry %d is empty", idx))
			return true
		}

		doc.Set(document.Entry{
			Index:  idx,
			Source: literalEscapes.Replace(source),
			Target: literalEscapes.Replace(target),
		})
		return true
	})

	return doc, issues
}

// FormatTabular serializes entries in order. Non-ASCII text is written as-is.
func FormatTabular(entries []document.Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, strconv.Itoa(e.Index)); err != nil {
			return nil, err
		}
		buf.WriteString(":{")
		if err := writeJSONString(&buf, e.Source); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, e.Target); err != nil {
			return nil, err
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')

	return pretty.PrettyOptions(buf.Bytes(), tabularIndent), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode JSON string: %w", err)
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
