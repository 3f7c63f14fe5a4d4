// Package charset detects and converts the byte encodings of resource files.
//
// All in-memory text is UTF-8. Input files may arrive in a legacy code page
// and one output target requires a single-byte Western code page, so this
// package sits on both ends of every conversion.
package charset

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"tra-converter/internal/diag"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Canonical is the name of the encoding every document is normalized to.
const Canonical = "UTF-8"

// Encoding is a resolved character encoding.
type Encoding struct {
	Name string
	enc  encoding.Encoding // nil for UTF-8
}

// UTF8 is the canonical encoding.
var UTF8 = &Encoding{Name: Canonical}

// IsCanonical reports whether e is UTF-8.
func (e *Encoding) IsCanonical() bool { return e.enc == nil }

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}
var utf16LEBOM = []byte{0xFF, 0xFE}
var utf16BEBOM = []byte{0xFE, 0xFF}

// aliases covers labels that ianaindex does not resolve the way game files need.
// Latin-1 labels map to windows-1252 as browsers do; it is a superset for the
// printable range and the code page the game tools actually write.
var aliases = map[string]string{
	"latin1":     "windows-1252",
	"latin-1":    "windows-1252",
	"iso-8859-1": "windows-1252",
	"iso_8859-1": "windows-1252",
	"l1":         "windows-1252",
	"cp1252":     "windows-1252",
	"ansi":       "windows-1252",
	"gb-18030":   "gb18030",
	"utf8":       "utf-8",
}

// Lookup resolves an encoding name or alias.
func Lookup(name string) (*Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[key]; ok {
		key = a
	}
	switch key {
	case "", "utf-8":
		return UTF8, nil
	case "windows-1252":
		return &Encoding{Name: "windows-1252", enc: charmap.Windows1252}, nil
	}

	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	if enc == unicode.UTF8 {
		return UTF8, nil
	}

	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil || canonical == "" {
		canonical = name
	}
	return &Encoding{Name: canonical, enc: enc}, nil
}

// decode converts data to UTF-8 text, dropping a leading byte order mark.
func (e *Encoding) decode(data []byte) (string, error) {
	if e.IsCanonical() {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", fmt.Errorf("invalid %s sequence at byte %d", Canonical, firstInvalid(data))
		}
		return string(data), nil
	}

	out, _, err := transform.Bytes(e.enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", e.Name, err)
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("bytes not representable in %s", e.Name)
	}
	return strings.TrimPrefix(string(out), "\ufeff"), nil
}

func firstInvalid(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// Detection is the outcome of statistical encoding inference.
type Detection struct {
	// Encoding is the resolved encoding name when Supported, the raw detector label otherwise.
	Encoding   string
	Confidence int
	BOM        bool
	Supported  bool
}

// Detect infers the encoding of data. A byte order mark wins, then UTF-8
// validity, then chardet's best guess; windows-1252 is the fallback since it
// decodes every byte the game's Western locales produce.
func Detect(data []byte) Detection {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		return Detection{Encoding: Canonical, Confidence: 100, BOM: true, Supported: true}
	case bytes.HasPrefix(data, utf16LEBOM):
		return resolved("UTF-16LE", 100, true)
	case bytes.HasPrefix(data, utf16BEBOM):
		return resolved("UTF-16BE", 100, true)
	case utf8.Valid(data):
		return Detection{Encoding: Canonical, Confidence: 100, Supported: true}
	}

	best, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || best == nil || strings.EqualFold(best.Charset, Canonical) {
		return resolved("windows-1252", 50, false)
	}
	return resolved(best.Charset, best.Confidence, false)
}

func resolved(label string, confidence int, bom bool) Detection {
	enc, err := Lookup(label)
	if err != nil {
		return Detection{Encoding: label, Confidence: confidence, BOM: bom}
	}
	return Detection{Encoding: enc.Name, Confidence: confidence, BOM: bom, Supported: true}
}

// DecodeDeclared decodes data assuming the declared encoding. On failure the
// returned *diag.Error carries the detected encoding as its hint.
func DecodeDeclared(data []byte, declared string) (string, error) {
	enc, err := Lookup(declared)
	if err != nil {
		return "", diag.New(diag.KindDecode, "", err)
	}
	text, err := enc.decode(data)
	if err != nil {
		return "", diag.New(diag.KindDecode, "", err).WithHint(Detect(data).Encoding)
	}
	return text, nil
}

// Normalized is the result of NormalizeToCanonical.
type Normalized struct {
	Text string
	// Original is the inferred encoding of the input bytes.
	Original   string
	Confidence int
	// Canonical holds the UTF-8 bytes; identical to the input when Changed is false.
	Canonical []byte
	// Changed reports that the input should be rewritten as Canonical.
	Changed bool
}

// NormalizeToCanonical infers the encoding of data and decodes it. Running it
// on already canonical bytes is a no-op.
func NormalizeToCanonical(data []byte) (Normalized, error) {
	det := Detect(data)
	if !det.Supported {
		return Normalized{}, diag.Errorf(diag.KindDecode, "", "detected encoding %s is not supported", det.Encoding).
			WithHint(det.Encoding)
	}
	enc, err := Lookup(det.Encoding)
	if err != nil {
		return Normalized{}, diag.New(diag.KindDecode, "", err).WithHint(det.Encoding)
	}
	text, err := enc.decode(data)
	if err != nil {
		return Normalized{}, diag.New(diag.KindDecode, "", err).WithHint(det.Encoding)
	}

	n := Normalized{
		Text:       text,
		Original:   enc.Name,
		Confidence: det.Confidence,
		Canonical:  []byte(text),
	}
	if bytes.Equal(n.Canonical, data) {
		n.Canonical = data
	} else {
		n.Changed = true
	}
	return n, nil
}

// EncodeForTarget encodes text for a destination that mandates the named
// encoding. A rune the target cannot represent fails the whole call; nothing
// is substituted.
func EncodeForTarget(text, target string) ([]byte, error) {
	enc, err := Lookup(target)
	if err != nil {
		return nil, diag.New(diag.KindEncode, "", err)
	}
	if enc.IsCanonical() {
		return []byte(text), nil
	}

	out, _, err := transform.Bytes(enc.enc.NewEncoder(), []byte(text))
	if err == nil {
		return out, nil
	}
	for i, r := range text {
		if _, rerr := enc.enc.NewEncoder().String(string(r)); rerr != nil {
			return nil, diag.Errorf(diag.KindEncode, "", "%q (U+%04X) at byte %d is not representable in %s", r, r, i, enc.Name)
		}
	}
	return nil, diag.New(diag.KindEncode, "", fmt.Errorf("encode %s: %w", enc.Name, err))
}
