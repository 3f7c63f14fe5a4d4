package parser

import (
	"slices"
	"strings"

	"tra-converter/internal/diag"
	"tra-converter/internal/document"
)

// Codec is implemented by the bilingual formats (catalog and tabular) that a
// pair of indexed-text files is converted to and from.
type Codec interface {
	// Format returns the short format name used on the command line.
	Format() string
	// Ext returns the file extension, dot included.
	Ext() string
	// CanParse returns true if this codec handles the given file extension.
	CanParse(ext string) bool
	// Decode parses file content. Issues describe entries that were dropped;
	// they never abort the parse.
	Decode(data []byte) (*document.Bilingual, []*diag.Error)
	// Encode serializes entries in the given order. name labels the document.
	Encode(name string, entries []document.Entry) ([]byte, error)
}

// Codecs returns every registered bilingual codec.
func Codecs() []Codec {
	return []Codec{NewCatalogCodec(), NewTabularCodec()}
}

// ForFormat returns the codec registered under a format name.
func ForFormat(format string) (Codec, bool) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	codecs := Codecs()
	i := slices.IndexFunc(codecs, func(c Codec) bool { return c.Format() == format })
	if i < 0 {
		return nil, false
	}
	return codecs[i], true
}

// ForExt returns the codec handling a file extension.
func ForExt(ext string) (Codec, bool) {
	ext = strings.ToLower(ext)
	for _, c := range Codecs() {
		if c.CanParse(ext) {
			return c, true
		}
	}
	return nil, false
}
