package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tra-converter/internal/charset"
	"tra-converter/internal/diag"
	"tra-converter/internal/document"
	"tra-converter/internal/parser"
)

// backupSuffix is appended to a file's name when its original bytes are
// kept before rewriting it in canonical encoding.
const backupSuffix = ".orig"

// readFile returns the bytes of path, or records a FileNotFound issue.
func (c *Converter) readFile(res *Result, path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		c.addIssue(res, path, diag.New(diag.KindFileNotFound, path, err))
		return nil, false
	}
	return data, true
}

// decodeFile decodes the contents of path using the declared encoding. With
// FixEncoding set, a file that fails to decode is normalized to canonical
// encoding instead and rewritten in place.
func (c *Converter) decodeFile(path string, data []byte, declared string) (string, error) {
	text, err := charset.DecodeDeclared(data, declared)
	if err == nil {
		return text, nil
	}
	if !c.cfg.FixEncoding {
		return "", err
	}

	n, nerr := charset.NormalizeToCanonical(data)
	if nerr != nil {
		return "", nerr
	}
	if n.Changed {
		if werr := c.rewriteCanonical(path, data, n); werr != nil {
			return "", werr
		}
	}
	return n.Text, nil
}

// rewriteCanonical stores a backup of the original bytes next to path and
// replaces path with its canonical form. An existing backup is left alone.
func (c *Converter) rewriteCanonical(path string, original []byte, n charset.Normalized) error {
	backup := path + backupSuffix
	if _, err := os.Stat(backup); os.IsNotExist(err) {
		if err := writeFileAtomic(backup, original); err != nil {
			return diag.New(diag.KindFileNotFound, backup, fmt.Errorf("write backup: %w", err))
		}
	}
	if err := writeFileAtomic(path, n.Canonical); err != nil {
		return diag.New(diag.KindFileNotFound, path, fmt.Errorf("rewrite canonical: %w", err))
	}

	c.logger.Warn().
		Str("file", path).
		Str("from", n.Original).
		Int("confidence", n.Confidence).
		Str("backup", backup).
		Msg("Rewrote file in canonical encoding")
	return nil
}

// readTRA loads an indexed-text file. Any failure is recorded on res and
// yields an empty document.
func (c *Converter) readTRA(res *Result, path, declared string) *document.Document {
	data, ok := c.readFile(res, path)
	if !ok {
		return document.New()
	}
	text, err := c.decodeFile(path, data, declared)
	if err != nil {
		c.addIssue(res, path, err)
		return document.New()
	}
	doc, issues := parser.ParseTRA(text)
	for _, issue := range issues {
		c.addIssue(res, path, issue)
	}
	return doc
}

// readBilingual loads a catalog or tabular file with codec. Any failure is
// recorded on res and yields an empty document.
func (c *Converter) readBilingual(res *Result, path string, codec parser.Codec) *document.Bilingual {
	data, ok := c.readFile(res, path)
	if !ok {
		return document.NewBilingual()
	}
	text, err := c.decodeFile(path, data, charset.Canonical)
	if err != nil {
		c.addIssue(res, path, err)
		return document.NewBilingual()
	}
	doc, issues := codec.Decode([]byte(text))
	for _, issue := range issues {
		c.addIssue(res, path, issue)
	}
	return doc
}

// LoadDocument reads any supported file and returns its index-to-text
// mapping: the entries of an indexed-text file, or the target texts of a
// catalog or tabular file. Indexed-text files are decoded with the source
// encoding.
func (c *Converter) LoadDocument(path string) (*document.Document, []*diag.Error) {
	res := &Result{Base: filepath.Base(path)}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".tra" {
		doc := c.readTRA(res, path, c.cfg.SourceEncoding)
		return doc, res.Issues
	}
	codec, ok := parser.ForExt(ext)
	if !ok {
		return document.New(), []*diag.Error{
			diag.Errorf(diag.KindMalformedEntry, path, "unsupported file extension %q", ext),
		}
	}
	doc := c.readBilingual(res, path, codec)
	return doc.Targets(), res.Issues
}

// NormalizeFile rewrites path in canonical encoding, keeping a backup of the
// original bytes. With dryRun set, only the detection result is returned.
func (c *Converter) NormalizeFile(path string, dryRun bool) (charset.Normalized, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return charset.Normalized{}, diag.New(diag.KindFileNotFound, path, err)
	}
	n, err := charset.NormalizeToCanonical(data)
	if err != nil {
		return charset.Normalized{}, asIssue(err, path)
	}
	if !n.Changed {
		c.logger.Info().Str("file", path).Msg("File already in canonical encoding")
		return n, nil
	}
	if dryRun {
		c.logger.Info().
			Str("file", path).
			Str("from", n.Original).
			Int("confidence", n.Confidence).
			Msg("File would be rewritten in canonical encoding")
		return n, nil
	}
	return n, c.rewriteCanonical(path, data, n)
}
