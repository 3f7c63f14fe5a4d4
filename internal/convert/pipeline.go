package convert

import (
	"fmt"
	"path/filepath"

	"tra-converter/internal/charset"
	"tra-converter/internal/diag"
	"tra-converter/internal/document"
	"tra-converter/internal/interpolation"
	"tra-converter/internal/parser"
	"tra-converter/internal/ranges"
	"tra-converter/internal/textutil"
)

// ToBilingual pairs the source- and target-language indexed-text files named
// base and writes them as one bilingual file in the working directory of
// codec's format. Source order drives the output; a missing or unreadable
// target file yields empty translations.
func (c *Converter) ToBilingual(base string, codec parser.Codec) (*Result, error) {
	res := &Result{Base: base, Format: codec.Format()}
	srcPath := c.sourcePath(base)

	source := c.readTRA(res, srcPath, c.cfg.SourceEncoding)
	target := c.readTRA(res, c.targetPath(base), c.cfg.TargetTRAEncoding())
	if source.Len() == 0 {
		return res, diag.Errorf(diag.KindEmptyResult, srcPath, "no source entries to convert")
	}

	entries := document.Pair(source, target)
	data, err := codec.Encode(base, entries)
	if err != nil {
		return res, diag.New(diag.KindEncode, base, fmt.Errorf("encode %s: %w", codec.Format(), err))
	}

	out := filepath.Join(c.cfg.WorkingDir(codec.Format()), base+codec.Ext())
	if err := writeFileAtomic(out, data); err != nil {
		return res, diag.New(diag.KindFileNotFound, out, err)
	}

	c.checkPlaceholders(res, entries)
	res.Output = out
	res.Entries = len(entries)
	res.Source = ranges.Compute(source)
	res.Target = ranges.Compute(target)
	res.Diff = ranges.Compare(c.mode, res.Source.Present, res.Target.Present)
	c.logResult(res)
	return res, nil
}

// FromBilingual reads the completed bilingual file named base and writes the
// target-language indexed-text file in the output encoding. The
// source-language file drives index order; without it the bilingual file's
// own order is used. Nothing is written when any text cannot be represented
// in the output encoding.
func (c *Converter) FromBilingual(base string, codec parser.Codec) (*Result, error) {
	res := &Result{Base: base, Format: codec.Format()}
	inPath := filepath.Join(c.cfg.FinishedDir(codec.Format()), base+codec.Ext())

	catalog := c.readBilingual(res, inPath, codec)
	source := c.readTRA(res, c.sourcePath(base), c.cfg.SourceEncoding)
	if catalog.Len() == 0 && source.Len() == 0 {
		return res, diag.Errorf(diag.KindEmptyResult, inPath, "no entries to convert")
	}

	order := source
	if source.Len() == 0 {
		order = catalog.Sources()
		c.addIssue(res, c.sourcePath(base),
			diag.Errorf(diag.KindEmptyResult, "", "no source entries, using %s order", codec.Format()))
	}

	out := document.New()
	pairs := make([]document.Entry, 0, order.Len())
	for _, idx := range order.Indices() {
		src, _ := order.Get(idx)
		var text string
		if e, ok := catalog.Get(idx); ok {
			text = e.Target
		}
		if text == "" && c.cfg.FallbackSource {
			text = src
		}
		out.Set(idx, text)
		pairs = append(pairs, document.Entry{Index: idx, Source: src, Target: text})
	}
	c.checkPlaceholders(res, pairs)

	outPath := filepath.Join(c.cfg.FinishedTRAPath(), base+".tra")
	data, err := charset.EncodeForTarget(string(parser.FormatTRA(out)), c.cfg.OutputEncoding)
	if err != nil {
		return res, asIssue(err, outPath)
	}
	if err := writeFileAtomic(outPath, data); err != nil {
		return res, diag.New(diag.KindFileNotFound, outPath, err)
	}

	res.Output = outPath
	res.Entries = out.Len()
	res.Source = ranges.Compute(order)
	res.Target = ranges.Compute(c.readTRA(res, outPath, c.cfg.OutputEncoding))
	res.Diff = ranges.Compare(c.mode, res.Source.Present, res.Target.Present)
	c.logResult(res)
	return res, nil
}

// checkPlaceholders records the entries whose translation does not carry the
// same interpolation variables as its source text.
func (c *Converter) checkPlaceholders(res *Result, entries []document.Entry) {
	for _, e := range entries {
		if textutil.IsBlank(e.Target) {
			continue
		}
		missing, extra := interpolation.Diff(e.Source, e.Target)
		if len(missing) == 0 && len(extra) == 0 {
			continue
		}
		res.Mismatched = append(res.Mismatched, e.Index)
		c.logger.Warn().
			Str("base", res.Base).
			Int("index", e.Index).
			Strs("missing", missing).
			Strs("extra", extra).
			Msg("Placeholder mismatch")
	}
}
