// Package convert composes the codecs, the encoding normalizer and the range
// analyzer into the conversion pipelines between indexed-text files and
// their catalog or tabular counterparts.
//
// Read failures are contained per file: they are recorded as issues and the
// affected document is treated as empty. Write failures abort the
// conversion and are returned as errors.
package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tra-converter/internal/charset"
	"tra-converter/internal/config"
	"tra-converter/internal/diag"
	"tra-converter/internal/ranges"

	"github.com/rs/zerolog"
)

// Converter runs conversions for the directory layout of one configuration.
// It holds no state between conversions.
type Converter struct {
	cfg    *config.Config
	mode   ranges.Mode
	logger zerolog.Logger
}

// New validates the configuration and creates a Converter.
func New(cfg *config.Config, logger zerolog.Logger) (*Converter, error) {
	mode, err := ranges.ParseMode(cfg.RangeCompare)
	if err != nil {
		return nil, err
	}
	if _, err := charset.Lookup(cfg.SourceEncoding); err != nil {
		return nil, fmt.Errorf("source encoding: %w", err)
	}
	if _, err := charset.Lookup(cfg.TargetTRAEncoding()); err != nil {
		return nil, fmt.Errorf("target encoding: %w", err)
	}
	if _, err := charset.Lookup(cfg.OutputEncoding); err != nil {
		return nil, fmt.Errorf("output encoding: %w", err)
	}
	return &Converter{cfg: cfg, mode: mode, logger: logger}, nil
}

// Result describes one finished or aborted conversion.
type Result struct {
	Base   string
	Format string
	// Output is the written file; empty when nothing was written.
	Output  string
	Entries int
	Issues  []*diag.Error
	// Source summarizes the source-language document.
	Source ranges.Report
	// Target summarizes the target-language document, or the freshly
	// reparsed output for conversions back to indexed text.
	Target ranges.Report
	// Diff compares Source.Present with Target.Present.
	Diff ranges.Diff
	// Mismatched lists the indices whose translation lost or gained an
	// interpolation variable.
	Mismatched []int
}

// addIssue records a read-level failure against path and logs it.
func (c *Converter) addIssue(res *Result, path string, err error) {
	issue := asIssue(err, path)
	res.Issues = append(res.Issues, issue)
	c.logger.Warn().
		Str("kind", string(issue.Kind)).
		Str("file", issue.Path).
		Int("line", issue.Line).
		Str("hint", issue.Hint).
		Err(issue.Err).
		Msg("Conversion issue")
}

// asIssue converts err to a *diag.Error attached to path.
func asIssue(err error, path string) *diag.Error {
	var de *diag.Error
	if errors.As(err, &de) {
		if de.Path == "" {
			de.Path = path
		}
		return de
	}
	return diag.New(diag.Classify(err), path, err)
}

// EnsureDirs creates every directory of the layout that does not exist yet.
func (c *Converter) EnsureDirs() error {
	for _, dir := range c.cfg.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return diag.New(diag.KindFileNotFound, dir, fmt.Errorf("create directory: %w", err))
		}
	}
	return nil
}

func (c *Converter) sourcePath(base string) string {
	return filepath.Join(c.cfg.SourceDir(), base+".tra")
}

func (c *Converter) targetPath(base string) string {
	return filepath.Join(c.cfg.TargetDir(), base+".tra")
}

func (c *Converter) logResult(res *Result) {
	c.logger.Info().
		Str("base", res.Base).
		Str("format", res.Format).
		Str("output", res.Output).
		Int("entries", res.Entries).
		Int("issues", len(res.Issues)).
		Strs("present", ranges.Strings(res.Target.Present)).
		Strs("empty", ranges.Strings(res.Target.Empty)).
		Msg("Conversion completed")

	if !res.Diff.Empty() {
		c.logger.Warn().
			Str("base", res.Base).
			Str("mode", string(c.mode)).
			Strs("missing", res.Diff.Missing).
			Strs("extra", res.Diff.Extra).
			Msg("Index ranges differ between source and target")
	}
}
