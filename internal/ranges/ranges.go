// Package ranges summarizes which indices of a document carry text and
// compares those summaries between files.
package ranges

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"

	"tra-converter/internal/document"
	"tra-converter/internal/textutil"
)

// Range is a closed run of consecutive indices.
type Range struct {
	Start int
	End   int
}

// String renders "start-end", or "start" for a singleton.
func (r Range) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Report splits a document's indices into runs with text and runs without.
type Report struct {
	Present []Range
	Empty   []Range
}

// Compute scans the indices of doc in ascending order and merges consecutive
// indices sharing the same classification. Text is empty when blank after
// trimming whitespace.
func Compute(doc *document.Document) Report {
	var rep Report
	var cur Range
	var curEmpty, open bool

	closeRun := func() {
		if !open {
			return
		}
		if curEmpty {
			rep.Empty = append(rep.Empty, cur)
		} else {
			rep.Present = append(rep.Present, cur)
		}
	}

	for _, idx := range doc.Sorted() {
		text, _ := doc.Get(idx)
		empty := textutil.IsBlank(text)
		if open && idx == cur.End+1 && empty == curEmpty {
			cur.End = idx
			continue
		}
		closeRun()
		cur, curEmpty, open = Range{Start: idx, End: idx}, empty, true
	}
	closeRun()

	return rep
}

// Strings renders each range.
func Strings(rs []Range) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}

// CompareStrings reports the rendered ranges of a missing from b and those of
// b extra over a. A run split differently on each side shows up on both
// lists even when the indices are the same.
func CompareStrings(a, b []Range) (missing, extra []string) {
	as, bs := Strings(a), Strings(b)
	for _, s := range as {
		if !slices.Contains(bs, s) {
			missing = append(missing, s)
		}
	}
	for _, s := range bs {
		if !slices.Contains(as, s) {
			extra = append(extra, s)
		}
	}
	return missing, extra
}

// CompareIntervals compares the index sets covered by a and b and returns
// the differences as merged ranges.
func CompareIntervals(a, b []Range) (missing, extra []Range) {
	return subtract(a, b), subtract(b, a)
}

// subtract returns the indices covered by a and not by b, as merged ranges.
// It works on interval bounds only, so the cost does not depend on how many
// indices a range spans.
func subtract(a, b []Range) []Range {
	a, b = normalize(a), normalize(b)

	var out []Range
	j := 0
	for _, r := range a {
		for j < len(b) && b[j].End < r.Start {
			j++
		}
		start, covered := r.Start, false
		for k := j; k < len(b) && b[k].Start <= r.End; k++ {
			if b[k].Start > start {
				out = append(out, Range{Start: start, End: b[k].Start - 1})
			}
			if b[k].End >= r.End {
				covered = true
				break
			}
			start = b[k].End + 1
		}
		if !covered {
			out = append(out, Range{Start: start, End: r.End})
		}
	}
	return out
}

// normalize sorts rs and merges overlapping or adjacent ranges.
func normalize(rs []Range) []Range {
	sorted := slices.Clone(rs)
	slices.SortFunc(sorted, func(x, y Range) int { return cmp.Compare(x.Start, y.Start) })

	var out []Range
	for _, r := range sorted {
		if n := len(out); n > 0 {
			last := &out[n-1]
			if r.Start <= last.End || (last.End < math.MaxInt && r.Start == last.End+1) {
				last.End = max(last.End, r.End)
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// Mode selects the comparison semantics.
type Mode string

const (
	// ModeInterval compares covered indices.
	ModeInterval Mode = "interval"
	// ModeString compares rendered range strings, as earlier reports did.
	ModeString Mode = "string"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeInterval, "":
		return ModeInterval, nil
	case ModeString:
		return ModeString, nil
	}
	return "", fmt.Errorf("unknown range comparison mode %q (want %q or %q)", s, ModeInterval, ModeString)
}

// Diff is the rendered result of a comparison.
type Diff struct {
	Missing []string
	Extra   []string
}

// Empty reports whether both sides matched.
func (d Diff) Empty() bool { return len(d.Missing) == 0 && len(d.Extra) == 0 }

// Compare runs the comparison selected by mode.
func Compare(mode Mode, a, b []Range) Diff {
	if mode == ModeString {
		missing, extra := CompareStrings(a, b)
		return Diff{Missing: missing, Extra: extra}
	}
	missing, extra := CompareIntervals(a, b)
	return Diff{Missing: Strings(missing), Extra: Strings(extra)}
}
