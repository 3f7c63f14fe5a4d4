package interpolation

import (
	"regexp"
	"slices"
)

// patterns detect the variables a game engine substitutes at display time.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`<[A-Z][A-Z0-9_]*>`),                    // <CHARNAME>, <PRO_HESHE>
	regexp.MustCompile(`\{[0-9]+\}`),                           // {0}, {1}
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfieEgGxXoubcpq]`), // %d, %s, %2d
	regexp.MustCompile(`%%`),                                   // escaped percent literal
}

// varMatch stores a detected interpolation variable position.
type varMatch struct {
	start, end int
	value      string
}

// Extract returns the interpolation variables of text in order of
// appearance. Where matches overlap, the earliest and then longest wins.
func Extract(text string) []string {
	var all []varMatch
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			all = append(all, varMatch{start: loc[0], end: loc[1], value: text[loc[0]:loc[1]]})
		}
	}
	if len(all) == 0 {
		return nil
	}

	slices.SortFunc(all, func(a, b varMatch) int {
		if a.start != b.start {
			return a.start - b.start
		}
		return (b.end - b.start) - (a.end - a.start)
	})

	var vars []string
	lastEnd := -1
	for _, m := range all {
		if m.start >= lastEnd {
			vars = append(vars, m.value)
			lastEnd = m.end
		}
	}
	return vars
}

// Diff compares the variables of a source text and its translation as
// multisets. Order is ignored since translations may reorder them.
func Diff(source, translated string) (missing, extra []string) {
	counts := make(map[string]int)
	for _, v := range Extract(source) {
		counts[v]++
	}
	for _, v := range Extract(translated) {
		if counts[v] > 0 {
			counts[v]--
			continue
		}
		extra = append(extra, v)
	}
	for _, v := range Extract(source) {
		if counts[v] > 0 {
			missing = append(missing, v)
			counts[v]--
		}
	}
	return missing, extra
}
