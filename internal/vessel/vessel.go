// Package vessel holds the vessel roster model and the name-matching logic
// used to find vessel mentions in translated incident reports.
//
// Matching runs two ordered passes over normalized text: an exact pass on the
// vessel name and its aliases, then a fuzzy pass that tolerates the OCR and
// transliteration noise common in machine-translated Thai reports.
package vessel

import (
	"strings"
	"unicode"
)

// Vessel is one entry of the tracked fleet roster. Identity is the name as it
// appears in the roster; Aliases typically carries the Thai spelling.
type Vessel struct {
	Name    string
	Aliases []string

	// Row is the 1-based roster row this vessel was loaded from. It is opaque
	// to the matcher and is only used when recording matches back.
	Row int
}

// MatchType distinguishes how a vessel mention was found.
type MatchType int

const (
	// MatchExact means the normalized name or an alias appeared verbatim.
	MatchExact MatchType = iota
	// MatchFuzzy means a text window scored above the similarity threshold.
	MatchFuzzy
)

// String returns a human-readable match type.
func (t MatchType) String() string {
	switch t {
	case MatchExact:
		return "exact"
	case MatchFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// Match records a single vessel mention within one document. At most one
// Match is produced per (vessel, document) pair; the highest-confidence
// occurrence wins.
type Match struct {
	Vessel     Vessel
	Type       MatchType
	Confidence float64 // 1.0 for exact, [threshold, 1) for fuzzy
	PageIndex  int     // 0-based page containing the start of the match
	Span       string  // the document text that matched
}

// Normalize prepares a string for comparison: case-folded, punctuation
// replaced by spaces, whitespace collapsed. "M/V  Blue Ocean" and
// "m/v blue ocean" normalize identically.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
