package vessel

import (
	"strings"

	"github.com/agext/levenshtein"
)

// DefaultThreshold is the minimum fuzzy similarity score treated as a match.
const DefaultThreshold = 0.80

// Matcher finds vessel mentions in document text. It is a pure function of
// its inputs and safe for concurrent use.
type Matcher struct {
	// Threshold is the minimum normalized Levenshtein similarity for the
	// fuzzy pass. Exact matches are unaffected by it.
	Threshold float64
}

// NewMatcher returns a Matcher with the given fuzzy threshold. Values outside
// (0, 1] fall back to DefaultThreshold.
func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Matcher{Threshold: threshold}
}

// token is one normalized word of a document, with enough provenance to
// report the page and original text of a match.
type token struct {
	norm   string
	raw    string // the raw whitespace-delimited word this token came from
	rawIdx int    // index of that word across the whole document
	page   int    // 0-based page the word appeared on
}

// tokenizePages splits page texts into normalized tokens. A raw word may
// yield several tokens when punctuation splits it ("M/V" -> "m", "v").
func tokenizePages(pages []string) []token {
	var tokens []token
	rawIdx := 0
	for page, text := range pages {
		for _, raw := range strings.Fields(text) {
			for _, norm := range strings.Fields(Normalize(raw)) {
				tokens = append(tokens, token{norm: norm, raw: raw, rawIdx: rawIdx, page: page})
			}
			rawIdx++
		}
	}
	return tokens
}

// span joins the raw words underlying tokens[start:end], deduplicating words
// that produced more than one token.
func span(tokens []token, start, end int) string {
	var parts []string
	last := -1
	for _, t := range tokens[start:end] {
		if t.rawIdx != last {
			parts = append(parts, t.raw)
			last = t.rawIdx
		}
	}
	return strings.Join(parts, " ")
}

// MatchDocument reports whether the vessel is mentioned in the document,
// given as ordered page texts. The second return value is false when no
// occurrence clears the threshold; that is the expected common case, not an
// error. Empty names and empty documents never match.
func (m *Matcher) MatchDocument(v Vessel, pages []string) (Match, bool) {
	tokens := tokenizePages(pages)
	if len(tokens) == 0 {
		return Match{}, false
	}

	// Exact pass: the name first, then aliases, earliest occurrence wins.
	needles := append([]string{v.Name}, v.Aliases...)
	for _, needle := range needles {
		nt := strings.Fields(Normalize(needle))
		if len(nt) == 0 {
			continue
		}
		if start, ok := findTokenRun(tokens, nt); ok {
			return Match{
				Vessel:     v,
				Type:       MatchExact,
				Confidence: 1.0,
				PageIndex:  tokens[start].page,
				Span:       span(tokens, start, start+len(nt)),
			}, true
		}
	}

	// Fuzzy pass: sliding windows sized to the canonical name's token count.
	nt := strings.Fields(Normalize(v.Name))
	if len(nt) == 0 || len(tokens) < len(nt) {
		return Match{}, false
	}
	name := strings.Join(nt, " ")

	bestScore := 0.0
	bestStart := -1
	window := make([]string, len(nt))
	for start := 0; start+len(nt) <= len(tokens); start++ {
		for i := range nt {
			window[i] = tokens[start+i].norm
		}
		score := levenshtein.Similarity(name, strings.Join(window, " "), nil)
		// Strict comparison keeps the earliest window on ties.
		if score > bestScore {
			bestScore = score
			bestStart = start
		}
	}

	if bestStart < 0 || bestScore < m.Threshold {
		return Match{}, false
	}
	return Match{
		Vessel:     v,
		Type:       MatchFuzzy,
		Confidence: bestScore,
		PageIndex:  tokens[bestStart].page,
		Span:       span(tokens, bestStart, bestStart+len(nt)),
	}, true
}

// findTokenRun locates the first contiguous run of tokens whose normalized
// forms equal needle, respecting word boundaries by construction.
func findTokenRun(tokens []token, needle []string) (int, bool) {
	for start := 0; start+len(needle) <= len(tokens); start++ {
		matched := true
		for i, want := range needle {
			if tokens[start+i].norm != want {
				matched = false
				break
			}
		}
		if matched {
			return start, true
		}
	}
	return -1, false
}

// ContainsVerbatim reports the 0-based page on which needle occurs as a raw
// substring of the page text. It exists for Thai aliases, which have no word
// boundaries and cannot go through token matching.
func ContainsVerbatim(needle string, pages []string) (int, bool) {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return 0, false
	}
	for page, text := range pages {
		if strings.Contains(text, needle) {
			return page, true
		}
	}
	return 0, false
}
