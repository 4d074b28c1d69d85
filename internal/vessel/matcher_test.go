package vessel

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"M/V  Blue Ocean", "m v blue ocean"},
		{"m/v blue ocean", "m v blue ocean"},
		{"Sirimas 8", "sirimas 8"},
		{"  SIRIMAS   8.  ", "sirimas 8"},
		{"", ""},
		{"...", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatchDocument_Exact(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	v := Vessel{Name: "Sirimas 8"}
	pages := []string{"On 12 March the vessel Sirimas 8 entered the zone near the border."}

	match, ok := m.MatchDocument(v, pages)
	if !ok {
		t.Fatal("expected a match")
	}
	if match.Type != MatchExact {
		t.Errorf("expected exact match, got %v", match.Type)
	}
	if match.Confidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %v", match.Confidence)
	}
	if match.Span != "Sirimas 8" {
		t.Errorf("expected span 'Sirimas 8', got %q", match.Span)
	}
	if match.PageIndex != 0 {
		t.Errorf("expected page 0, got %d", match.PageIndex)
	}
}

func TestMatchDocument_ExactAcrossPunctuation(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	v := Vessel{Name: "M/V Blue Ocean"}
	pages := []string{"the m/v blue ocean departed at dawn"}

	match, ok := m.MatchDocument(v, pages)
	if !ok {
		t.Fatal("expected a match")
	}
	if match.Type != MatchExact {
		t.Errorf("expected exact match, got %v", match.Type)
	}
	if match.Span != "m/v blue ocean" {
		t.Errorf("expected span 'm/v blue ocean', got %q", match.Span)
	}
}

func TestMatchDocument_NormalizationSymmetry(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	pages := []string{"sighting of m/v blue ocean confirmed"}

	a, okA := m.MatchDocument(Vessel{Name: "M/V  Blue Ocean"}, pages)
	b, okB := m.MatchDocument(Vessel{Name: "m/v blue ocean"}, pages)

	if okA != okB {
		t.Fatalf("match presence differs: %v vs %v", okA, okB)
	}
	if a.Type != b.Type || a.Confidence != b.Confidence || a.PageIndex != b.PageIndex || a.Span != b.Span {
		t.Errorf("match results differ under name variation: %+v vs %+v", a, b)
	}
}

func TestMatchDocument_Fuzzy(t *testing.T) {
	m := NewMatcher(0.80)
	v := Vessel{Name: "Sirimas 8"}
	pages := []string{"the vessel Sirimass 8 entered the harbor"}

	match, ok := m.MatchDocument(v, pages)
	if !ok {
		t.Fatal("expected a fuzzy match")
	}
	if match.Type != MatchFuzzy {
		t.Errorf("expected fuzzy match, got %v", match.Type)
	}
	if match.Confidence < 0.80 {
		t.Errorf("expected confidence >= 0.80, got %v", match.Confidence)
	}
	if match.Confidence >= 1.0 {
		t.Errorf("fuzzy confidence must be below 1.0, got %v", match.Confidence)
	}
	if match.Span != "Sirimass 8" {
		t.Errorf("expected span 'Sirimass 8', got %q", match.Span)
	}
}

func TestMatchDocument_NoMatch(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	pages := []string{"the weather was calm and the port remained closed all week"}

	for _, name := range []string{"Sirimas 8", "Blue Ocean", "Chokchai Navee"} {
		if match, ok := m.MatchDocument(Vessel{Name: name}, pages); ok {
			t.Errorf("expected no match for %q, got %+v", name, match)
		}
	}
}

func TestMatchDocument_SingleResultPerPair(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	v := Vessel{Name: "Sirimas 8"}
	pages := []string{
		"Sirimas 8 was seen at dawn. Later, Sirimas 8 left port.",
		"Sirimas 8 appears again on this page.",
	}

	match, ok := m.MatchDocument(v, pages)
	if !ok {
		t.Fatal("expected a match")
	}
	// The earliest occurrence wins.
	if match.PageIndex != 0 {
		t.Errorf("expected page 0, got %d", match.PageIndex)
	}
	if match.Type != MatchExact || match.Confidence != 1.0 {
		t.Errorf("expected exact match with confidence 1.0, got %+v", match)
	}
}

func TestMatchDocument_ThresholdMonotonicity(t *testing.T) {
	pages := []string{"the vessel Sirimass 8 entered the harbor"}
	v := Vessel{Name: "Sirimas 8"}

	low, okLow := NewMatcher(0.80).MatchDocument(v, pages)
	if !okLow {
		t.Fatal("expected a match at threshold 0.80")
	}

	// Raising the threshold above the score turns the match off.
	if _, ok := NewMatcher(0.99).MatchDocument(v, pages); ok {
		t.Error("expected no match at threshold 0.99")
	}

	// Raising the threshold never affects an exact match.
	exactPages := []string{"the vessel Sirimas 8 entered the harbor"}
	strict, ok := NewMatcher(0.99).MatchDocument(v, exactPages)
	if !ok || strict.Type != MatchExact || strict.Confidence != 1.0 {
		t.Errorf("exact match should survive any threshold, got %+v ok=%v", strict, ok)
	}

	// And no non-match becomes a match.
	if _, ok := NewMatcher(0.99).MatchDocument(Vessel{Name: "Chokchai Navee"}, pages); ok {
		t.Error("raising the threshold must not create matches")
	}
	_ = low
}

func TestMatchDocument_FuzzyTieBreakEarliest(t *testing.T) {
	m := NewMatcher(0.80)
	v := Vessel{Name: "alpha"}
	pages := []string{"beta alphax gamma", "alphax delta"}

	match, ok := m.MatchDocument(v, pages)
	if !ok {
		t.Fatal("expected a fuzzy match")
	}
	if match.PageIndex != 0 {
		t.Errorf("tie must resolve to the earliest page, got page %d", match.PageIndex)
	}
}

func TestMatchDocument_Alias(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	v := Vessel{Name: "Sirimas 8", Aliases: []string{"Sirimat Fishery 8"}}
	pages := []string{"the boat Sirimat Fishery 8 was boarded for inspection"}

	match, ok := m.MatchDocument(v, pages)
	if !ok {
		t.Fatal("expected a match via alias")
	}
	if match.Type != MatchExact {
		t.Errorf("expected exact match via alias, got %v", match.Type)
	}
	if match.Span != "Sirimat Fishery 8" {
		t.Errorf("expected alias span, got %q", match.Span)
	}
}

func TestMatchDocument_WordBoundaries(t *testing.T) {
	m := NewMatcher(1.0) // exact pass only
	// "Siri" must not exact-match inside "Sirimas".
	if _, ok := m.MatchDocument(Vessel{Name: "Siri"}, []string{"vessel Sirimas 8 entered"}); ok {
		t.Error("substring of a longer word must not exact-match")
	}
}

func TestMatchDocument_EmptyInputs(t *testing.T) {
	m := NewMatcher(DefaultThreshold)

	if _, ok := m.MatchDocument(Vessel{Name: "Sirimas 8"}, nil); ok {
		t.Error("empty document must not match")
	}
	if _, ok := m.MatchDocument(Vessel{Name: "Sirimas 8"}, []string{"", "  "}); ok {
		t.Error("blank document must not match")
	}
	if _, ok := m.MatchDocument(Vessel{Name: ""}, []string{"some text here"}); ok {
		t.Error("empty vessel name must not match")
	}
	if _, ok := m.MatchDocument(Vessel{Name: "..."}, []string{"some text here"}); ok {
		t.Error("punctuation-only vessel name must not match")
	}
}

func TestMatchDocument_PageAttribution(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	v := Vessel{Name: "Sirimas 8"}
	pages := []string{
		"nothing of note on the first page",
		"second page reports Sirimas 8 near the boundary",
		"third page mentions Sirimas 8 too",
	}

	match, ok := m.MatchDocument(v, pages)
	if !ok {
		t.Fatal("expected a match")
	}
	if match.PageIndex != 1 {
		t.Errorf("expected page 1, got %d", match.PageIndex)
	}
}

func TestNewMatcher_ClampsThreshold(t *testing.T) {
	for _, bad := range []float64{0, -1, 1.5} {
		if m := NewMatcher(bad); m.Threshold != DefaultThreshold {
			t.Errorf("NewMatcher(%v).Threshold = %v, want %v", bad, m.Threshold, DefaultThreshold)
		}
	}
	if m := NewMatcher(0.9); m.Threshold != 0.9 {
		t.Errorf("NewMatcher(0.9).Threshold = %v, want 0.9", m.Threshold)
	}
}

func TestContainsVerbatim(t *testing.T) {
	pages := []string{"ไม่มีข้อมูล", "เรือศิริมาศ 8 ออกจากท่า"}

	page, ok := ContainsVerbatim("ศิริมาศ 8", pages)
	if !ok {
		t.Fatal("expected Thai alias to be found")
	}
	if page != 1 {
		t.Errorf("expected page 1, got %d", page)
	}

	if _, ok := ContainsVerbatim("ศิริชัย", pages); ok {
		t.Error("absent alias must not be found")
	}
	if _, ok := ContainsVerbatim("  ", pages); ok {
		t.Error("blank alias must not be found")
	}
}
