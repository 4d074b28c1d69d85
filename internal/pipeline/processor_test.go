package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vesselwatch/internal/vessel"
)

// mockExtractor returns canned pages per report filename.
type mockExtractor struct {
	pages map[string][]string
	errs  map[string]error
}

func (m *mockExtractor) ExtractPages(ctx context.Context, r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(string(data))
	if err, ok := m.errs[name]; ok {
		return nil, err
	}
	return m.pages[name], nil
}

// mockTranslator upper-cases text so tests can tell raw from translated.
type mockTranslator struct {
	err error
}

func (m *mockTranslator) Translate(ctx context.Context, text string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return strings.ToUpper(text), nil
}

// mockRecorder collects recorded (vessel, link) pairs.
type mockRecorder struct {
	recorded map[string][]string
	err      error
	flushed  bool
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{recorded: make(map[string][]string)}
}

func (m *mockRecorder) RecordMatch(ctx context.Context, v vessel.Vessel, link string) error {
	if m.err != nil {
		return m.err
	}
	m.recorded[v.Name] = append(m.recorded[v.Name], link)
	return nil
}

func (m *mockRecorder) Flush(ctx context.Context) error {
	m.flushed = true
	return nil
}

// writeReport creates a stub report file whose content is its own name, so
// the mock extractor can look up the right pages.
func writeReport(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(name), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testVessels() []vessel.Vessel {
	return []vessel.Vessel{
		{Name: "Sirimas 8", Aliases: []string{"ศิริมาศ 8"}, Row: 2},
		{Name: "Blue Ocean", Row: 3},
	}
}

func newTestProcessor(extractor *mockExtractor, translator *mockTranslator, recorder *mockRecorder, dir string) *Processor {
	return NewProcessor(extractor, translator, recorder,
		vessel.NewMatcher(vessel.DefaultThreshold), testVessels(), filepath.Join(dir, "translated"))
}

func TestRun_MatchesAndRecords(t *testing.T) {
	dir := t.TempDir()
	r1 := writeReport(t, dir, "report-1.pdf")

	extractor := &mockExtractor{pages: map[string][]string{
		"report-1.pdf": {"vessel sirimas 8 entered the zone"},
	}}
	recorder := newMockRecorder()
	proc := newTestProcessor(extractor, &mockTranslator{}, recorder, dir)

	summary := proc.Run(context.Background(), []string{r1}, 1)

	if summary.Processed != 1 || summary.Translated != 1 || summary.Failed != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.Matched != 1 || summary.Recorded != 1 {
		t.Errorf("expected 1 match recorded, got %+v", summary)
	}
	if got := recorder.recorded["Sirimas 8"]; len(got) != 1 || got[0] != "report-1.pdf" {
		t.Errorf("expected link for Sirimas 8, got %v", got)
	}
	if len(recorder.recorded["Blue Ocean"]) != 0 {
		t.Error("Blue Ocean must not match")
	}
	if !recorder.flushed {
		t.Error("expected recorder to be flushed")
	}
	if !summary.Ok() {
		t.Error("expected summary.Ok()")
	}

	// The translated artifact exists and contains the translated text.
	artifact := filepath.Join(dir, "translated", "translated_report-1.pdf.txt")
	data, err := os.ReadFile(artifact)
	if err != nil {
		t.Fatalf("expected artifact at %s: %v", artifact, err)
	}
	if !strings.Contains(string(data), "VESSEL SIRIMAS 8") {
		t.Errorf("artifact missing translated text: %q", string(data))
	}
}

func TestRun_ExtractionFailureIsIsolated(t *testing.T) {
	dir := t.TempDir()
	bad := writeReport(t, dir, "corrupt.pdf")
	good := writeReport(t, dir, "good.pdf")

	extractor := &mockExtractor{
		pages: map[string][]string{
			"good.pdf": {"sighting of blue ocean confirmed"},
		},
		errs: map[string]error{
			"corrupt.pdf": fmt.Errorf("unreadable PDF"),
		},
	}
	recorder := newMockRecorder()
	proc := newTestProcessor(extractor, &mockTranslator{}, recorder, dir)

	summary := proc.Run(context.Background(), []string{bad, good}, 1)

	if summary.Failed != 1 {
		t.Errorf("expected 1 failed report, got %d", summary.Failed)
	}
	if len(summary.FailedReports) != 1 || summary.FailedReports[0] != "corrupt.pdf" {
		t.Errorf("unexpected failed reports: %v", summary.FailedReports)
	}
	if summary.Translated != 1 || summary.Recorded != 1 {
		t.Errorf("good report must still be processed: %+v", summary)
	}
	if got := recorder.recorded["Blue Ocean"]; len(got) != 1 || got[0] != "good.pdf" {
		t.Errorf("expected link for Blue Ocean, got %v", got)
	}
	if summary.Ok() {
		t.Error("summary with failures must not be Ok")
	}
}

func TestRun_TranslationFailureIsIsolated(t *testing.T) {
	dir := t.TempDir()
	r1 := writeReport(t, dir, "report-1.pdf")

	extractor := &mockExtractor{pages: map[string][]string{
		"report-1.pdf": {"ข้อความภาษาไทย"},
	}}
	recorder := newMockRecorder()
	proc := newTestProcessor(extractor, &mockTranslator{err: fmt.Errorf("quota exceeded")}, recorder, dir)

	summary := proc.Run(context.Background(), []string{r1}, 1)

	if summary.Failed != 1 || summary.Translated != 0 {
		t.Errorf("expected translation failure to skip the report: %+v", summary)
	}
	if len(recorder.recorded) != 0 {
		t.Errorf("nothing should be recorded, got %v", recorder.recorded)
	}
}

func TestRun_EmptyExtractionFailsReport(t *testing.T) {
	dir := t.TempDir()
	r1 := writeReport(t, dir, "blank.pdf")

	extractor := &mockExtractor{pages: map[string][]string{
		"blank.pdf": {"", "   "},
	}}
	recorder := newMockRecorder()
	proc := newTestProcessor(extractor, &mockTranslator{}, recorder, dir)

	summary := proc.Run(context.Background(), []string{r1}, 1)
	if summary.Failed != 1 {
		t.Errorf("empty extraction must fail the report: %+v", summary)
	}
}

func TestRun_RecordFailureDoesNotBlockOtherVessels(t *testing.T) {
	dir := t.TempDir()
	r1 := writeReport(t, dir, "report-1.pdf")

	extractor := &mockExtractor{pages: map[string][]string{
		"report-1.pdf": {"sirimas 8 and blue ocean both appear here"},
	}}
	recorder := newMockRecorder()
	recorder.err = fmt.Errorf("sheet write failed")
	proc := newTestProcessor(extractor, &mockTranslator{}, recorder, dir)

	summary := proc.Run(context.Background(), []string{r1}, 1)

	if summary.Matched != 2 {
		t.Errorf("expected 2 matches, got %d", summary.Matched)
	}
	if summary.RecordFailures != 2 || summary.Recorded != 0 {
		t.Errorf("expected both recordings to fail independently: %+v", summary)
	}
	if summary.Ok() {
		t.Error("summary with record failures must not be Ok")
	}
}

func TestRun_ThaiAliasMatchesRawText(t *testing.T) {
	dir := t.TempDir()
	r1 := writeReport(t, dir, "thai.pdf")

	// The Thai name is only present in the raw text; the translation
	// paraphrases it away.
	extractor := &mockExtractor{pages: map[string][]string{
		"thai.pdf": {"เรือ ศิริมาศ 8 ออกจากท่า"},
	}}
	recorder := newMockRecorder()
	proc := newTestProcessor(extractor, &mockTranslator{}, recorder, dir)

	summary := proc.Run(context.Background(), []string{r1}, 1)

	if summary.Matched != 1 {
		t.Fatalf("expected Thai alias match, got %+v", summary)
	}
	if got := recorder.recorded["Sirimas 8"]; len(got) != 1 {
		t.Errorf("expected link for Sirimas 8 via Thai alias, got %v", got)
	}
}

func TestRun_ParallelWorkersProduceSameResults(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	pages := make(map[string][]string)
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("report-%d.pdf", i)
		paths = append(paths, writeReport(t, dir, name))
		if i%2 == 0 {
			pages[name] = []string{"vessel sirimas 8 sighted"}
		} else {
			pages[name] = []string{"no vessels here"}
		}
	}

	recorder := newMockRecorder()
	proc := newTestProcessor(&mockExtractor{pages: pages}, &mockTranslator{}, recorder, dir)

	summary := proc.Run(context.Background(), paths, 4)

	if summary.Translated != 8 || summary.Matched != 4 || summary.Recorded != 4 {
		t.Errorf("unexpected parallel summary: %+v", summary)
	}
	if got := recorder.recorded["Sirimas 8"]; len(got) != 4 {
		t.Errorf("expected 4 links, got %v", got)
	}
}

func TestMatchVessels_OneResultPerVessel(t *testing.T) {
	proc := newTestProcessor(&mockExtractor{}, &mockTranslator{}, newMockRecorder(), t.TempDir())

	matches := proc.MatchVessels(
		[]string{"เรือ ศิริมาศ 8"},
		[]string{"sirimas 8 here, sirimas 8 there, sirimas 8 everywhere"},
	)

	if len(matches) != 1 {
		t.Fatalf("expected exactly 1 match for the vessel, got %d", len(matches))
	}
	if matches[0].Type != vessel.MatchExact {
		t.Errorf("expected exact match, got %v", matches[0].Type)
	}
}
