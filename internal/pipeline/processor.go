// Package pipeline sequences one full run: extract each report, translate
// it, persist the translated artifact, match every tracked vessel against
// the text, and record each hit.
//
// Failure isolation is the governing rule: a report that cannot be extracted
// or translated is logged, counted and skipped; a vessel whose match cannot
// be recorded never blocks the remaining vessels or reports.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"vesselwatch/internal/extract"
	"vesselwatch/internal/logger"
	"vesselwatch/internal/translate"
	"vesselwatch/internal/vessel"
)

// Recorder persists a (vessel, report) match. The sheets service and the
// local roster both implement it.
type Recorder interface {
	// RecordMatch records a report link against a vessel.
	RecordMatch(ctx context.Context, v vessel.Vessel, link string) error

	// Flush persists any buffered writes at the end of a run.
	Flush(ctx context.Context) error
}

// Processor runs the extraction-translation-matching pipeline. All
// collaborators are injected so tests can substitute fakes.
type Processor struct {
	extractor     extract.Extractor
	translator    translate.Translator
	recorder      Recorder
	matcher       *vessel.Matcher
	vessels       []vessel.Vessel
	translatedDir string
	log           zerolog.Logger
}

// NewProcessor creates a pipeline processor.
func NewProcessor(extractor extract.Extractor, translator translate.Translator, recorder Recorder,
	matcher *vessel.Matcher, vessels []vessel.Vessel, translatedDir string) *Processor {
	return &Processor{
		extractor:     extractor,
		translator:    translator,
		recorder:      recorder,
		matcher:       matcher,
		vessels:       vessels,
		translatedDir: translatedDir,
		log:           logger.WithComponent("pipeline"),
	}
}

// Summary reports the outcome of one pipeline run.
type Summary struct {
	Processed      int      // reports attempted
	Translated     int      // reports successfully extracted and translated
	Matched        int      // vessel/report matches found
	Recorded       int      // matches successfully recorded
	Failed         int      // reports skipped after extraction/translation failure
	RecordFailures int      // matches found but not recorded
	FailedReports  []string // names of skipped reports
}

// Ok reports whether the run completed without report or recording failures.
func (s Summary) Ok() bool {
	return s.Failed == 0 && s.RecordFailures == 0
}

// reportResult is the per-report outcome of the processing phase.
type reportResult struct {
	name    string
	matches []vessel.Match
	err     error
}

// Run processes the given report files. Reports are processed with the given
// number of parallel workers (1 means sequential); recording runs serially
// afterwards so the recorder needs no locking.
func (p *Processor) Run(ctx context.Context, reportPaths []string, workers int) Summary {
	summary := Summary{Processed: len(reportPaths)}

	p.log.Info().
		Int("reports", len(reportPaths)).
		Int("vessels", len(p.vessels)).
		Int("workers", workers).
		Float64("threshold", p.matcher.Threshold).
		Msg("Starting pipeline run")

	results := p.processReports(ctx, reportPaths, workers)

	for _, result := range results {
		if result.err != nil {
			p.log.Error().
				Err(result.err).
				Str("report", result.name).
				Msg("Report failed")
			summary.Failed++
			summary.FailedReports = append(summary.FailedReports, result.name)
			continue
		}
		summary.Translated++
		summary.Matched += len(result.matches)

		for _, m := range result.matches {
			if err := p.recorder.RecordMatch(ctx, m.Vessel, result.name); err != nil {
				p.log.Error().
					Err(err).
					Str("vessel", m.Vessel.Name).
					Str("report", result.name).
					Msg("Failed to record match")
				summary.RecordFailures++
				continue
			}
			summary.Recorded++
		}
	}

	if err := p.recorder.Flush(ctx); err != nil {
		p.log.Error().Err(err).Msg("Failed to flush recorder")
		summary.RecordFailures += summary.Recorded
		summary.Recorded = 0
	}

	p.log.Info().
		Int("processed", summary.Processed).
		Int("translated", summary.Translated).
		Int("matched", summary.Matched).
		Int("recorded", summary.Recorded).
		Int("failed", summary.Failed).
		Msg("Pipeline run completed")
	return summary
}

// processReports runs the per-report phase, optionally across a worker pool.
func (p *Processor) processReports(ctx context.Context, reportPaths []string, workers int) []reportResult {
	results := make([]reportResult, len(reportPaths))

	if workers <= 1 {
		for i, path := range reportPaths {
			results[i] = p.processReport(ctx, path)
		}
		return results
	}

	jobs := make(chan int, len(reportPaths))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.processReport(ctx, reportPaths[i])
			}
		}()
	}
	for i := range reportPaths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// processReport extracts, translates, persists and matches one report.
func (p *Processor) processReport(ctx context.Context, path string) reportResult {
	name := filepath.Base(path)
	result := reportResult{name: name}
	log := p.log.With().Str("report", name).Logger()

	file, err := os.Open(path)
	if err != nil {
		result.err = fmt.Errorf("failed to open report: %w", err)
		return result
	}
	rawPages, err := p.extractor.ExtractPages(ctx, file)
	file.Close()
	if err != nil {
		result.err = fmt.Errorf("extraction failed: %w", err)
		return result
	}
	if allBlank(rawPages) {
		result.err = fmt.Errorf("extraction yielded no text")
		return result
	}
	log.Info().Int("pages", len(rawPages)).Msg("Extracted report text")

	translatedPages, err := translate.TranslatePages(ctx, p.translator, rawPages)
	if err != nil {
		result.err = fmt.Errorf("translation failed: %w", err)
		return result
	}

	artifactPath, err := WriteTranslation(p.translatedDir, name, translatedPages)
	if err != nil {
		result.err = fmt.Errorf("failed to persist translation: %w", err)
		return result
	}
	log.Info().Str("artifact", artifactPath).Msg("Persisted translated text")

	result.matches = p.MatchVessels(rawPages, translatedPages)
	for _, m := range result.matches {
		log.Info().
			Str("vessel", m.Vessel.Name).
			Str("type", m.Type.String()).
			Float64("confidence", m.Confidence).
			Int("page", m.PageIndex+1).
			Str("span", m.Span).
			Msg("Vessel mentioned in report")
	}
	return result
}

// MatchVessels runs the matcher for every tracked vessel against one
// document, yielding at most one match per vessel. Thai aliases, which have
// no word boundaries, are checked verbatim against the untranslated pages.
func (p *Processor) MatchVessels(rawPages, translatedPages []string) []vessel.Match {
	var matches []vessel.Match
	for _, v := range p.vessels {
		if m, ok := p.matchVessel(v, rawPages, translatedPages); ok {
			matches = append(matches, m)
		}
	}
	return matches
}

func (p *Processor) matchVessel(v vessel.Vessel, rawPages, translatedPages []string) (vessel.Match, bool) {
	m, ok := p.matcher.MatchDocument(v, translatedPages)
	if ok && m.Type == vessel.MatchExact {
		return m, true
	}

	for _, alias := range v.Aliases {
		if page, found := vessel.ContainsVerbatim(alias, rawPages); found {
			return vessel.Match{
				Vessel:     v,
				Type:       vessel.MatchExact,
				Confidence: 1.0,
				PageIndex:  page,
				Span:       alias,
			}, true
		}
	}

	return m, ok
}

func allBlank(pages []string) bool {
	for _, page := range pages {
		if strings.TrimSpace(page) != "" {
			return false
		}
	}
	return true
}
