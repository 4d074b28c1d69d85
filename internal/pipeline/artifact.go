package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TranslatedPrefix is prepended to a report's filename to name its
// translated-text artifact.
const TranslatedPrefix = "translated_"

// ArtifactName returns the artifact filename for a source report, e.g.
// "report-42.pdf" -> "translated_report-42.pdf.txt".
func ArtifactName(sourceName string) string {
	return TranslatedPrefix + sourceName + ".txt"
}

// SourceName recovers the original report name from an artifact filename.
// Unrecognized names are returned unchanged.
func SourceName(artifactName string) string {
	name := artifactName
	if !strings.HasPrefix(name, TranslatedPrefix) {
		return name
	}
	name = strings.TrimPrefix(name, TranslatedPrefix)
	name = strings.TrimSuffix(name, ".txt")
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

// WriteTranslation persists translated pages as one artifact with per-page
// section headers, creating dir if needed.
func WriteTranslation(dir, sourceName string, pages []string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var b strings.Builder
	for i, page := range pages {
		fmt.Fprintf(&b, "--- Page %d ---\n", i+1)
		b.WriteString(page)
		b.WriteString("\n\n")
	}

	path := filepath.Join(dir, ArtifactName(sourceName))
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// ReadTranslation loads an artifact back into per-page texts by splitting on
// the section headers WriteTranslation emits. Files without headers come
// back as a single page.
func ReadTranslation(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	content := string(data)
	if !strings.Contains(content, "--- Page ") {
		return []string{strings.TrimSpace(content)}, nil
	}

	var pages []string
	for _, section := range strings.Split(content, "--- Page ")[1:] {
		if _, rest, found := strings.Cut(section, "---\n"); found {
			pages = append(pages, strings.TrimSpace(rest))
		}
	}
	return pages, nil
}
