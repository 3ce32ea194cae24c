// ABOUTME: Scans a directory of raw PDF files and turns each one into a Document.
// ABOUTME: Per-page extraction is lenient; per-file failures are collected, not fatal.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/embedops/embedops/internal/models"
)

// DefaultRawDir is where ingestible PDFs are expected to live.
const DefaultRawDir = "data/raw"

// maxReportedErrors caps how many per-file issues appear in the
// nothing-ingested error message.
const maxReportedErrors = 10

// ExtractPDFText reads every page of the PDF at path and returns the
// concatenated text, pages joined with newlines. Pages that fail to
// extract are skipped; the error is non-nil only when the file itself
// cannot be opened or read.
func ExtractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read PDF %q: %v", models.ErrIngestion, path, err)
	}
	defer f.Close()

	var parts []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip problematic page, don't fail the entire file.
			continue
		}
		parts = append(parts, text)
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}

// IngestPDFs reads every .pdf under rawDir (sorted by name) and returns
// one Document per file with extractable text. Non-PDF files are
// ignored. Files that cannot be read, or that contain no text, are
// skipped; if nothing usable remains, the returned error summarizes
// what went wrong per file.
func IngestPDFs(rawDir string) ([]models.Document, error) {
	if rawDir == "" {
		rawDir = DefaultRawDir
	}
	info, err := os.Stat(rawDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: raw directory not found: %q. Create it and add PDFs", models.ErrIngestion, rawDir)
	}

	entries, err := os.ReadDir(rawDir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %v", models.ErrIngestion, rawDir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var docs []models.Document
	var issues []string

	for _, name := range names {
		text, err := ExtractPDFText(filepath.Join(rawDir, name))
		if err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if text == "" {
			issues = append(issues, fmt.Sprintf("%s: no extractable text (scanned PDF or empty)", name))
			continue
		}
		docs = append(docs, models.Document{
			DocID:      models.NewDocID(text),
			Source:     name,
			Text:       text,
			Version:    1,
			IngestedAt: time.Now().UTC(),
		})
	}

	if len(docs) == 0 {
		msg := "no ingestible PDFs found"
		if len(issues) > 0 {
			shown := issues
			if len(shown) > maxReportedErrors {
				shown = shown[:maxReportedErrors]
			}
			msg += ". Issues encountered:\n- " + strings.Join(shown, "\n- ")
			if len(issues) > maxReportedErrors {
				msg += fmt.Sprintf("\n- ... and %d more", len(issues)-maxReportedErrors)
			}
		}
		return nil, fmt.Errorf("%w: %s", models.ErrIngestion, msg)
	}

	return docs, nil
}
