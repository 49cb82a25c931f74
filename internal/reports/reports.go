// Package reports writes the markdown mood reports produced by
// scheduled runs. One file per day and slot, overwritten on re-runs of
// the same slot.
package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmottin/moodcast-server/internal/mood"
)

// Store writes reports under a base directory.
type Store struct {
	basePath string
}

// NewStore creates a report store rooted at basePath.
func NewStore(basePath string) *Store {
	return &Store{basePath: basePath}
}

// Path returns the report file path for a day and slot.
func (s *Store) Path(day string, slot mood.Segment) string {
	return filepath.Join(s.basePath, fmt.Sprintf("%s-%s.md", day, slot))
}

// Write persists one report. Returns the relative file name.
func (s *Store) Write(predictionID string, report *mood.Report) (string, error) {
	day := report.Timestamp.Format("2006-01-02")
	path := s.Path(day, report.Segment)

	content := buildContent(predictionID, day, report)
	if err := WriteFileAtomic(path, []byte(content)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	return filepath.Base(path), nil
}

func buildContent(predictionID, day string, report *mood.Report) string {
	header := fmt.Sprintf("---\nid: %s\nday: %s\nslot: %s\ntop_mood: %s\ncreated: %s\n---\n\n",
		predictionID,
		day,
		report.Segment,
		report.TopMood,
		time.Now().UTC().Format(time.RFC3339),
	)
	return header + "```\n" + report.Summary + "```\n"
}

// Read returns the raw report file for a day and slot.
func (s *Store) Read(day string, slot mood.Segment) (string, error) {
	content, err := os.ReadFile(s.Path(day, slot))
	if err != nil {
		return "", fmt.Errorf("reading report: %w", err)
	}
	return string(content), nil
}
