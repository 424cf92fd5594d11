package feed

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"talkrec/internal/domain"
)

const monthLayout = "2006-01"

// ParseMonth parses a "YYYY-MM" month.
func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: want YYYY-MM", month)
	}
	return t, nil
}

// Months returns every month from start to end inclusive as "YYYY-MM".
func Months(start, end string) ([]string, error) {
	s, err := ParseMonth(start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	e, err := ParseMonth(end)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	if s.After(e) {
		return nil, fmt.Errorf("start month %s is after end month %s", start, end)
	}
	var out []string
	for m := s; !m.After(e); m = m.AddDate(0, 1, 0) {
		out = append(out, m.Format(monthLayout))
	}
	return out, nil
}

// Source reads "<dir>/YYYY-MM.xml" feed files.
type Source struct {
	dir string
}

// NewSource creates a source over the feed files in dir.
func NewSource(dir string) *Source { return &Source{dir: dir} }

// Path returns the feed file for a month.
func (s *Source) Path(month string) string {
	return filepath.Join(s.dir, month+".xml")
}

// Talks returns the talks of every available month in [start, end], oldest
// month first. Months without a feed file are skipped; the same talk may
// appear in several months.
func (s *Source) Talks(start, end string) ([]Talk, error) {
	months, err := Months(start, end)
	if err != nil {
		return nil, err
	}
	var out []Talk
	for _, m := range months {
		f, err := os.Open(s.Path(m))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		talks, err := Parse(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Path(m), err)
		}
		out = append(out, talks...)
	}
	return out, nil
}

// Documents implements domain.DocumentSource.
func (s *Source) Documents(start, end string) ([]domain.Document, error) {
	talks, err := s.Talks(start, end)
	if err != nil {
		return nil, err
	}
	docs := make([]domain.Document, len(talks))
	for i, t := range talks {
		docs[i] = t.Document()
	}
	return docs, nil
}
