package summarizer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"talkrec/internal/domain"
)

// TermSummarizer describes a profile vector by its heaviest terms.
type TermSummarizer struct {
	maxTerms int
}

// NewTermSummarizer creates a summarizer that lists at most maxTerms terms.
func NewTermSummarizer(maxTerms int) *TermSummarizer {
	if maxTerms <= 0 {
		maxTerms = 8
	}
	return &TermSummarizer{maxTerms: maxTerms}
}

// TermWeight is a term with its weight.
type TermWeight struct {
	Term   string
	Weight float64
}

// Top returns the heaviest terms, ties broken alphabetically.
func (s *TermSummarizer) Top(vec domain.SparseVector) []TermWeight {
	terms := make([]TermWeight, 0, len(vec))
	for t, w := range vec {
		terms = append(terms, TermWeight{t, w})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Weight != terms[j].Weight {
			return terms[i].Weight > terms[j].Weight
		}
		return terms[i].Term < terms[j].Term
	})
	if len(terms) > s.maxTerms {
		terms = terms[:s.maxTerms]
	}
	return terms
}

// Summarize renders the heaviest terms as "term(weight), ...".
func (s *TermSummarizer) Summarize(vec domain.SparseVector) string {
	top := s.Top(vec)
	if len(top) == 0 {
		return "(empty profile)"
	}
	parts := make([]string, len(top))
	for i, tw := range top {
		parts[i] = fmt.Sprintf("%s(%s)", tw.Term, strconv.FormatFloat(tw.Weight, 'g', 4, 64))
	}
	return strings.Join(parts, ", ")
}
