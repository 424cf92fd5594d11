package domain

// Document is a single corpus item handed over by the feed adapter.
// Text fields are concatenated before tokenization.
type Document struct {
	ID     string
	Fields []string
}

// SparseVector maps a normalized term to its weight. Absent terms are zero;
// zero-weight terms are never stored.
type SparseVector map[string]float64

// Entry is one document's vector inside a VectorSet.
type Entry struct {
	ID     string
	Vector SparseVector
}

// VectorSet is the output of one vectorization pass under one scheme.
// Entries keep encounter order and ids are unique.
type VectorSet struct {
	Scheme  Scheme
	Entries []Entry
}

// Len returns the number of entries in the set.
func (s VectorSet) Len() int { return len(s.Entries) }

// Get returns the vector stored for id.
func (s VectorSet) Get(id string) (SparseVector, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e.Vector, true
		}
	}
	return nil, false
}

// Recommendation is a scored corpus document.
type Recommendation struct {
	ID    string
	Score float64
}

// Normalizer turns raw text into normalized tokens.
type Normalizer interface {
	Normalize(text string) []string
}

// DocumentSource yields the documents published in the month window
// [start, end], both "YYYY-MM".
type DocumentSource interface {
	Documents(start, end string) ([]Document, error)
}
