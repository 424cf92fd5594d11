package embedding

import (
	"fmt"
	"strings"

	"talkrec/internal/domain"
	"talkrec/internal/text"
)

// Vectorizer turns documents into sparse term-weight vectors.
// Document frequencies live only for the duration of one Vectorize call.
type Vectorizer struct {
	normalizer domain.Normalizer
}

// NewVectorizer creates a vectorizer. A nil normalizer selects the English one.
func NewVectorizer(n domain.Normalizer) *Vectorizer {
	if n == nil {
		n = text.NewNormalizer()
	}
	return &Vectorizer{normalizer: n}
}

// Name returns the identifier of this vectorizer implementation.
func (v *Vectorizer) Name() string { return "bag-of-words" }

// Vectorize builds the vector set for docs under scheme in a single pass.
// Duplicate ids keep the first occurrence. Documents whose text reduces to no
// tokens are kept with an empty vector; the call fails with ErrEmptyCorpus only
// when no document contributes a token.
func (v *Vectorizer) Vectorize(docs []domain.Document, scheme domain.Scheme) (domain.VectorSet, error) {
	if !scheme.IsValid() {
		return domain.VectorSet{}, fmt.Errorf("vectorize: %w: %q", domain.ErrUnsupportedScheme, string(scheme))
	}
	if len(docs) == 0 {
		return domain.VectorSet{}, fmt.Errorf("vectorize: %w: no documents", domain.ErrEmptyCorpus)
	}

	df := make(map[string]int)
	seen := make(map[string]struct{}, len(docs))
	entries := make([]domain.Entry, 0, len(docs))
	total := 0
	for _, doc := range docs {
		if _, dup := seen[doc.ID]; dup {
			continue
		}
		seen[doc.ID] = struct{}{}
		tf := v.termCounts(doc)
		for term := range tf {
			df[term]++
		}
		total += len(tf)
		entries = append(entries, domain.Entry{ID: doc.ID, Vector: tf})
	}
	if total == 0 {
		return domain.VectorSet{}, fmt.Errorf("vectorize: %w: every document reduced to zero tokens", domain.ErrEmptyCorpus)
	}

	switch scheme {
	case domain.Count:
	case domain.TFIDF:
		for _, e := range entries {
			for term, count := range e.Vector {
				d := df[term]
				if d == 0 {
					d = 1
				}
				e.Vector[term] = count / float64(d)
			}
		}
	}
	return domain.VectorSet{Scheme: scheme, Entries: entries}, nil
}

// Query builds one count-weighted vector from all of docs, as if their text
// were a single document. Duplicate ids are counted once.
func (v *Vectorizer) Query(docs []domain.Document) (domain.SparseVector, error) {
	seen := make(map[string]struct{}, len(docs))
	var fields []string
	for _, doc := range docs {
		if _, dup := seen[doc.ID]; dup {
			continue
		}
		seen[doc.ID] = struct{}{}
		fields = append(fields, doc.Fields...)
	}
	vec := v.termCounts(domain.Document{Fields: fields})
	if len(vec) == 0 {
		return nil, fmt.Errorf("query vector: %w: no usable tokens", domain.ErrEmptyCorpus)
	}
	return vec, nil
}

func (v *Vectorizer) termCounts(doc domain.Document) domain.SparseVector {
	tokens := v.normalizer.Normalize(strings.Join(doc.Fields, " "))
	tf := make(domain.SparseVector, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}
	return tf
}
