// Package recommender ranks corpus vectors against a user's interest profile.
package recommender

import (
	"errors"
	"fmt"
	"sort"

	"talkrec/internal/domain"
	"talkrec/internal/embedding"
	"talkrec/internal/similarity"
)

// Ranking is the outcome of one recommendation request.
type Ranking struct {
	// Query is the count-weighted profile vector the corpus was scored against.
	Query domain.SparseVector
	// Items are ordered best first.
	Items []domain.Recommendation
	// Degenerate lists corpus ids that could not be scored under the metric.
	Degenerate []string
}

// Recommender scores every corpus entry against a profile built from the
// user's own documents.
type Recommender struct {
	vectorizer *embedding.Vectorizer
}

// New creates a recommender. A nil vectorizer selects the default one.
func New(v *embedding.Vectorizer) *Recommender {
	if v == nil {
		v = embedding.NewVectorizer(nil)
	}
	return &Recommender{vectorizer: v}
}

// Recommend builds the query vector from userDocs under the count scheme,
// whatever scheme the corpus sets were built with, and ranks every entry of
// every set best first: descending score for cosine and jaccard, ascending
// for the distance metrics (euclidean, manhattan, minkowski) so the nearest
// talk leads. Equal scores keep encounter order.
func (r *Recommender) Recommend(userDocs []domain.Document, sets []domain.VectorSet, m domain.Metric) (Ranking, error) {
	if err := m.Validate(); err != nil {
		return Ranking{}, err
	}
	query, err := r.vectorizer.Query(userDocs)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCorpus) {
			return Ranking{}, fmt.Errorf("%w: user documents have no usable text", domain.ErrEmptyUserProfile)
		}
		return Ranking{}, err
	}
	return Rank(query, sets, m)
}

// Rank scores query against every entry of sets. Entries from different sets
// are all emitted, even when ids repeat. Similarity metrics sort descending and
// distance metrics ascending; equal scores keep encounter order. Entries the
// metric cannot score (zero magnitude under cosine) are left out of Items and
// listed in Degenerate.
func Rank(query domain.SparseVector, sets []domain.VectorSet, m domain.Metric) (Ranking, error) {
	if err := m.Validate(); err != nil {
		return Ranking{}, err
	}
	if len(query) == 0 {
		return Ranking{}, fmt.Errorf("%w: query vector is empty", domain.ErrEmptyUserProfile)
	}
	n := 0
	for _, s := range sets {
		n += s.Len()
	}
	out := Ranking{Query: query, Items: make([]domain.Recommendation, 0, n)}
	for _, s := range sets {
		for _, e := range s.Entries {
			score, err := similarity.Score(query, e.Vector, m)
			if err != nil {
				if errors.Is(err, domain.ErrDegenerateVector) {
					out.Degenerate = append(out.Degenerate, e.ID)
					continue
				}
				return Ranking{}, fmt.Errorf("score %s: %w", e.ID, err)
			}
			out.Items = append(out.Items, domain.Recommendation{ID: e.ID, Score: score})
		}
	}
	if m.Distance() {
		sort.SliceStable(out.Items, func(i, j int) bool { return out.Items[i].Score < out.Items[j].Score })
	} else {
		sort.SliceStable(out.Items, func(i, j int) bool { return out.Items[i].Score > out.Items[j].Score })
	}
	return out, nil
}

// Top returns at most n items; n <= 0 returns all of them.
func (r Ranking) Top(n int) []domain.Recommendation {
	if n <= 0 || n >= len(r.Items) {
		return r.Items
	}
	return r.Items[:n]
}
