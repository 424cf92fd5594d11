// Package similarity scores pairs of sparse vectors.
//
// Every metric compares the vectors over the union of their terms, with an
// absent term counting as zero. All metrics are symmetric in their arguments.
package similarity

import (
	"fmt"
	"math"
	"sort"

	"talkrec/internal/domain"
)

// Score computes the metric between a and b. Cosine fails with
// domain.ErrDegenerateVector when either vector has zero magnitude, and every
// metric fails with it rather than return NaN or Inf.
func Score(a, b domain.SparseVector, m domain.Metric) (float64, error) {
	switch m.Kind {
	case domain.Cosine:
		return Cosine(a, b)
	case domain.Euclidean:
		return finite(m, Euclidean(a, b))
	case domain.Manhattan:
		return finite(m, Manhattan(a, b))
	case domain.Minkowski:
		if err := m.Validate(); err != nil {
			return 0, err
		}
		return finite(m, Minkowski(a, b, m.P))
	case domain.Jaccard:
		return Jaccard(a, b), nil
	}
	return 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedMetric, m.Kind)
}

// finite rejects results that overflowed the float64 range.
func finite(m domain.Metric, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s: %w: result is not a finite number", m, domain.ErrDegenerateVector)
	}
	return v, nil
}

// maxDiff returns the largest absolute difference over the union of terms.
func maxDiff(a, b domain.SparseVector) float64 {
	m := 0.0
	eachDim(a, b, func(x, y float64) {
		if d := math.Abs(x - y); d > m {
			m = d
		}
	})
	return m
}

// eachDim calls fn once per term in the union of a and b, in term order so
// that sums are bit-for-bit reproducible and symmetric.
func eachDim(a, b domain.SparseVector, fn func(x, y float64)) {
	terms := make([]string, 0, len(a)+len(b))
	for term := range a {
		terms = append(terms, term)
	}
	for term := range b {
		if _, ok := a[term]; !ok {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms)
	for _, term := range terms {
		fn(a[term], b[term])
	}
}

// Manhattan is the sum of absolute differences.
func Manhattan(a, b domain.SparseVector) float64 {
	sum := 0.0
	eachDim(a, b, func(x, y float64) { sum += math.Abs(x - y) })
	return sum
}

// Euclidean is the L2 distance.
func Euclidean(a, b domain.SparseVector) float64 {
	scale := maxDiff(a, b)
	if scale == 0 {
		return 0
	}
	sum := 0.0
	eachDim(a, b, func(x, y float64) {
		d := (x - y) / scale
		sum += d * d
	})
	return scale * math.Sqrt(sum)
}

// Minkowski is the Lp distance. p must be positive. Differences are scaled by
// the largest one before exponentiation, so large p cannot overflow; a tiny p
// over many terms still can, and Score reports that as an error.
func Minkowski(a, b domain.SparseVector, p float64) float64 {
	switch p {
	case 1:
		return Manhattan(a, b)
	case 2:
		return Euclidean(a, b)
	}
	scale := maxDiff(a, b)
	if scale == 0 {
		return 0
	}
	sum := 0.0
	eachDim(a, b, func(x, y float64) { sum += math.Pow(math.Abs(x-y)/scale, p) })
	return scale * math.Pow(sum, 1/p)
}

// Cosine is the cosine similarity of a and b.
func Cosine(a, b domain.SparseVector) (float64, error) {
	var dot, na2, nb2 float64
	eachDim(a, b, func(x, y float64) {
		dot += x * y
		na2 += x * x
		nb2 += y * y
	})
	if na2 == 0 || nb2 == 0 {
		return 0, fmt.Errorf("cosine: %w: zero magnitude", domain.ErrDegenerateVector)
	}
	return finite(domain.CosineMetric, dot/(math.Sqrt(na2)*math.Sqrt(nb2)))
}

// Jaccard is the share of union terms that carry positive weight in both
// vectors. Two empty vectors score 0.
func Jaccard(a, b domain.SparseVector) float64 {
	var inter, union int
	eachDim(a, b, func(x, y float64) {
		union++
		if x > 0 && y > 0 {
			inter++
		}
	})
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
