package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Scheme is a term weighting scheme.
type Scheme string

// Weighting schemes.
const (
	// Count keeps raw term frequencies.
	Count Scheme = "count"
	// TFIDF divides term frequency by document frequency.
	TFIDF Scheme = "tfidf"
)

// IsValid checks if the scheme is one of the supported values.
func (s Scheme) IsValid() bool {
	return s == Count || s == TFIDF
}

// ParseScheme resolves a scheme name. "tf-idf" is accepted as an alias.
func ParseScheme(name string) (Scheme, error) {
	s := Scheme(strings.ToLower(strings.TrimSpace(name)))
	if s == "tf-idf" {
		s = TFIDF
	}
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q (use count or tfidf)", ErrUnsupportedScheme, name)
	}
	return s, nil
}

// MetricKind enumerates the similarity and distance functions.
type MetricKind int

// Metric kinds. Zero is deliberately invalid.
const (
	Cosine MetricKind = iota + 1
	Euclidean
	Manhattan
	Minkowski
	Jaccard
)

var metricNames = map[MetricKind]string{
	Cosine:    "cosine",
	Euclidean: "euclidean",
	Manhattan: "manhattan",
	Minkowski: "minkowski",
	Jaccard:   "jaccard",
}

func (k MetricKind) String() string {
	if n, ok := metricNames[k]; ok {
		return n
	}
	return "invalid"
}

// Metric is a metric kind plus its parameter. P is only meaningful for Minkowski.
type Metric struct {
	Kind MetricKind
	P    float64
}

// CosineMetric, EuclideanMetric, ManhattanMetric and JaccardMetric are the
// parameterless metrics.
var (
	CosineMetric    = Metric{Kind: Cosine}
	EuclideanMetric = Metric{Kind: Euclidean}
	ManhattanMetric = Metric{Kind: Manhattan}
	JaccardMetric   = Metric{Kind: Jaccard}
)

// MinkowskiMetric returns a Minkowski metric with exponent p.
func MinkowskiMetric(p float64) (Metric, error) {
	if !(p > 0) || math.IsInf(p, 0) {
		return Metric{}, fmt.Errorf("%w: minkowski exponent must be a positive real, got %v", ErrUnsupportedMetric, p)
	}
	return Metric{Kind: Minkowski, P: p}, nil
}

// Validate checks that the metric kind is known and its parameter is usable.
func (m Metric) Validate() error {
	switch m.Kind {
	case Cosine, Euclidean, Manhattan, Jaccard:
		return nil
	case Minkowski:
		_, err := MinkowskiMetric(m.P)
		return err
	default:
		return fmt.Errorf("%w: kind %d", ErrUnsupportedMetric, int(m.Kind))
	}
}

// Distance reports whether lower scores mean closer vectors.
func (m Metric) Distance() bool {
	return m.Kind == Euclidean || m.Kind == Manhattan || m.Kind == Minkowski
}

func (m Metric) String() string {
	if m.Kind == Minkowski {
		return "minkowski:" + strconv.FormatFloat(m.P, 'g', -1, 64)
	}
	return m.Kind.String()
}

// ParseMetric resolves a metric name. Minkowski takes its exponent either inline
// ("minkowski:3") or from defaultP.
func ParseMetric(name string, defaultP float64) (Metric, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	base, param, hasParam := strings.Cut(n, ":")
	switch base {
	case "cosine":
		return CosineMetric, nil
	case "euclidean":
		return EuclideanMetric, nil
	case "manhattan":
		return ManhattanMetric, nil
	case "jaccard":
		return JaccardMetric, nil
	case "minkowski":
		p := defaultP
		if hasParam {
			v, err := strconv.ParseFloat(param, 64)
			if err != nil {
				return Metric{}, fmt.Errorf("%w: bad minkowski exponent %q", ErrUnsupportedMetric, param)
			}
			p = v
		}
		return MinkowskiMetric(p)
	}
	return Metric{}, fmt.Errorf("%w: %q (use cosine, euclidean, manhattan, minkowski or jaccard)", ErrUnsupportedMetric, name)
}
