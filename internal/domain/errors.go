package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCorpus signals that vectorization produced no usable tokens.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrUnsupportedScheme signals an unknown weighting scheme.
	ErrUnsupportedScheme = errors.New("unsupported weighting scheme")
	// ErrCorruptVectorRecord signals a malformed line in a vector store.
	ErrCorruptVectorRecord = errors.New("corrupt vector record")
	// ErrDegenerateVector signals a zero-magnitude vector where a metric needs magnitude.
	ErrDegenerateVector = errors.New("degenerate vector")
	// ErrUnsupportedMetric signals an unknown similarity metric.
	ErrUnsupportedMetric = errors.New("unsupported similarity metric")
	// ErrEmptyUserProfile signals that a user's documents yield no tokens.
	ErrEmptyUserProfile = errors.New("empty user profile")
	// ErrUnknownUser signals a user without configured bookmarks.
	ErrUnknownUser = errors.New("unknown user")
	// ErrNoVectors signals that no vector store exists for a scheme.
	ErrNoVectors = errors.New("no vectors available")
)

// CorruptRecordError wraps ErrCorruptVectorRecord with the offending line.
// Line is zero-based.
type CorruptRecordError struct {
	Path   string
	Line   int
	Reason string
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("%s: %s line %d: %s", ErrCorruptVectorRecord.Error(), e.Path, e.Line, e.Reason)
}

func (e *CorruptRecordError) Unwrap() error { return ErrCorruptVectorRecord }

// IsDataError reports whether err is a data-availability problem as opposed to
// a usage problem or an I/O failure.
func IsDataError(err error) bool {
	return errors.Is(err, ErrEmptyCorpus) ||
		errors.Is(err, ErrEmptyUserProfile) ||
		errors.Is(err, ErrCorruptVectorRecord) ||
		errors.Is(err, ErrUnknownUser) ||
		errors.Is(err, ErrNoVectors)
}

// IsUsageError reports whether err stems from an invalid scheme or metric choice.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrUnsupportedScheme) || errors.Is(err, ErrUnsupportedMetric)
}
