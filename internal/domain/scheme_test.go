package domain

import (
	"errors"
	"testing"
)

func TestParseScheme(t *testing.T) {
	testCases := []struct {
		in      string
		want    Scheme
		wantErr bool
	}{
		{"count", Count, false},
		{"TFIDF", TFIDF, false},
		{"tf-idf", TFIDF, false},
		{" tfidf ", TFIDF, false},
		{"words", "", true},
		{"", "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseScheme(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrUnsupportedScheme) {
					t.Fatalf("expected ErrUnsupportedScheme, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParseMetric(t *testing.T) {
	testCases := []struct {
		in      string
		want    Metric
		wantErr bool
	}{
		{"cosine", CosineMetric, false},
		{"Euclidean", EuclideanMetric, false},
		{"manhattan", ManhattanMetric, false},
		{"jaccard", JaccardMetric, false},
		{"minkowski", Metric{Kind: Minkowski, P: 3}, false},
		{"minkowski:1.5", Metric{Kind: Minkowski, P: 1.5}, false},
		{"minkowski:0", Metric{}, true},
		{"minkowski:-2", Metric{}, true},
		{"minkowski:abc", Metric{}, true},
		{"hamming", Metric{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMetric(tc.in, 3)
			if tc.wantErr {
				if !errors.Is(err, ErrUnsupportedMetric) {
					t.Fatalf("expected ErrUnsupportedMetric, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestMetricValidate(t *testing.T) {
	if err := (Metric{}).Validate(); !errors.Is(err, ErrUnsupportedMetric) {
		t.Errorf("zero metric should be invalid, got %v", err)
	}
	if err := (Metric{Kind: Minkowski}).Validate(); !errors.Is(err, ErrUnsupportedMetric) {
		t.Errorf("minkowski without exponent should be invalid, got %v", err)
	}
	if err := CosineMetric.Validate(); err != nil {
		t.Errorf("cosine should be valid, got %v", err)
	}
}

func TestMetricString(t *testing.T) {
	m, _ := MinkowskiMetric(2.5)
	if m.String() != "minkowski:2.5" {
		t.Errorf("unexpected minkowski string %q", m.String())
	}
	if CosineMetric.String() != "cosine" {
		t.Errorf("unexpected cosine string %q", CosineMetric.String())
	}
}

func TestCorruptRecordError(t *testing.T) {
	err := error(&CorruptRecordError{Path: "count.vec", Line: 4, Reason: "missing tab"})
	if !errors.Is(err, ErrCorruptVectorRecord) {
		t.Fatal("CorruptRecordError should unwrap to ErrCorruptVectorRecord")
	}
	var cre *CorruptRecordError
	if !errors.As(err, &cre) || cre.Line != 4 {
		t.Errorf("expected line 4, got %+v", cre)
	}
	if !IsDataError(err) {
		t.Error("corrupt record should be a data error")
	}
	if IsUsageError(err) {
		t.Error("corrupt record should not be a usage error")
	}
}
