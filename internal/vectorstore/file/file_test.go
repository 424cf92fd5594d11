package file

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"talkrec/internal/domain"
)

func TestSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vectors")
	st := NewStorage(dir)
	count := domain.VectorSet{Scheme: domain.Count, Entries: []domain.Entry{
		{ID: "1", Vector: domain.SparseVector{"rain": 2, "cloud": 1}},
		{ID: "2", Vector: domain.SparseVector{"sun": 1}},
	}}
	tfidf := domain.VectorSet{Scheme: domain.TFIDF, Entries: []domain.Entry{
		{ID: "1", Vector: domain.SparseVector{"rain": 1, "cloud": 0.5}},
	}}
	if err := st.Save(count); err != nil {
		t.Fatal(err)
	}
	if err := st.Save(tfidf); err != nil {
		t.Fatal(err)
	}
	if st.Path(domain.Count) == st.Path(domain.TFIDF) {
		t.Fatal("schemes share a path")
	}

	got, err := st.Load(domain.Count)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, count) {
		t.Errorf("Expected %+v, got %+v", count, got)
	}
	got, err = st.Load(domain.TFIDF)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, tfidf) {
		t.Errorf("Expected %+v, got %+v", tfidf, got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("expected only the two store files, found %d entries", len(entries))
	}
}

func TestSaveOverwrites(t *testing.T) {
	st := NewStorage(t.TempDir())
	first := domain.VectorSet{Scheme: domain.Count, Entries: []domain.Entry{{ID: "1", Vector: domain.SparseVector{"a": 1}}}}
	second := domain.VectorSet{Scheme: domain.Count, Entries: []domain.Entry{{ID: "9", Vector: domain.SparseVector{"b": 3}}}}
	if err := st.Save(first); err != nil {
		t.Fatal(err)
	}
	if err := st.Save(second); err != nil {
		t.Fatal(err)
	}
	got, err := st.Load(domain.Count)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Errorf("expected wholesale overwrite, got %+v", got)
	}
}

func TestSaveRejectsEmptyAndKeepsPrevious(t *testing.T) {
	st := NewStorage(t.TempDir())
	prev := domain.VectorSet{Scheme: domain.Count, Entries: []domain.Entry{{ID: "1", Vector: domain.SparseVector{"a": 1}}}}
	if err := st.Save(prev); err != nil {
		t.Fatal(err)
	}
	if err := st.Save(domain.VectorSet{Scheme: domain.Count}); !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
	got, err := st.Load(domain.Count)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, prev) {
		t.Errorf("previous store was modified: %+v", got)
	}
}

func TestSaveFailedEncodeKeepsPrevious(t *testing.T) {
	st := NewStorage(t.TempDir())
	prev := domain.VectorSet{Scheme: domain.Count, Entries: []domain.Entry{{ID: "1", Vector: domain.SparseVector{"a": 1}}}}
	if err := st.Save(prev); err != nil {
		t.Fatal(err)
	}
	bad := domain.VectorSet{Scheme: domain.Count, Entries: []domain.Entry{
		{ID: "2", Vector: domain.SparseVector{"b": 1}},
		{ID: "bad\nid", Vector: domain.SparseVector{"c": 1}},
	}}
	if err := st.Save(bad); err == nil {
		t.Fatal("expected encode error")
	}
	got, err := st.Load(domain.Count)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, prev) {
		t.Errorf("previous store was modified: %+v", got)
	}
}

func TestLoadMissing(t *testing.T) {
	st := NewStorage(t.TempDir())
	if _, err := st.Load(domain.TFIDF); !errors.Is(err, domain.ErrNoVectors) {
		t.Errorf("expected ErrNoVectors, got %v", err)
	}
	if _, err := st.Load(domain.Scheme("words")); !errors.Is(err, domain.ErrUnsupportedScheme) {
		t.Errorf("expected ErrUnsupportedScheme, got %v", err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	st := NewStorage(dir)
	if err := os.WriteFile(st.Path(domain.Count), []byte("1\t{\"a\":1}\n2\t{oops}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := st.Load(domain.Count)
	var cre *domain.CorruptRecordError
	if !errors.As(err, &cre) {
		t.Fatalf("expected CorruptRecordError, got %v", err)
	}
	if cre.Line != 1 {
		t.Errorf("expected line 1, got %d", cre.Line)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	st := NewStorage(t.TempDir())
	if err := os.WriteFile(st.Path(domain.TFIDF), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := st.Load(domain.TFIDF)
	if !errors.Is(err, domain.ErrCorruptVectorRecord) {
		t.Fatalf("expected ErrCorruptVectorRecord for a truncated store, got %v", err)
	}
	if !domain.IsDataError(err) {
		t.Error("truncated store should be a data error")
	}
}
