package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"talkrec/internal/domain"
	"talkrec/internal/vectorstore"
)

// Storage keeps one "<scheme>.vec" file per weighting scheme in a directory.
type Storage struct {
	dir string
}

// NewStorage creates a file storage rooted at dir. The directory is created on
// first Save.
func NewStorage(dir string) *Storage { return &Storage{dir: dir} }

// Path returns the file that holds the vectors for scheme.
func (s *Storage) Path(scheme domain.Scheme) string {
	return filepath.Join(s.dir, vectorstore.FileName(scheme))
}

// Save writes the set to a temporary file and renames it over the scheme's
// file, so readers never observe a partially written store.
func (s *Storage) Save(set domain.VectorSet) error {
	if !set.Scheme.IsValid() {
		return fmt.Errorf("save vectors: %w: %q", domain.ErrUnsupportedScheme, string(set.Scheme))
	}
	if set.Len() == 0 {
		return fmt.Errorf("save vectors: %w: refusing to write an empty vector set", domain.ErrEmptyCorpus)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	target := s.Path(set.Scheme)
	tmp, err := os.CreateTemp(s.dir, vectorstore.FileName(set.Scheme)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := vectorstore.Encode(tmp, set); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

// Load reads the vectors stored for scheme. A missing file yields
// domain.ErrNoVectors.
func (s *Storage) Load(scheme domain.Scheme) (domain.VectorSet, error) {
	if !scheme.IsValid() {
		return domain.VectorSet{}, fmt.Errorf("load vectors: %w: %q", domain.ErrUnsupportedScheme, string(scheme))
	}
	path := s.Path(scheme)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.VectorSet{}, fmt.Errorf("%w for scheme %q at %s; run vectorization first", domain.ErrNoVectors, scheme, path)
		}
		return domain.VectorSet{}, err
	}
	defer f.Close()
	return vectorstore.Decode(f, path, scheme)
}
