package vectorstore

import "talkrec/internal/domain"

// Storage persists vector sets, one artifact per weighting scheme. Save
// replaces whatever was stored for the set's scheme.
type Storage interface {
	Save(set domain.VectorSet) error
	Load(scheme domain.Scheme) (domain.VectorSet, error)
}

// FileName returns the artifact name for a scheme.
func FileName(scheme domain.Scheme) string {
	return string(scheme) + ".vec"
}
