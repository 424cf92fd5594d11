package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"talkrec/internal/domain"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Vectorizer.Scheme != "tfidf" || cfg.Recommender.Metric != "cosine" || cfg.DataDir != "data" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.VectorDir != cfg.DataDir {
		t.Errorf("vector dir should default to data dir, got %q", cfg.VectorDir)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("TALKREC_TEST_DATA", "/srv/talks")
	path := filepath.Join(t.TempDir(), "talkrec.yaml")
	body := `
data_dir: ${TALKREC_TEST_DATA}
vectorizer:
  scheme: count
recommender:
  metric: minkowski
  minkowski_p: 1.5
  top_n: 10
profiles:
  "1234": ["6523", "6601"]
logging:
  env: prod
  level: warn
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/srv/talks" || cfg.VectorDir != "/srv/talks" {
		t.Errorf("env expansion failed: %q %q", cfg.DataDir, cfg.VectorDir)
	}
	if cfg.Recommender.Scheme != "count" {
		t.Errorf("recommender scheme should follow vectorizer scheme, got %q", cfg.Recommender.Scheme)
	}
	m, err := cfg.Metric()
	if err != nil {
		t.Fatal(err)
	}
	if m != (domain.Metric{Kind: domain.Minkowski, P: 1.5}) {
		t.Errorf("unexpected metric %+v", m)
	}
	if !reflect.DeepEqual(cfg.Profiles["1234"], []string{"6523", "6601"}) {
		t.Errorf("unexpected profiles %v", cfg.Profiles)
	}
}

func TestLoadInvalid(t *testing.T) {
	testCases := []struct {
		name string
		body string
		is   error
	}{
		{"bad scheme", "vectorizer:\n  scheme: words\n", domain.ErrUnsupportedScheme},
		{"bad metric", "recommender:\n  metric: hamming\n", domain.ErrUnsupportedMetric},
		{"bad exponent", "recommender:\n  metric: minkowski\n  minkowski_p: -1\n", domain.ErrUnsupportedMetric},
		{"negative top", "recommender:\n  top_n: -1\n", nil},
		{"bad env", "logging:\n  env: staging\n", nil},
		{"bad yaml", "vectorizer: [", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Errorf("expected %v, got %v", tc.is, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Profiles["42"] = []string{"1"}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("Expected %+v, got %+v", cfg, got)
	}
}

func TestLoadDefaultWritesUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, path, err := LoadDefault()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(home, ".config", "talkrec", "config.yaml") {
		t.Errorf("unexpected path %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("defaults not written: %v", err)
	}
	if cfg.Recommender.Metric != "cosine" {
		t.Errorf("unexpected config %+v", cfg)
	}
}
