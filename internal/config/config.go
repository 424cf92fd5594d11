package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"talkrec/internal/domain"
)

// FeedConfig selects the monthly feed files used to build the corpus.
type FeedConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// VectorizerConfig selects the weighting scheme for generated vectors.
type VectorizerConfig struct {
	Scheme string `yaml:"scheme"`
}

// RecommenderConfig configures scoring and output size.
type RecommenderConfig struct {
	Scheme     string  `yaml:"scheme"` // corpus vector store to score against
	Metric     string  `yaml:"metric"`
	MinkowskiP float64 `yaml:"minkowski_p"`
	TopN       int     `yaml:"top_n"` // 0 = all
	SummaryLen int     `yaml:"summary_terms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Env   string `yaml:"env"`   // local, dev, prod
	Level string `yaml:"level"` // debug, info, warn, error
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	DataDir     string              `yaml:"data_dir"`
	VectorDir   string              `yaml:"vector_dir"`
	Feed        FeedConfig          `yaml:"feed"`
	Vectorizer  VectorizerConfig    `yaml:"vectorizer"`
	Recommender RecommenderConfig   `yaml:"recommender"`
	Profiles    map[string][]string `yaml:"profiles"` // user id -> bookmarked talk ids
	Logging     LoggingConfig       `yaml:"logging"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	data = expandEnvVars(data)
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// LoadDefault tries ./talkrec.yaml first, then ~/.config/talkrec/config.yaml.
// If neither exists, it writes defaults to ~/.config/talkrec/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "talkrec.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "talkrec", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields with default values.
func (c *AppConfig) ApplyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.VectorDir == "" {
		c.VectorDir = c.DataDir
	}
	if c.Feed.Start == "" {
		c.Feed.Start = "2008-01"
	}
	if c.Feed.End == "" {
		c.Feed.End = "2018-12"
	}
	if c.Vectorizer.Scheme == "" {
		c.Vectorizer.Scheme = string(domain.TFIDF)
	}
	if c.Recommender.Scheme == "" {
		c.Recommender.Scheme = c.Vectorizer.Scheme
	}
	if c.Recommender.Metric == "" {
		c.Recommender.Metric = "cosine"
	}
	if c.Recommender.MinkowskiP == 0 {
		c.Recommender.MinkowskiP = 3
	}
	if c.Recommender.SummaryLen == 0 {
		c.Recommender.SummaryLen = 8
	}
	if c.Profiles == nil {
		c.Profiles = map[string][]string{}
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "local"
	}
}

// Validate checks the configuration for correctness.
func (c *AppConfig) Validate() error {
	if _, err := domain.ParseScheme(c.Vectorizer.Scheme); err != nil {
		return fmt.Errorf("vectorizer.scheme: %w", err)
	}
	if _, err := domain.ParseScheme(c.Recommender.Scheme); err != nil {
		return fmt.Errorf("recommender.scheme: %w", err)
	}
	if _, err := c.Metric(); err != nil {
		return fmt.Errorf("recommender.metric: %w", err)
	}
	if c.Recommender.TopN < 0 {
		return fmt.Errorf("recommender.top_n must be >= 0, got %d", c.Recommender.TopN)
	}
	switch c.Logging.Env {
	case "local", "dev", "prod":
	default:
		return fmt.Errorf("logging.env must be local, dev or prod, got %q", c.Logging.Env)
	}
	return nil
}

// Metric resolves the configured recommendation metric.
func (c *AppConfig) Metric() (domain.Metric, error) {
	return domain.ParseMetric(c.Recommender.Metric, c.Recommender.MinkowskiP)
}

var envVarRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars substitutes ${VAR} with the value of the environment variable.
func expandEnvVars(data []byte) []byte {
	return envVarRe.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envVarRe.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}
