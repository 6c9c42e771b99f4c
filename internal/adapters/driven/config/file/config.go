// Package file loads assistant configuration from a TOML file.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
)

// Config is the full assistant configuration. Absent TOML keys keep
// their defaults, so a config file only needs the overrides.
type Config struct {
	Product    string           `toml:"product"`
	Corpus     CorpusConfig     `toml:"corpus"`
	Policy     domain.Policy    `toml:"policy"`
	Generation GenerationConfig `toml:"generation"`
}

// CorpusConfig locates the document corpus.
type CorpusConfig struct {
	// SnapshotPath is the scraped JSON snapshot to index.
	SnapshotPath string `toml:"snapshot_path"`

	// ProcessedPath is the cleaned snapshot; preferred over
	// SnapshotPath when it exists.
	ProcessedPath string `toml:"processed_path"`

	// DataDir holds the SQLite corpus database when persistence is on.
	DataDir string `toml:"data_dir"`

	// Persist stores the corpus in SQLite instead of memory only.
	Persist bool `toml:"persist"`
}

// GenerationConfig configures the optional generative enrichment step.
type GenerationConfig struct {
	Enabled        bool    `toml:"enabled"`
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	MaxTokens      int     `toml:"max_tokens"`
	Temperature    float64 `toml:"temperature"`
	RateLimit      int     `toml:"rate_limit"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (g GenerationConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// Active reports whether enrichment should run. The flag alone is not
// enough; an API key must be available too.
func (g GenerationConfig) Active() bool {
	return g.Enabled && g.APIKey != ""
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Product: "Core DNA",
		Corpus: CorpusConfig{
			SnapshotPath:  "data/raw/scraped_data.json",
			ProcessedPath: "data/processed/scraped_data.json",
		},
		Policy: domain.DefaultPolicy(),
		Generation: GenerationConfig{
			Enabled:        true,
			Model:          "gpt-4o-mini",
			MaxTokens:      800,
			Temperature:    0.3,
			RateLimit:      60,
			TimeoutSeconds: 60,
		},
	}
}

// DefaultPath returns ~/.sibyl/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".sibyl", "config.toml"), nil
}

// Load reads configuration from the given path, overlaying defaults.
// A missing file yields the defaults. If path is empty the default
// location is used. The OpenAI API key falls back to the environment
// when the file does not set one.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv fills secrets the config file should not have to carry.
func applyEnv(cfg *Config) {
	if cfg.Generation.APIKey == "" {
		cfg.Generation.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}
