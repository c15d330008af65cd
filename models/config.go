// Package models defines data structures for configuration and job results.
package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ManifestBackendJSON   = "json"
	ManifestBackendSQLite = "sqlite"
)

// PostMetadata is the front matter that cannot be derived from the export itself.
type PostMetadata struct {
	Categories []string `yaml:"categories"`
	Tags       []string `yaml:"tags"`
	Excerpt    string   `yaml:"excerpt,omitempty"`
}

// Config holds runtime configuration for both jobs.
// Values come from an optional YAML file and are then overridden by CLI flags.
type Config struct {
	ExportDir string `yaml:"export_dir"`
	PostsDir  string `yaml:"posts_dir"`
	AssetsDir string `yaml:"assets_dir"`

	// PublicPrefix is the site path the assets directory is served under.
	PublicPrefix string `yaml:"public_prefix"`

	CDNBase         string        `yaml:"cdn_base"`
	DownloadSize    int           `yaml:"download_size"`
	UserAgent       string        `yaml:"user_agent"`
	Timeout         time.Duration `yaml:"timeout"`
	DownloadDelay   time.Duration `yaml:"download_delay"`
	MaxAttempts     int           `yaml:"max_attempts"`
	RetryBackoff    time.Duration `yaml:"retry_backoff"`
	ManifestBackend string        `yaml:"manifest_backend"`
	DBPath          string        `yaml:"db_path"`

	DetectLanguage bool     `yaml:"detect_language"`
	Languages      []string `yaml:"languages"`

	DefaultMetadata PostMetadata            `yaml:"default_metadata"`
	Posts           map[string]PostMetadata `yaml:"posts"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		ExportDir:       "medium-export/posts",
		PostsDir:        "_posts",
		AssetsDir:       "assets/images/posts",
		PublicPrefix:    "/assets/images/posts",
		CDNBase:         "https://cdn-images-1.medium.com",
		DownloadSize:    1200,
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		Timeout:         30 * time.Second,
		DownloadDelay:   2 * time.Second,
		MaxAttempts:     3,
		RetryBackoff:    10 * time.Second,
		ManifestBackend: ManifestBackendJSON,
		DBPath:          "blog-migrate.db",
		Languages:       []string{"en", "de", "fr", "es"},
		DefaultMetadata: PostMetadata{
			Categories: []string{"Uncategorized"},
			Tags:       []string{},
		},
		Posts: map[string]PostMetadata{},
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
// An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the jobs cannot run with.
func (c *Config) Validate() error {
	if c.CDNBase == "" {
		return fmt.Errorf("cdn_base must not be empty")
	}
	if c.DownloadSize <= 0 {
		return fmt.Errorf("download_size must be positive, got %d", c.DownloadSize)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	switch c.ManifestBackend {
	case ManifestBackendJSON, ManifestBackendSQLite:
	default:
		return fmt.Errorf("unknown manifest_backend %q (want %q or %q)", c.ManifestBackend, ManifestBackendJSON, ManifestBackendSQLite)
	}
	return nil
}

// MetadataFor returns the configured metadata for a post id, or the default.
func (c *Config) MetadataFor(postID string) PostMetadata {
	if meta, ok := c.Posts[postID]; ok {
		if meta.Categories == nil {
			meta.Categories = []string{}
		}
		if meta.Tags == nil {
			meta.Tags = []string{}
		}
		return meta
	}
	meta := c.DefaultMetadata
	meta.Categories = append([]string{}, meta.Categories...)
	meta.Tags = append([]string{}, meta.Tags...)
	return meta
}
