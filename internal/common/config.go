package common

import (
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/blog-migrate/models"
)

// LoadConfig reads --config and applies any command flags that were set.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("export-dir") {
		cfg.ExportDir = c.String("export-dir")
	}
	if c.IsSet("posts-dir") {
		cfg.PostsDir = c.String("posts-dir")
	}
	if c.IsSet("assets-dir") {
		cfg.AssetsDir = c.String("assets-dir")
	}
	if c.IsSet("delay") {
		cfg.DownloadDelay = c.Duration("delay")
	}
	if c.IsSet("attempts") {
		cfg.MaxAttempts = c.Int("attempts")
	}
	if c.IsSet("backend") {
		cfg.ManifestBackend = c.String("backend")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("detect-language") {
		cfg.DetectLanguage = c.Bool("detect-language")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
