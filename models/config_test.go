package models

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("LoadConfig(\"\") = %+v, want defaults", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadConfig_File(t *testing.T) {
	p := writeConfig(t, `
posts_dir: site/_posts
download_delay: 500ms
max_attempts: 5
manifest_backend: sqlite
posts:
  e9478f7be3a6:
    categories: [Meta]
    tags: [personal, career]
    excerpt: How it all started.
  86aa52fd27aa:
    excerpt: Only an excerpt.
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.PostsDir != "site/_posts" {
		t.Errorf("PostsDir = %q", cfg.PostsDir)
	}
	if cfg.DownloadDelay != 500*time.Millisecond {
		t.Errorf("DownloadDelay = %v, want 500ms", cfg.DownloadDelay)
	}
	if cfg.MaxAttempts != 5 || cfg.ManifestBackend != ManifestBackendSQLite {
		t.Errorf("MaxAttempts = %d, ManifestBackend = %q", cfg.MaxAttempts, cfg.ManifestBackend)
	}
	// Unset keys keep their defaults.
	if cfg.AssetsDir != "assets/images/posts" || cfg.RetryBackoff != 10*time.Second {
		t.Errorf("defaults lost: AssetsDir = %q, RetryBackoff = %v", cfg.AssetsDir, cfg.RetryBackoff)
	}

	meta := cfg.MetadataFor("e9478f7be3a6")
	want := PostMetadata{Categories: []string{"Meta"}, Tags: []string{"personal", "career"}, Excerpt: "How it all started."}
	if !reflect.DeepEqual(meta, want) {
		t.Errorf("MetadataFor() = %+v, want %+v", meta, want)
	}

	partial := cfg.MetadataFor("86aa52fd27aa")
	if partial.Categories == nil || partial.Tags == nil {
		t.Errorf("MetadataFor(partial) = %+v, want non-nil slices", partial)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "posts_dir: [unclosed"},
		{"bad backend", "manifest_backend: redis"},
		{"zero attempts", "max_attempts: 0"},
		{"zero size", "download_size: 0"},
		{"empty cdn", `cdn_base: ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Errorf("LoadConfig(%q) error = nil", tt.content)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig(missing) error = nil")
	}
}

func TestMetadataFor_DefaultIsCopied(t *testing.T) {
	cfg := DefaultConfig()
	meta := cfg.MetadataFor("unknown")
	if !reflect.DeepEqual(meta.Categories, []string{"Uncategorized"}) || len(meta.Tags) != 0 || meta.Tags == nil {
		t.Errorf("MetadataFor(unknown) = %+v", meta)
	}
	meta.Categories[0] = "changed"
	if cfg.DefaultMetadata.Categories[0] != "Uncategorized" {
		t.Error("MetadataFor() returned the default slice itself")
	}
}

func TestLocalizeSummary_Add(t *testing.T) {
	var s LocalizeSummary
	s.Add(PostResult{Downloaded: 2, Cached: 1, Bytes: 100, Updated: true})
	s.Add(PostResult{Failed: 1})
	want := LocalizeSummary{Posts: 2, Downloaded: 2, Cached: 1, Failed: 1, Bytes: 100, Updated: 1}
	if s != want {
		t.Errorf("summary = %+v, want %+v", s, want)
	}
}
