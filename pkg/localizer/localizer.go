// Package localizer downloads CDN images referenced by Markdown posts and
// rewrites the references to point at local copies.
//
// Every identifier is fetched at most once per asset directory: the manifest
// records what is done, and numbering is derived from the directory listing so
// an interrupted run can never cause a filename collision.
package localizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dtnitsch/blog-migrate/models"
	"github.com/dtnitsch/blog-migrate/pkg/db"
	"github.com/dtnitsch/blog-migrate/pkg/fetcher"
	"github.com/dtnitsch/blog-migrate/pkg/manifest"
	"github.com/dtnitsch/blog-migrate/pkg/storage"
)

// Getter is the part of *fetcher.Fetcher the localizer needs.
type Getter interface {
	GetAssetWithRetry(ctx context.Context, url string, policy fetcher.RetryPolicy) (*fetcher.Asset, error)
}

// Recorder receives every fetch attempt, e.g. *db.DB.
type Recorder interface {
	RecordAttempt(a db.FetchAttempt) error
}

type Options struct {
	PostsDir     string
	AssetsDir    string
	PublicPrefix string
	CDNBase      string
	DownloadSize int

	DownloadDelay time.Duration
	MaxAttempts   int
	RetryBackoff  time.Duration

	OpenManifest manifest.OpenFunc
	Recorder     Recorder
	RunID        string

	// Out receives the operator progress report. Defaults to os.Stdout.
	Out    io.Writer
	Logger *slog.Logger
	// Sleep is used for pacing and retry backoff. Defaults to fetcher.SleepContext.
	Sleep func(ctx context.Context, d time.Duration) error
}

type Localizer struct {
	opts    Options
	getter  Getter
	refs    *References
	storage *storage.Storage
	out     io.Writer
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

func New(getter Getter, opts Options) *Localizer {
	l := &Localizer{
		opts:    opts,
		getter:  getter,
		refs:    NewReferences(opts.CDNBase),
		storage: &storage.Storage{},
		out:     opts.Out,
		logger:  opts.Logger,
		sleep:   opts.Sleep,
	}
	if l.out == nil {
		l.out = os.Stdout
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if l.sleep == nil {
		l.sleep = fetcher.SleepContext
	}
	if l.opts.OpenManifest == nil {
		l.opts.OpenManifest = manifest.OpenFile
	}
	return l
}

// Run localizes every *.md file in PostsDir, in name order.
// Per-post errors are logged and counted; only cancellation stops the batch.
func (l *Localizer) Run(ctx context.Context) (models.LocalizeSummary, error) {
	summary := models.LocalizeSummary{RunID: l.opts.RunID}

	if err := l.storage.EnsureDir(l.opts.AssetsDir); err != nil {
		return summary, err
	}
	posts, err := l.storage.List(l.opts.PostsDir, "*.md")
	if err != nil {
		return summary, err
	}

	for _, postPath := range posts {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result, err := l.LocalizePost(ctx, postPath)
		summary.Add(result)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return summary, err
			}
			summary.PostErrors++
			l.logger.Error("failed to localize post", "post", postPath, "error", err)
			fmt.Fprintf(l.out, "  ERROR %s: %s\n", filepath.Base(postPath), err)
		}
	}
	return summary, nil
}

// LocalizePost downloads the missing assets of one post and rewrites its references.
func (l *Localizer) LocalizePost(ctx context.Context, postPath string) (models.PostResult, error) {
	name := filepath.Base(postPath)
	slug := PostSlug(name)
	result := models.PostResult{Path: postPath, Slug: slug}

	raw, err := l.storage.ReadFile(postPath)
	if err != nil {
		return result, err
	}
	content := string(raw)

	ids := l.refs.ExtractIdentifiers(content)
	result.References = len(ids)
	if len(ids) == 0 {
		return result, nil
	}

	assetDir := filepath.Join(l.opts.AssetsDir, slug)
	if err := l.storage.EnsureDir(assetDir); err != nil {
		return result, err
	}
	store, err := l.opts.OpenManifest(assetDir)
	if err != nil {
		return result, err
	}

	var candidates []string
	for _, id := range ids {
		if _, ok := store.Get(id); ok {
			result.Cached++
		} else {
			candidates = append(candidates, id)
		}
	}

	if len(candidates) > 0 {
		fmt.Fprintf(l.out, "\n%s (%d to download, %d cached)\n", name, len(candidates), result.Cached)
	} else {
		fmt.Fprintf(l.out, "\n%s (all %d images cached)\n", name, result.Cached)
	}

	if len(candidates) > 0 {
		if err := l.download(ctx, store, candidates, &result); err != nil {
			return result, err
		}
	}

	entries := store.Entries()
	updated := l.refs.Rewrite(content, func(id string) (string, bool) {
		local, ok := entries[id]
		if !ok {
			return "", false
		}
		return path.Join(l.opts.PublicPrefix, slug, local), true
	})

	wrote, err := l.storage.ReplaceFile(postPath, raw, []byte(updated))
	if err != nil {
		return result, err
	}
	if wrote {
		result.Updated = true
		fmt.Fprintf(l.out, "  Updated %s\n", name)
	}
	return result, nil
}

func (l *Localizer) download(ctx context.Context, store manifest.Store, candidates []string, result *models.PostResult) error {
	rec, err := store.Reconcile()
	if err != nil {
		return err
	}
	if len(rec.Orphans) > 0 {
		l.logger.Warn("asset files without manifest entry", "dir", store.Dir(), "files", rec.Orphans)
	}
	if len(rec.Missing) > 0 {
		l.logger.Warn("manifest entries without file", "dir", store.Dir(), "identifiers", rec.Missing)
	}
	counter := rec.Next

	for _, id := range candidates {
		url := l.refs.DownloadURL(id, l.opts.DownloadSize)

		if result.Downloaded > 0 {
			if err := l.sleep(ctx, l.opts.DownloadDelay); err != nil {
				return err
			}
		}

		asset, err := l.getter.GetAssetWithRetry(ctx, url, l.retryPolicy(store.Dir(), id))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			result.Failed++
			l.logger.Warn("download failed", "url", url, "error", err)
			fmt.Fprintf(l.out, "  FAIL %s: %s\n", url, err)
			continue
		}

		localName := manifest.LocalName(counter, GuessExtension(url, asset.ContentType))
		// The number is spent even if the write fails; the next scan skips past it.
		counter++
		if err := l.storage.SaveFile(filepath.Join(store.Dir(), localName), asset.Data); err != nil {
			result.Failed++
			l.logger.Warn("failed to write asset", "file", localName, "error", err)
			fmt.Fprintf(l.out, "  FAIL %s: %s\n", url, err)
			continue
		}

		store.Put(id, localName)
		if err := store.Save(); err != nil {
			return fmt.Errorf("failed to save manifest: %w", err)
		}
		result.Downloaded++
		result.Bytes += int64(len(asset.Data))
		fmt.Fprintf(l.out, "  OK  %s (%s bytes)\n", localName, humanize.Comma(int64(len(asset.Data))))
	}
	return nil
}

func (l *Localizer) retryPolicy(assetDir, id string) fetcher.RetryPolicy {
	return fetcher.RetryPolicy{
		Attempts: l.opts.MaxAttempts,
		Backoff:  l.opts.RetryBackoff,
		Sleep:    l.sleep,
		OnAttempt: func(a fetcher.Attempt) {
			if a.Wait > 0 {
				fmt.Fprintf(l.out, "  429 rate limited, waiting %s (attempt %d/%d)...\n", a.Wait, a.Number, a.Of)
			}
			if l.opts.Recorder == nil {
				return
			}
			record := db.FetchAttempt{
				RunID:      l.opts.RunID,
				AssetDir:   assetDir,
				Identifier: id,
				URL:        a.URL,
				Attempt:    a.Number,
				StatusCode: a.StatusCode,
				ErrorType:  errorType(a.Err),
				Success:    a.Err == nil,
				SizeBytes:  int64(a.Size),
			}
			if err := l.opts.Recorder.RecordAttempt(record); err != nil {
				l.logger.Warn("failed to record fetch attempt", "url", a.URL, "error", err)
			}
		},
	}
}

func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case fetcher.IsRateLimited(err):
		return "rate_limited"
	case fetcher.StatusCode(err) != 0:
		return "http_error"
	default:
		return "fetch_error"
	}
}
