package localize

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/blog-migrate/internal/common"
	"github.com/dtnitsch/blog-migrate/models"
	"github.com/dtnitsch/blog-migrate/pkg/db"
	"github.com/dtnitsch/blog-migrate/pkg/fetcher"
	"github.com/dtnitsch/blog-migrate/pkg/localizer"
)

func LocalizeAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	runID := uuid.NewString()
	opts := localizer.Options{
		PostsDir:      cfg.PostsDir,
		AssetsDir:     cfg.AssetsDir,
		PublicPrefix:  cfg.PublicPrefix,
		CDNBase:       cfg.CDNBase,
		DownloadSize:  cfg.DownloadSize,
		DownloadDelay: cfg.DownloadDelay,
		MaxAttempts:   cfg.MaxAttempts,
		RetryBackoff:  cfg.RetryBackoff,
		RunID:         runID,
		Logger:        logger.With("run_id", runID),
	}

	var database *db.DB
	if cfg.ManifestBackend == models.ManifestBackendSQLite || c.Bool("history") {
		database, err = db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()
	}
	if cfg.ManifestBackend == models.ManifestBackendSQLite {
		opts.OpenManifest = database.OpenManifest
	}
	if c.Bool("history") {
		if err := database.StartRun(runID); err != nil {
			return err
		}
		opts.Recorder = database
	}

	fmt.Printf("Localizing images in: %s\n", cfg.PostsDir)
	fmt.Printf("Asset directory: %s\n", cfg.AssetsDir)

	l := localizer.New(fetcher.NewFetcher(cfg.UserAgent, cfg.Timeout), opts)
	summary, runErr := l.Run(ctx)

	if opts.Recorder != nil {
		if err := recordRun(database, runID, summary, runErr); err != nil {
			logger.Error("failed to record run", "run_id", runID, "error", err)
		}
	}

	logger.Info("localize finished",
		"run_id", runID,
		"posts", summary.Posts,
		"downloaded", summary.Downloaded,
		"cached", summary.Cached,
		"failed", summary.Failed,
		"post_errors", summary.PostErrors,
		"bytes", humanize.Bytes(uint64(summary.Bytes)),
	)

	if runErr != nil {
		return fmt.Errorf("localize interrupted: %w", runErr)
	}

	fmt.Printf("\nDone. %d downloaded, %d cached, %d failed.\n", summary.Downloaded, summary.Cached, summary.Failed)
	if summary.PostErrors > 0 {
		fmt.Printf("%s could not be processed, see the log for details.\n", common.Plural(summary.PostErrors, "post"))
	}
	if summary.Failed > 0 {
		fmt.Println("Re-run the command to retry failed downloads.")
	}
	return nil
}

// recordRun closes the history row of a run. A run that stopped with an error
// keeps its counts but gets no finished_at, so it is listed as interrupted.
func recordRun(database *db.DB, runID string, summary models.LocalizeSummary, runErr error) error {
	if runErr != nil {
		return database.InterruptRun(runID, summary)
	}
	return database.FinishRun(runID, summary)
}
