package db

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/blog-migrate/internal/common"
	dbpkg "github.com/dtnitsch/blog-migrate/pkg/db"
)

func openDB(c *cli.Context) (*dbpkg.DB, error) {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return nil, err
	}
	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// RunsAction lists recorded localize runs, newest first.
func RunsAction(c *cli.Context) error {
	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	limit := c.Int("limit")
	runs, err := database.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	fmt.Printf("%-36s %-20s %-8s %-10s %-8s %-8s\n",
		"Run", "Started", "Posts", "Downloaded", "Cached", "Failed")
	fmt.Println(strings.Repeat("-", 96))

	for _, r := range runs {
		fmt.Printf("%-36s %-20s %-8d %-10d %-8d %-8d\n",
			r.RunID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Posts,
			r.Downloaded,
			r.Cached,
			r.Failed,
		)
	}

	fmt.Printf("\nTotal: %s\n", common.Plural(len(runs), "run"))
	fmt.Printf("\nTip: Use 'blog-migrate runs show <id>' to see fetch attempts\n")

	return nil
}

// RunAction shows the fetch attempts of one run, the latest if no id is given.
func RunAction(c *cli.Context) error {
	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRun(runID)
	if err != nil {
		return err
	}
	attempts, err := database.ListAttempts(runID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Started:     %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	if run.FinishedAt != nil {
		fmt.Printf("Finished:    %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Printf("Finished:    (interrupted)\n")
	}
	fmt.Printf("Posts:       %d\n", run.Posts)
	fmt.Printf("Images:      %d downloaded, %d cached, %d failed\n", run.Downloaded, run.Cached, run.Failed)

	if len(attempts) == 0 {
		return nil
	}

	fmt.Printf("\nAttempts (%d):\n", len(attempts))
	fmt.Println(strings.Repeat("-", 60))
	for i, a := range attempts {
		if a.Success {
			fmt.Printf("%3d. [ok] %s (%s)\n", i+1, a.URL, humanize.Bytes(uint64(a.SizeBytes)))
			continue
		}
		total, err := database.AttemptCount(a.AssetDir, a.Identifier)
		if err != nil {
			return err
		}
		fmt.Printf("%3d. [%s] %s\n", i+1, a.ErrorType, a.URL)
		fmt.Printf("     Status: %d | Attempt: %d | All runs: %d\n", a.StatusCode, a.Attempt, total)
	}

	return nil
}
