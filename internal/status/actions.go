package status

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/blog-migrate/internal/common"
	"github.com/dtnitsch/blog-migrate/models"
	"github.com/dtnitsch/blog-migrate/pkg/db"
	"github.com/dtnitsch/blog-migrate/pkg/manifest"
)

func StatusAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	var open manifest.OpenFunc
	if cfg.ManifestBackend == models.ManifestBackendSQLite {
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()
		open = database.OpenManifest
	}

	statuses, err := NewInspector(cfg, open).InspectAll()
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		fmt.Printf("No posts found in %s\n", cfg.PostsDir)
		return nil
	}

	fmt.Printf("%-50s %-6s %-7s %-7s %s\n", "Post", "Local", "Cached", "Pending", "Title")
	fmt.Println(strings.Repeat("-", 110))

	done, pending := 0, 0
	for _, s := range statuses {
		fmt.Printf("%-50s %-6d %-7d %-7d %s\n", s.File, s.Local, s.Cached, s.Pending, s.Title)
		if s.Done() {
			done++
		}
		pending += s.Pending
	}

	fmt.Printf("\nTotal: %s, %d fully localized, %d images pending\n",
		common.Plural(len(statuses), "post"), done, pending)
	if done < len(statuses) {
		fmt.Printf("\nTip: Use 'blog-migrate localize' to download the rest\n")
	}
	return nil
}
