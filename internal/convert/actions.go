package convert

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/blog-migrate/internal/common"
	"github.com/dtnitsch/blog-migrate/pkg/converter"
	"github.com/dtnitsch/blog-migrate/pkg/detector"
)

func ConvertAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	opts := converter.Options{
		PostsDir: cfg.PostsDir,
		Metadata: cfg.MetadataFor,
		Logger:   logger,
	}
	if cfg.DetectLanguage {
		d, err := detector.New(cfg.Languages)
		if err != nil {
			return fmt.Errorf("failed to set up language detection: %w", err)
		}
		opts.Detector = d
	}

	fmt.Printf("Converting posts from: %s\n", cfg.ExportDir)
	fmt.Printf("Output directory: %s\n\n", cfg.PostsDir)

	conv := converter.New(opts)
	results, err := conv.Run(cfg.ExportDir)
	if err != nil {
		return fmt.Errorf("failed to convert posts: %w", err)
	}

	converted, skipped := 0, 0
	for _, r := range results {
		if r.Skipped {
			skipped++
		} else {
			converted++
		}
	}
	logger.Info("conversion finished", "files", len(results), "converted", converted, "skipped", skipped)

	fmt.Printf("\nDone. Converted %s", common.Plural(converted, "post"))
	if skipped > 0 {
		fmt.Printf(", skipped %d", skipped)
	}
	fmt.Println(".")
	return nil
}
