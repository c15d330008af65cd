package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/blog-migrate/internal/common"
	"github.com/dtnitsch/blog-migrate/internal/convert"
	dbcmd "github.com/dtnitsch/blog-migrate/internal/db"
	"github.com/dtnitsch/blog-migrate/internal/localize"
	"github.com/dtnitsch/blog-migrate/internal/status"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	postsDirFlag := &cli.StringFlag{Name: "posts-dir", Usage: "Jekyll posts directory"}
	assetsDirFlag := &cli.StringFlag{Name: "assets-dir", Usage: "directory downloaded images are stored under, one sub-directory per post"}
	backendFlag := &cli.StringFlag{Name: "backend", Usage: "manifest backend: json or sqlite"}
	dbFlag := &cli.StringFlag{Name: "db", Usage: "SQLite database path"}

	return &cli.App{
		Name:  "blog-migrate",
		Usage: "move a Medium export into a Jekyll site with locally hosted images",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
		},
		Commands: []*cli.Command{
			{
				Name:   "guide",
				Usage:  "print a quick start",
				Action: common.GuideAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "config-example", Usage: "print an example config file instead"},
				},
			},
			{
				Name:   "convert",
				Usage:  "convert exported HTML posts to Markdown with front matter",
				Action: convert.ConvertAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "export-dir", Usage: "directory holding the exported *.html posts"},
					postsDirFlag,
					&cli.BoolFlag{Name: "detect-language", Usage: "add a lang key to the front matter"},
				},
			},
			{
				Name:   "localize",
				Usage:  "download CDN images referenced by posts and point the posts at the local copies",
				Action: localize.LocalizeAction,
				Flags: []cli.Flag{
					postsDirFlag,
					assetsDirFlag,
					&cli.DurationFlag{Name: "delay", Usage: "pause between successful downloads"},
					&cli.IntFlag{Name: "attempts", Usage: "GETs per image when the CDN answers 429"},
					backendFlag,
					dbFlag,
					&cli.BoolFlag{Name: "history", Usage: "record the run and every fetch attempt in the database"},
				},
			},
			{
				Name:   "status",
				Usage:  "show which posts still reference remote images",
				Action: status.StatusAction,
				Flags:  []cli.Flag{postsDirFlag, assetsDirFlag, backendFlag, dbFlag},
			},
			{
				Name:  "runs",
				Usage: "inspect localize runs recorded with --history",
				Flags: []cli.Flag{dbFlag},
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "list recent runs",
						Action: dbcmd.RunsAction,
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "limit", Value: 20, Usage: "number of runs to show, 0 for all"},
						},
					},
					{
						Name:      "show",
						Usage:     "show the fetch attempts of a run",
						ArgsUsage: "[run-id]",
						Action:    dbcmd.RunAction,
					},
				},
			},
		},
	}
}
