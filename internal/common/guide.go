package common

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/blog-migrate/pkg/help"
)

// GuideAction prints the quick start, or a full example config with --config-example.
func GuideAction(c *cli.Context) error {
	if c.Bool("config-example") {
		fmt.Print(help.ExampleConfig)
		return nil
	}
	fmt.Print(help.ColdstartYAML)
	return nil
}
