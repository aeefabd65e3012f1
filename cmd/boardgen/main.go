// Command boardgen generates Jan Chain boards offline.
//
// It has two subcommands:
//
//	boardgen generate   generate boards from a preset or from flags and print
//	                    them as ASCII or JSON
//	boardgen analyze    generate a batch of boards for every preset in a
//	                    directory and report attempts, fallback rate and
//	                    line lengths
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "boardgen",
		Usage: "generate and analyze Jan Chain boards",
		Commands: []*cli.Command{
			generateCommand(),
			analyzeCommand(),
		},
	}
}

func configDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config-dir",
		Value:   "configs",
		Usage:   "directory containing preset JSON files",
		Sources: cli.EnvVars("CONFIG_DIR"),
	}
}
