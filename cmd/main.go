// cmd/main.go

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

// Version is set at build time via ldflags.
var Version = "dev"

// now is the clock every command reads the current date from.
var now = time.Now

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "invoicegen",
		Usage:   "generate the monthly invoice PDF",
		Version: Version,
		Flags:   generateFlags(),
		Action:  runGenerate,
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "render this month's invoice into the output directory",
				Flags:  generateFlags(),
				Action: runGenerate,
			},
			{
				Name:   "serve",
				Usage:  "serve invoice generation over HTTP",
				Flags:  serveFlags(),
				Action: runServe,
			},
		},
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "settings file (default invoicegen.yaml)"},
		&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Usage: "directory invoices are written to"},
		&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
	}
}

func generateFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{Name: "variables", Usage: "invoice variables JSON file"},
		&cli.IntFlag{Name: "holidays", Usage: "holiday days to deduct (skips the prompt)"},
		&cli.IntFlag{Name: "time-off", Usage: "time-off days to deduct (skips the prompt)"},
	)
}

func serveFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{Name: "addr", Usage: "listen address"},
	)
}

// settingsOverrides maps explicitly set flags onto settings keys.
func settingsOverrides(c *cli.Context) map[string]any {
	keys := map[string]string{
		"output-dir": "output_dir",
		"log-level":  "log.level",
		"variables":  "variables_file",
		"addr":       "server.addr",
	}
	out := map[string]any{}
	for flagName, key := range keys {
		if c.IsSet(flagName) {
			out[key] = c.String(flagName)
		}
	}
	return out
}
