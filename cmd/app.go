// Package cmd implements the dpt command line application.
package cmd

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Commands lists the subcommands of the application.
// A main package registers each of them and executes the user-selected one.
var Commands = []subcommands.Command{
	&reportCmd{},
	&listCmd{},
	&addCmd{},
	&removeCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the config file (YAML). Defaults to depot.yaml if present.")
var holdingsFile = flag.String("holdings-file", "", "Path to the holdings file (JSON), overrides the config")

// loadConfig resolves the effective configuration from defaults, config file
// and command line.
func loadConfig() (Config, error) {
	cfg, err := Load(*configFile)
	if err != nil {
		return cfg, err
	}
	if *holdingsFile != "" {
		cfg.HoldingsFile = *holdingsFile
	}
	return cfg, nil
}

// printMarkdown renders markdown for the terminal. On rendering trouble the
// raw markdown is still perfectly readable, so print that instead.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
