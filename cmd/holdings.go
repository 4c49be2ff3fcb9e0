package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ekvall/depot"
	"github.com/google/subcommands"
)

// This file implements the holdings file maintenance commands. They are glue
// around the holdings store; the valuation core only ever reads the result.

// listCmd prints the holdings file.
type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the holdings" }
func (*listCmd) Usage() string {
	return `dpt list

  Prints the holdings file, one line per holding.
`
}
func (*listCmd) SetFlags(*flag.FlagSet) {}

func (c *listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	holdings, err := depot.LoadHoldings(cfg.HoldingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings %q: %v\n", cfg.HoldingsFile, err)
		return subcommands.ExitFailure
	}
	if len(holdings) == 0 {
		fmt.Printf("No holdings in %s\n", cfg.HoldingsFile)
		return subcommands.ExitSuccess
	}
	for _, h := range holdings {
		fmt.Printf("%-30s %-12s %10.0f\n", h.Name, h.Symbol, h.Shares)
	}
	return subcommands.ExitSuccess
}

// addCmd appends a holding to the holdings file.
type addCmd struct {
	name   string
	symbol string
	shares float64
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a holding to the holdings file" }
func (*addCmd) Usage() string {
	return `dpt add -name <name> -symbol <symbol> -shares <n>

  Appends a holding. The same symbol may appear more than once; each line is
  valued independently.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "display name of the holding")
	f.StringVar(&c.symbol, "symbol", "", "exchange ticker, e.g. CAMX.ST")
	f.Float64Var(&c.shares, "shares", 0, "number of shares held")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" || c.symbol == "" || c.shares < 0 {
		fmt.Fprintln(os.Stderr, "Error: -name and -symbol are required and -shares must not be negative")
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	holdings, err := depot.LoadHoldings(cfg.HoldingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings %q: %v\n", cfg.HoldingsFile, err)
		return subcommands.ExitFailure
	}
	holdings = append(holdings, depot.Holding{Name: c.name, Symbol: c.symbol, Shares: c.shares})
	if err := depot.SaveHoldings(cfg.HoldingsFile, holdings); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving holdings %q: %v\n", cfg.HoldingsFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added %s (%s) to %s\n", c.name, c.symbol, cfg.HoldingsFile)
	return subcommands.ExitSuccess
}

// removeCmd removes all holdings with a given symbol.
type removeCmd struct {
	symbol string
}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove a holding from the holdings file" }
func (*removeCmd) Usage() string {
	return `dpt remove -symbol <symbol>

  Removes every holding with the given symbol.
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "exchange ticker to remove")
}

func (c *removeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: -symbol is required")
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	holdings, err := depot.LoadHoldings(cfg.HoldingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings %q: %v\n", cfg.HoldingsFile, err)
		return subcommands.ExitFailure
	}
	kept := holdings[:0]
	for _, h := range holdings {
		if h.Symbol != c.symbol {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(holdings) {
		fmt.Fprintf(os.Stderr, "No holding with symbol %q in %s\n", c.symbol, cfg.HoldingsFile)
		return subcommands.ExitFailure
	}
	if err := depot.SaveHoldings(cfg.HoldingsFile, kept); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving holdings %q: %v\n", cfg.HoldingsFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Removed %s from %s\n", c.symbol, cfg.HoldingsFile)
	return subcommands.ExitSuccess
}
