package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ekvall/depot"
	"github.com/ekvall/depot/assist"
	"github.com/ekvall/depot/mail"
	"github.com/ekvall/depot/renderer"
	"github.com/ekvall/depot/yahoo"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	email   bool
	html    bool
	watch   int
	sortBy  string
	assist  bool
	workers int
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "value the portfolio and print or email the report" }
func (*reportCmd) Usage() string {
	return `dpt report [-email] [-html] [-w n] [-sort value|input] [-assist]

  Fetches a quote for every holding, converts to the base currency, and
  prints the report. Symbols that cannot be valued are listed in a warning
  section and excluded from the totals.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.email, "email", false, "send the report by email using the configured SMTP settings")
	f.BoolVar(&c.html, "html", false, "print the HTML body instead of the terminal report")
	f.IntVar(&c.watch, "w", 0, "run every n seconds")
	f.StringVar(&c.sortBy, "sort", "value", "row order: 'value' (descending) or 'input'")
	f.BoolVar(&c.assist, "assist", false, "append an AI commentary to the report")
	f.IntVar(&c.workers, "workers", 1, "number of concurrent symbol lookups")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	source := yahoo.New(yahoo.Options{
		BaseURL: cfg.Provider.BaseURL,
		Timeout: cfg.Provider.Timeout,
	})

	for {
		if status := c.run(ctx, cfg, source); status != subcommands.ExitSuccess {
			return status
		}
		if c.watch <= 0 {
			return subcommands.ExitSuccess
		}
		select {
		case <-ctx.Done():
			return subcommands.ExitSuccess
		case <-time.After(time.Duration(c.watch) * time.Second):
		}
	}
}

// run performs one valuation run end to end.
func (c *reportCmd) run(ctx context.Context, cfg Config, source depot.Source) subcommands.ExitStatus {
	holdings, err := depot.LoadHoldings(cfg.HoldingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings %q: %v\n", cfg.HoldingsFile, err)
		return subcommands.ExitFailure
	}

	v, err := depot.Valuate(ctx, holdings, source, depot.Options{
		BaseCurrency: cfg.BaseCurrency,
		Workers:      c.workers,
	})
	if err != nil && v == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err != nil {
		// cancelled mid-run: the rows computed so far still make a report
		log.Printf("valuation interrupted, reporting partial results: %v", err)
	}

	if c.sortBy != "input" {
		v.SortByValue()
	}
	report := renderer.Build(v)

	if c.assist {
		if commentary := c.commentary(ctx, cfg, report.Text); commentary != "" {
			report.Text += "\n## Commentary\n\n" + commentary + "\n"
		}
	}

	if c.watch > 0 {
		fmt.Println("\033[2J")
	}
	if c.html {
		fmt.Println(report.HTML)
	} else {
		printMarkdown(report.Text)
	}

	if c.email {
		msg := mail.Message{Subject: report.Subject, Text: report.Text, HTML: report.HTML}
		if err := mail.Send(cfg.Mail, msg); err != nil {
			fmt.Fprintf(os.Stderr, "Error sending report: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Report sent to %v\n", cfg.Mail.To)
	}
	return subcommands.ExitSuccess
}

// commentary asks the configured model for a short note on the report. Any
// failure here only costs the commentary, never the report.
func (c *reportCmd) commentary(ctx context.Context, cfg Config, report string) string {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		log.Printf("assist disabled: %v", err)
		return ""
	}
	text, err := assist.Commentary(ctx, client, cfg.Assist.Model, report)
	if err != nil {
		log.Printf("assist failed: %v", err)
		return ""
	}
	return text
}
