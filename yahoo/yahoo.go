// Package yahoo implements a depot.Source backed by the Yahoo Finance API.
//
// Lookups are two-tiered: a cheap snapshot endpoint first, and a short
// historical window of daily closes when the snapshot is incomplete. Failures
// for one symbol come back as unknown fields on the Quote; only a DNS-level
// failure, which dooms every subsequent call too, is returned as an error.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ekvall/depot"
)

const (
	// DefaultBaseURL is the public Yahoo Finance query host.
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	// DefaultTimeout is the per-request budget. A timed-out lookup yields an
	// unknown quote, not a failed run.
	DefaultTimeout = 15 * time.Second

	// Yahoo rejects requests without a browser-ish user agent.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// Options configures a Client.
type Options struct {
	BaseURL string        // defaults to DefaultBaseURL
	Timeout time.Duration // defaults to DefaultTimeout
	NoCache bool          // disable the daily disk cache for historical fetches
}

// Client fetches quotes from Yahoo Finance. The snapshot endpoint is always
// queried live; the historical endpoint goes through a disk cache keyed by
// day, since daily closes only change once per session.
type Client struct {
	baseURL string
	snap    *http.Client
	hist    *http.Client
}

// New returns a Client ready to use.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	hist := &http.Client{Timeout: opts.Timeout}
	if !opts.NoCache {
		hist.Transport = &diskCache{base: http.DefaultTransport}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		snap:    &http.Client{Timeout: opts.Timeout},
		hist:    hist,
	}
}

// Quote implements depot.Source.
//
// Tier 1 asks the snapshot endpoint for last price, previous close, and
// currency; when all three are present that answer is final. Otherwise
// exactly one Tier-2 request fills the gaps from the last few daily closes.
// Currency missing from both tiers falls back to the exchange suffix.
func (c *Client) Quote(ctx context.Context, symbol string) (depot.Quote, error) {
	q := depot.Quote{Symbol: symbol}

	snap, err := c.fetchSnapshot(ctx, symbol)
	if err != nil {
		if unreachable(err) {
			return q, fmt.Errorf("%w: %v", depot.ErrUnreachable, err)
		}
		log.Printf("yahoo: snapshot %s: %v", symbol, err)
	} else {
		q.Last, q.PrevClose, q.Currency = snap.last, snap.prev, snap.currency
	}

	if !q.Resolved() || q.Currency == "" {
		last, prev, currency, err := c.fetchDaily(ctx, symbol)
		if err != nil {
			if unreachable(err) {
				return depot.Quote{Symbol: symbol}, fmt.Errorf("%w: %v", depot.ErrUnreachable, err)
			}
			log.Printf("yahoo: history %s: %v", symbol, err)
		} else {
			if !q.Resolved() {
				q.Last, q.PrevClose = last, prev
			}
			if q.Currency == "" {
				q.Currency = currency
			}
		}
	}

	if q.Currency == "" {
		q.Currency = depot.CurrencyForSymbol(symbol)
	}
	return q, nil
}

// unreachable reports whether err is a DNS resolution failure, the condition
// treated as "provider down" rather than "symbol unresolved".
func unreachable(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
