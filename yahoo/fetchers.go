package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/ekvall/depot"
)

// This file contains the functions that access the Yahoo Finance endpoints.

// snapshot is the tier-1 answer. Prices the endpoint did not report (absent
// or zero) are unknown.
type snapshot struct {
	last     depot.Amount
	prev     depot.Amount
	currency string
}

// fetchSnapshot queries the current-quote endpoint for a single symbol.
//
//	https://query1.finance.yahoo.com/v7/finance/quote?symbols=CAMX.ST
//	{"quoteResponse":{"result":[{"symbol":"CAMX.ST",
//	  "regularMarketPrice":531.5,"regularMarketPreviousClose":528.0,
//	  "currency":"SEK", ...}],"error":null}}
func (c *Client) fetchSnapshot(ctx context.Context, symbol string) (snapshot, error) {
	addr := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, url.QueryEscape(symbol))

	var content struct {
		QuoteResponse struct {
			Result []struct {
				Symbol    string  `json:"symbol"`
				Price     float64 `json:"regularMarketPrice"`
				PrevClose float64 `json:"regularMarketPreviousClose"`
				Currency  string  `json:"currency"`
			} `json:"result"`
		} `json:"quoteResponse"`
	}
	if err := jwget(ctx, c.snap, addr, &content); err != nil {
		return snapshot{}, err
	}
	if len(content.QuoteResponse.Result) == 0 {
		return snapshot{}, fmt.Errorf("no snapshot for %q", symbol)
	}

	r := content.QuoteResponse.Result[0]
	var s snapshot
	// a zero price is Yahoo for "not traded / not known"
	if r.Price != 0 {
		s.last = depot.A(r.Price)
	}
	if r.PrevClose != 0 {
		s.prev = depot.A(r.PrevClose)
	}
	s.currency = strings.ToUpper(r.Currency)
	return s, nil
}

// fetchDaily queries a short window of daily closes for the symbol and
// returns the latest close, the one before it, and the chart's currency.
// Fewer than two usable closes leave both prices unknown.
//
// The chart payload nests the interesting bits several levels deep, so they
// are extracted by path instead of mirroring the whole structure:
//
//	https://query1.finance.yahoo.com/v8/finance/chart/CAMX.ST?range=7d&interval=1d
//	{"chart":{"result":[{"meta":{"currency":"SEK",...},
//	  "indicators":{"quote":[{"close":[527.0,null,528.0,531.5]}]}}]}}
func (c *Client) fetchDaily(ctx context.Context, symbol string) (last, prev depot.Amount, currency string, err error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?range=7d&interval=1d", c.baseURL, url.PathEscape(symbol))

	var jobj any
	if err := jwget(ctx, c.hist, addr, &jobj); err != nil {
		return depot.Unknown(), depot.Unknown(), "", err
	}

	if jval, err := jsonpath.Get("$.chart.result[0].meta.currency", jobj); err == nil {
		if s, ok := first(jval).(string); ok {
			currency = strings.ToUpper(s)
		}
	}

	jval, err := jsonpath.Get("$.chart.result[0].indicators.quote[0].close", jobj)
	if err != nil {
		return depot.Unknown(), depot.Unknown(), currency, fmt.Errorf("no daily closes for %q: %w", symbol, err)
	}
	raw, ok := first(jval).([]any)
	if !ok {
		raw, ok = jval.([]any)
	}
	if !ok {
		return depot.Unknown(), depot.Unknown(), currency, fmt.Errorf("unexpected closes payload for %q", symbol)
	}

	// the list carries nulls for sessions without a close
	closes := make([]float64, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(float64); ok && f != 0 {
			closes = append(closes, f)
		}
	}
	if len(closes) < 2 {
		// not enough history to name a last and a previous close
		return depot.Unknown(), depot.Unknown(), currency, nil
	}
	return depot.A(closes[len(closes)-1]), depot.A(closes[len(closes)-2]), currency, nil
}

// first unwraps jsonpath's occasional list-of-one answer.
func first(jval any) any {
	if jlist, ok := jval.([]any); ok && len(jlist) == 1 {
		if _, nested := jlist[0].([]any); !nested {
			return jlist[0]
		}
	}
	return jval
}
