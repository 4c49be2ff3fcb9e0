package depot

import (
	"context"
	"sync"
)

// Rate is the conversion rate from one currency to the run's base currency.
// An unknown ToBase means the pair could not be resolved this run.
type Rate struct {
	Currency string
	ToBase   Amount
}

// rates memoizes FX resolution for the lifetime of a single valuation run.
// Each distinct currency is resolved at most once, whether the resolution
// succeeds or not; a failed pair is not retried until the next run. The memo
// is owned by one run and never shared, so repeated runs always start fresh.
type rates struct {
	base   string
	source Source

	mu   sync.Mutex
	memo map[string]*rateEntry
}

// rateEntry is a single-flight slot: concurrent requests for the same
// currency merge on the once, the first resolution wins.
type rateEntry struct {
	once sync.Once
	rate Amount
	err  error
}

func newRates(base string, source Source) *rates {
	return &rates{base: base, source: source, memo: make(map[string]*rateEntry)}
}

// pairSymbol synthesizes the provider ticker for a currency pair, e.g.
// "CADSEK=X" for CAD quoted in SEK.
func pairSymbol(currency, base string) string { return currency + base + "=X" }

// resolve returns the rate from currency to the base currency. The base
// currency itself is exactly 1 with no lookup, and a currency that cannot
// name a pair (not a valid ISO code) is unknown with no lookup. The returned
// error is non-nil only for systemic provider failures.
func (r *rates) resolve(ctx context.Context, currency string) (Amount, error) {
	if currency == r.base {
		return A(1), nil
	}
	if !ValidCurrency(currency) {
		return Unknown(), nil
	}

	r.mu.Lock()
	e, ok := r.memo[currency]
	if !ok {
		e = new(rateEntry)
		r.memo[currency] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		q, err := r.source.Quote(ctx, pairSymbol(currency, r.base))
		if err != nil {
			e.rate, e.err = Unknown(), err
			return
		}
		e.rate = q.Last
	})
	return e.rate, e.err
}
