package depot

import (
	"context"
	"sort"
	"sync"
	"time"
)

// DefaultBaseCurrency is the base currency used when none is configured.
const DefaultBaseCurrency = "SEK"

// Row is the valuation of a single holding. All monetary figures are in the
// run's base currency; any figure derived from unresolved data is unknown,
// and the row is then flagged as a problem.
type Row struct {
	Holding  Holding
	Quote    Quote
	Currency string // currency the conversion used
	Rate     Rate

	PriceBase     Amount
	PrevPriceBase Amount
	Value         Amount // Shares * PriceBase
	Change        Amount // Shares * (PriceBase - PrevPriceBase)

	Problem bool
}

// Valuation is the result of one complete pass over the holdings.
//
// TotalValue and TotalChange are commutative sums over the fully resolved
// rows only: a problem row contributes exactly zero, never an unknown, so the
// totals are always known. Problems lists the distinct problem symbols,
// sorted.
type Valuation struct {
	Base string
	AsOf time.Time

	Rows        []Row
	TotalValue  Amount
	TotalChange Amount
	Problems    []string
}

// Options configures a valuation run.
type Options struct {
	// BaseCurrency for all totals. Defaults to DefaultBaseCurrency.
	BaseCurrency string
	// Workers bounds the number of concurrent symbol lookups. Zero or one
	// means strictly sequential, in holding order.
	Workers int
}

// Valuate fetches a quote for every holding, converts to the base currency,
// and aggregates rows and totals.
//
// A holding whose price or rate cannot be resolved becomes a problem row; it
// is still emitted but contributes zero to the totals. The run itself fails
// only when the provider signals a systemic error (see ErrUnreachable).
//
// Cancellation is cooperative: once ctx is done no new lookups are started,
// and the rows computed so far are returned together with the context error,
// so a partial report can still be built.
func Valuate(ctx context.Context, holdings []Holding, source Source, opts Options) (*Valuation, error) {
	base := opts.BaseCurrency
	if base == "" {
		base = DefaultBaseCurrency
	}

	v := &Valuation{Base: base, AsOf: time.Now()}
	fx := newRates(base, source)
	results := make([]*Row, len(holdings))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	var sysErr error
	fail := func(err error) {
		mu.Lock()
		if sysErr == nil {
			sysErr = err
			cancel()
		}
		mu.Unlock()
	}

	work := func(i int) {
		// no new lookups after cancellation; in-flight ones finish on their own
		if runCtx.Err() != nil {
			return
		}
		row, err := valuateHolding(runCtx, holdings[i], source, fx, base)
		if err != nil {
			fail(err)
			return
		}
		results[i] = row
	}

	if opts.Workers <= 1 {
		for i := range holdings {
			work(i)
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, opts.Workers)
		for i := range holdings {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				work(i)
			}(i)
		}
		wg.Wait()
	}

	if sysErr != nil {
		return nil, sysErr
	}

	for _, row := range results {
		if row != nil {
			v.Rows = append(v.Rows, *row)
		}
	}
	v.total()
	return v, ctx.Err()
}

// valuateHolding values one holding. The returned error is systemic only.
func valuateHolding(ctx context.Context, h Holding, source Source, fx *rates, base string) (*Row, error) {
	q, err := source.Quote(ctx, h.Symbol)
	if err != nil {
		return nil, err
	}

	// Currency: from the quote, else inferred from the exchange suffix, else
	// assume the holding already trades in the base currency.
	currency := q.Currency
	if currency == "" {
		currency = CurrencyForSymbol(h.Symbol)
	}
	if currency == "" {
		currency = base
	}

	rate, err := fx.resolve(ctx, currency)
	if err != nil {
		return nil, err
	}

	row := &Row{
		Holding:  h,
		Quote:    q,
		Currency: currency,
		Rate:     Rate{Currency: currency, ToBase: rate},
	}
	shares := A(h.Shares)
	row.PriceBase = q.Last.Mul(rate)
	row.PrevPriceBase = q.PrevClose.Mul(rate)
	row.Value = shares.Mul(row.PriceBase)
	row.Change = shares.Mul(row.PriceBase.Sub(row.PrevPriceBase))
	row.Problem = !row.Value.Known() || !row.Change.Known()
	return row, nil
}

// total computes the portfolio totals and the problem list from the rows.
// Addition is commutative, so the row order cannot change the result.
func (v *Valuation) total() {
	value, change := A(0), A(0)
	seen := make(map[string]bool)
	v.Problems = v.Problems[:0]
	for _, row := range v.Rows {
		if row.Problem {
			if !seen[row.Holding.Symbol] {
				seen[row.Holding.Symbol] = true
				v.Problems = append(v.Problems, row.Holding.Symbol)
			}
			continue
		}
		value = value.Add(row.Value)
		change = change.Add(row.Change)
	}
	sort.Strings(v.Problems)
	v.TotalValue = value
	v.TotalChange = change
}

// SortByValue reorders the rows for presentation, descending by base value
// with problem rows last. Totals are computed over the set of rows, not their
// order, so sorting never changes them.
func (v *Valuation) SortByValue() {
	sort.SliceStable(v.Rows, func(i, j int) bool {
		a, b := v.Rows[i].Value, v.Rows[j].Value
		if a.Known() != b.Known() {
			return a.Known()
		}
		if !a.Known() {
			return false
		}
		return a.Decimal().GreaterThan(b.Decimal())
	})
}
