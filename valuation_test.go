package depot

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestValuateSingleHoldingInBaseCurrency(t *testing.T) {
	src := newFakeSource(quoteOf("A.ST", 100, 90, "SEK"))
	holdings := []Holding{{Name: "Alpha", Symbol: "A.ST", Shares: 10}}

	v, err := Valuate(context.Background(), holdings, src, Options{})
	if err != nil {
		t.Fatalf("Valuate() unexpected error = %v", err)
	}
	if len(v.Rows) != 1 {
		t.Fatalf("Valuate() returned %d rows, want 1", len(v.Rows))
	}
	row := v.Rows[0]
	if !row.Value.Equal(A(1000)) {
		t.Errorf("row value = %v, want 1000", row.Value)
	}
	if !row.Change.Equal(A(100)) {
		t.Errorf("row change = %v, want 100", row.Change)
	}
	if !v.TotalValue.Equal(A(1000)) || !v.TotalChange.Equal(A(100)) {
		t.Errorf("totals = %v/%v, want 1000/100", v.TotalValue, v.TotalChange)
	}
	if len(v.Problems) != 0 {
		t.Errorf("problems = %v, want none", v.Problems)
	}
	// no SEKSEK=X pair was synthesized
	if got := src.totalCalls(); got != 1 {
		t.Errorf("made %d provider calls, want 1", got)
	}
}

func TestValuateConvertsForeignCurrency(t *testing.T) {
	src := newFakeSource(
		quoteOf("SHOP.TO", 100, 98, "CAD"),
		quoteOf("CADSEK=X", 7.5, 7.4, "SEK"),
	)
	holdings := []Holding{{Name: "Shopify", Symbol: "SHOP.TO", Shares: 2}}

	v, err := Valuate(context.Background(), holdings, src, Options{})
	if err != nil {
		t.Fatalf("Valuate() unexpected error = %v", err)
	}
	row := v.Rows[0]
	if row.Currency != "CAD" {
		t.Errorf("row currency = %q, want CAD", row.Currency)
	}
	if !row.Value.Equal(A(1500)) {
		t.Errorf("row value = %v, want 1500 (2 * 100 * 7.5)", row.Value)
	}
	if !row.Change.Equal(A(30)) {
		t.Errorf("row change = %v, want 30 (2 * 2 * 7.5)", row.Change)
	}
}

func TestValuateCurrencyFallsBackToSuffix(t *testing.T) {
	// provider returns no currency, the .TO suffix implies CAD
	src := newFakeSource(
		quoteOf("SHOP.TO", 100, 98, ""),
		quoteOf("CADSEK=X", 7, 7, "SEK"),
	)
	holdings := []Holding{{Name: "Shopify", Symbol: "SHOP.TO", Shares: 1}}

	v, err := Valuate(context.Background(), holdings, src, Options{})
	if err != nil {
		t.Fatalf("Valuate() unexpected error = %v", err)
	}
	if got := v.Rows[0].Currency; got != "CAD" {
		t.Errorf("row currency = %q, want CAD from suffix", got)
	}
	if !v.Rows[0].Value.Equal(A(700)) {
		t.Errorf("row value = %v, want 700", v.Rows[0].Value)
	}
}

func TestValuateUnresolvedQuoteBecomesProblem(t *testing.T) {
	src := newFakeSource(quoteOf("A.ST", 100, 90, "SEK"))
	holdings := []Holding{
		{Name: "Alpha", Symbol: "A.ST", Shares: 10},
		{Name: "Beta", Symbol: "B.ST", Shares: 5}, // no quote on the fake
	}

	v, err := Valuate(context.Background(), holdings, src, Options{})
	if err != nil {
		t.Fatalf("Valuate() unexpected error = %v", err)
	}
	if len(v.Rows) != 2 {
		t.Fatalf("Valuate() returned %d rows, want 2", len(v.Rows))
	}
	if !v.Rows[1].Problem {
		t.Errorf("unresolved holding is not flagged as problem")
	}
	if !reflect.DeepEqual(v.Problems, []string{"B.ST"}) {
		t.Errorf("problems = %v, want [B.ST]", v.Problems)
	}
	// the problem row contributes exactly zero
	if !v.TotalValue.Equal(A(1000)) || !v.TotalChange.Equal(A(100)) {
		t.Errorf("totals = %v/%v, want 1000/100", v.TotalValue, v.TotalChange)
	}
}

func TestValuateSharedRateFailureFlagsAllUsers(t *testing.T) {
	// two USD holdings, no USDSEK=X pair available
	src := newFakeSource(
		quoteOf("AAPL", 200, 190, "USD"),
		quoteOf("MSFT", 400, 410, "USD"),
	)
	holdings := []Holding{
		{Name: "Apple", Symbol: "AAPL", Shares: 1},
		{Name: "Microsoft", Symbol: "MSFT", Shares: 1},
	}

	v, err := Valuate(context.Background(), holdings, src, Options{})
	if err != nil {
		t.Fatalf("Valuate() unexpected error = %v", err)
	}
	if !reflect.DeepEqual(v.Problems, []string{"AAPL", "MSFT"}) {
		t.Errorf("problems = %v, want [AAPL MSFT]", v.Problems)
	}
	if !v.TotalValue.IsZero() {
		t.Errorf("total value = %v, want 0", v.TotalValue)
	}
	// the missing pair was looked up once, not once per holding
	if got := src.count("USDSEK=X"); got != 1 {
		t.Errorf("USDSEK=X looked up %d times, want 1", got)
	}
}

func TestValuateSystemicErrorAbortsRun(t *testing.T) {
	src := newFakeSource()
	src.err = fmt.Errorf("lookup query1.finance.yahoo.com: %w", ErrUnreachable)
	holdings := []Holding{{Name: "Alpha", Symbol: "A.ST", Shares: 1}}

	v, err := Valuate(context.Background(), holdings, src, Options{})
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("Valuate() error = %v, want ErrUnreachable", err)
	}
	if v != nil {
		t.Errorf("Valuate() = %+v, want nil valuation on systemic failure", v)
	}
}

func TestValuateCancellationReturnsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := newFakeSource(
		quoteOf("A.ST", 100, 90, "SEK"),
		quoteOf("B.ST", 50, 50, "SEK"),
	)
	// cancel after the first lookup; no further lookups may start
	canceling := &cancelAfter{Source: src, n: 1, cancel: cancel}
	holdings := []Holding{
		{Name: "Alpha", Symbol: "A.ST", Shares: 10},
		{Name: "Beta", Symbol: "B.ST", Shares: 10},
	}

	v, err := Valuate(ctx, holdings, canceling, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Valuate() error = %v, want context.Canceled", err)
	}
	if v == nil {
		t.Fatal("Valuate() returned nil valuation, want partial result")
	}
	if len(v.Rows) != 1 {
		t.Fatalf("partial valuation has %d rows, want 1", len(v.Rows))
	}
	if !v.TotalValue.Equal(A(1000)) {
		t.Errorf("partial total = %v, want 1000", v.TotalValue)
	}
	if got := src.count("B.ST"); got != 0 {
		t.Errorf("lookup started after cancellation: B.ST called %d times", got)
	}
}

// cancelAfter cancels its context once n lookups have gone through.
type cancelAfter struct {
	Source
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) Quote(ctx context.Context, symbol string) (Quote, error) {
	q, err := c.Source.Quote(ctx, symbol)
	if c.n--; c.n == 0 {
		c.cancel()
	}
	return q, err
}

func TestValuateEmptyHoldings(t *testing.T) {
	v, err := Valuate(context.Background(), nil, newFakeSource(), Options{})
	if err != nil {
		t.Fatalf("Valuate() unexpected error = %v", err)
	}
	if len(v.Rows) != 0 || len(v.Problems) != 0 {
		t.Errorf("empty portfolio produced rows %v problems %v", v.Rows, v.Problems)
	}
	if !v.TotalValue.IsZero() || !v.TotalChange.IsZero() {
		t.Errorf("empty portfolio totals = %v/%v, want 0/0", v.TotalValue, v.TotalChange)
	}
}

func TestValuateConcurrentMatchesSequential(t *testing.T) {
	quotes := []Quote{
		quoteOf("A.ST", 100, 90, "SEK"),
		quoteOf("SHOP.TO", 100, 98, "CAD"),
		quoteOf("AAPL", 200, 190, "USD"),
		quoteOf("CADSEK=X", 7.5, 7.4, "SEK"),
		quoteOf("USDSEK=X", 10, 10, "SEK"),
	}
	holdings := []Holding{
		{Name: "Alpha", Symbol: "A.ST", Shares: 10},
		{Name: "Shopify", Symbol: "SHOP.TO", Shares: 2},
		{Name: "Apple", Symbol: "AAPL", Shares: 3},
		{Name: "Ghost", Symbol: "NOPE.ST", Shares: 1},
	}

	seq, err := Valuate(context.Background(), holdings, newFakeSource(quotes...), Options{})
	if err != nil {
		t.Fatalf("sequential Valuate() error = %v", err)
	}
	par, err := Valuate(context.Background(), holdings, newFakeSource(quotes...), Options{Workers: 4})
	if err != nil {
		t.Fatalf("concurrent Valuate() error = %v", err)
	}

	if !seq.TotalValue.Equal(par.TotalValue) || !seq.TotalChange.Equal(par.TotalChange) {
		t.Errorf("concurrent totals %v/%v differ from sequential %v/%v",
			par.TotalValue, par.TotalChange, seq.TotalValue, seq.TotalChange)
	}
	if !reflect.DeepEqual(seq.Problems, par.Problems) {
		t.Errorf("concurrent problems %v differ from sequential %v", par.Problems, seq.Problems)
	}
	// rows come back in holding order either way
	for i := range seq.Rows {
		if seq.Rows[i].Holding.Symbol != par.Rows[i].Holding.Symbol {
			t.Errorf("row %d: concurrent order %q, sequential %q",
				i, par.Rows[i].Holding.Symbol, seq.Rows[i].Holding.Symbol)
		}
	}
}

func TestSortByValueKeepsTotals(t *testing.T) {
	src := newFakeSource(
		quoteOf("A.ST", 10, 10, "SEK"),
		quoteOf("B.ST", 2000, 2000, "SEK"),
		quoteOf("C.ST", 500, 500, "SEK"),
	)
	holdings := []Holding{
		{Name: "Alpha", Symbol: "A.ST", Shares: 1},
		{Name: "Beta", Symbol: "B.ST", Shares: 1},
		{Name: "Ghost", Symbol: "NOPE.ST", Shares: 1},
		{Name: "Gamma", Symbol: "C.ST", Shares: 1},
	}

	v, err := Valuate(context.Background(), holdings, src, Options{})
	if err != nil {
		t.Fatalf("Valuate() unexpected error = %v", err)
	}
	value, change := v.TotalValue, v.TotalChange

	v.SortByValue()

	var order []string
	for _, row := range v.Rows {
		order = append(order, row.Holding.Symbol)
	}
	want := []string{"B.ST", "C.ST", "A.ST", "NOPE.ST"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("sorted order = %v, want %v", order, want)
	}

	v.total()
	if !v.TotalValue.Equal(value) || !v.TotalChange.Equal(change) {
		t.Errorf("totals changed by sorting: %v/%v, was %v/%v",
			v.TotalValue, v.TotalChange, value, change)
	}
}

func TestValuateIdempotent(t *testing.T) {
	quotes := []Quote{
		quoteOf("A.ST", 100, 90, "SEK"),
		quoteOf("SHOP.TO", 100, 98, "CAD"),
		quoteOf("CADSEK=X", 7.5, 7.4, "SEK"),
	}
	holdings := []Holding{
		{Name: "Alpha", Symbol: "A.ST", Shares: 10},
		{Name: "Shopify", Symbol: "SHOP.TO", Shares: 2},
	}

	first, err := Valuate(context.Background(), holdings, newFakeSource(quotes...), Options{})
	if err != nil {
		t.Fatalf("Valuate() unexpected error = %v", err)
	}
	second, err := Valuate(context.Background(), holdings, newFakeSource(quotes...), Options{})
	if err != nil {
		t.Fatalf("Valuate() unexpected error = %v", err)
	}
	if !first.TotalValue.Equal(second.TotalValue) || !first.TotalChange.Equal(second.TotalChange) {
		t.Errorf("same inputs gave different totals: %v/%v vs %v/%v",
			first.TotalValue, first.TotalChange, second.TotalValue, second.TotalChange)
	}
}
