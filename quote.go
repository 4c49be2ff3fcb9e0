package depot

import (
	"context"
	"errors"
	"strings"
)

// ErrUnreachable signals that the market data provider cannot be reached at
// all (typically a DNS failure). Unlike a per-symbol miss it invalidates every
// lookup in the run, so it is surfaced once and aborts the valuation.
var ErrUnreachable = errors.New("market data provider unreachable")

// Quote is the provider's answer for one symbol, produced fresh per run.
// Fields the provider could not determine are unknown (prices) or ""
// (currency); a fully unknown Quote is a valid answer, not an error.
type Quote struct {
	Symbol    string
	Last      Amount
	PrevClose Amount
	Currency  string
}

// Resolved reports whether both prices are known.
func (q Quote) Resolved() bool { return q.Last.Known() && q.PrevClose.Known() }

// Source provides quotes for symbols. Implementations must encode per-symbol
// failures in the returned Quote and reserve the error return for systemic
// conditions such as ErrUnreachable.
type Source interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}

// suffixCurrencies maps a Yahoo-style exchange suffix to the currency stocks
// trade in there. Used when the provider returns no currency metadata.
var suffixCurrencies = map[string]string{
	".ST": "SEK", // Nasdaq Stockholm
	".TO": "CAD", // Toronto Stock Exchange
	".V":  "CAD", // TSX Venture
	".OL": "NOK", // Oslo Børs
	".CO": "DKK", // Nasdaq Copenhagen
	".HE": "EUR", // Nasdaq Helsinki
	".DE": "EUR", // Xetra
	".PA": "EUR", // Euronext Paris
	".AS": "EUR", // Euronext Amsterdam
	".L":  "GBP", // London Stock Exchange
	".SW": "CHF", // SIX Swiss Exchange
}

// CurrencyForSymbol infers a currency from the symbol's exchange suffix, or
// returns "" when the suffix is not a known exchange.
func CurrencyForSymbol(symbol string) string {
	i := strings.LastIndex(symbol, ".")
	if i < 0 {
		return ""
	}
	return suffixCurrencies[symbol[i:]]
}

// ValidCurrency reports whether code looks like an ISO 4217 currency code:
// exactly three uppercase ASCII letters.
func ValidCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
