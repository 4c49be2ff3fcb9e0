package depot

import (
	"github.com/shopspring/decimal"
)

// Amount is a monetary value, price, or rate that may be unknown.
//
// "Unknown" is a first-class state: a quote the provider could not resolve, a
// currency with no rate to the base, a timed-out lookup. Arithmetic on an
// unknown Amount yields an unknown Amount, so missing data propagates through
// a valuation instead of turning into a silent zero.
type Amount struct {
	value decimal.Decimal
	known bool
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// A returns a known Amount holding value.
func A[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Amount {
	return Amount{value: newDecimal(value), known: true}
}

// Unknown returns the unknown Amount.
func Unknown() Amount { return Amount{} }

// Known reports whether the amount holds an actual value.
func (a Amount) Known() bool { return a.known }

// Decimal returns the underlying value. It is zero when the amount is unknown.
func (a Amount) Decimal() decimal.Decimal { return a.value }

// InexactFloat64 returns the nearest float64. Unknown amounts return 0.
func (a Amount) InexactFloat64() float64 { return a.value.InexactFloat64() }

func (a Amount) IsZero() bool     { return a.known && a.value.IsZero() }
func (a Amount) IsPositive() bool { return a.known && a.value.IsPositive() }
func (a Amount) IsNegative() bool { return a.known && a.value.IsNegative() }

// Equal reports whether both amounts are known and hold the same value, or
// both are unknown.
func (a Amount) Equal(b Amount) bool {
	if a.known != b.known {
		return false
	}
	return !a.known || a.value.Equal(b.value)
}

// binary operators. Unknown propagates.

func (a Amount) Add(b Amount) Amount {
	if !a.known || !b.known {
		return Unknown()
	}
	return Amount{value: a.value.Add(b.value), known: true}
}

func (a Amount) Sub(b Amount) Amount {
	if !a.known || !b.known {
		return Unknown()
	}
	return Amount{value: a.value.Sub(b.value), known: true}
}

func (a Amount) Mul(b Amount) Amount {
	if !a.known || !b.known {
		return Unknown()
	}
	return Amount{value: a.value.Mul(b.value), known: true}
}

// String returns the bare decimal value, or "?" when unknown. Currency-aware
// formatting lives in the renderer package.
func (a Amount) String() string {
	if !a.known {
		return "?"
	}
	return a.value.String()
}
