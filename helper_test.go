package depot

import (
	"context"
	"sync"
)

// fakeSource serves canned quotes and counts lookups per symbol.
type fakeSource struct {
	mu     sync.Mutex
	quotes map[string]Quote
	err    error
	calls  map[string]int
}

func newFakeSource(quotes ...Quote) *fakeSource {
	s := &fakeSource{quotes: make(map[string]Quote), calls: make(map[string]int)}
	for _, q := range quotes {
		s.quotes[q.Symbol] = q
	}
	return s
}

func (s *fakeSource) Quote(_ context.Context, symbol string) (Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[symbol]++
	if s.err != nil {
		return Quote{Symbol: symbol}, s.err
	}
	if q, ok := s.quotes[symbol]; ok {
		return q, nil
	}
	// unknown symbol resolves to an all-unknown quote, like a real provider
	return Quote{Symbol: symbol}, nil
}

func (s *fakeSource) count(symbol string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[symbol]
}

func (s *fakeSource) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// quoteOf is a terse Quote constructor for tests.
func quoteOf(symbol string, last, prev float64, currency string) Quote {
	return Quote{Symbol: symbol, Last: A(last), PrevClose: A(prev), Currency: currency}
}
