package depot

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Holding is one line of the portfolio: a display name, the exchange ticker,
// and the number of shares held. Holdings are read-only input for a valuation
// run; editing them is the business of the holdings file, not of the core.
type Holding struct {
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Shares float64 `json:"shares"`
}

// DecodeHoldings reads a JSON array of holdings. Malformed records (empty
// name or symbol, negative share count) are skipped with a warning rather
// than failing the whole file.
func DecodeHoldings(r io.Reader) ([]Holding, error) {
	var raw []Holding
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("cannot decode holdings: %w", err)
	}
	out := make([]Holding, 0, len(raw))
	for _, h := range raw {
		h.Name = strings.TrimSpace(h.Name)
		h.Symbol = strings.TrimSpace(h.Symbol)
		if h.Name == "" || h.Symbol == "" || h.Shares < 0 {
			log.Printf("skipping malformed holding %+v", h)
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// EncodeHoldings writes holdings as an indented JSON array, the canonical
// holdings file format.
func EncodeHoldings(w io.Writer, holdings []Holding) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(holdings)
}

// LoadHoldings reads the holdings file. A missing file is an empty portfolio,
// not an error.
func LoadHoldings(path string) ([]Holding, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeHoldings(f)
}

// SaveHoldings writes the holdings file.
func SaveHoldings(path string, holdings []Holding) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeHoldings(f, holdings); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
