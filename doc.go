// Package depot values a stock portfolio in a single base currency and
// reports which holdings could not be valued.
//
// The core pipeline is:
//   - A quote Source obtains the last price, previous close, and currency for
//     each holding's symbol. The provider behind the Source tries a fast
//     snapshot first and falls back to a short historical window; per-symbol
//     failures are encoded as unknown Amounts, never as errors.
//   - Foreign prices are converted to the base currency through a per-run FX
//     memo: each distinct currency is resolved at most once per valuation run,
//     successful or not.
//   - Valuate combines holdings, quotes, and rates into per-holding rows and
//     portfolio totals. Holdings with any unresolved figure are listed as
//     problem symbols and contribute zero to the totals; a single bad symbol
//     never aborts the run. Only a provider-unreachable condition does.
//
// The renderer subpackage formats a Valuation into text and HTML reports, the
// yahoo subpackage provides a Source backed by the Yahoo Finance API, and the
// cmd subpackage wires everything into the `dpt` command line tool.
package depot
