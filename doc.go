// Package holdings tracks holdings across portfolios and custodial platforms.
//
// It matches buy and sell events with First-In-First-Out lot accounting,
// values the open positions against a price feed and aggregates them by
// symbol, platform or portfolio into per-currency totals and one blended
// total in a reference currency.
//
// The engine is a set of pure functions:
//   - ParseLoose and Reformat normalize the loosely formatted numbers found in
//     spreadsheet cells.
//   - Match derives the remaining quantity and cost basis of one symbol.
//   - Valuate combines a match with a current Price.
//   - Aggregate, Blend and DailyChange reduce valuations to totals.
//
// Engine wires them to the three collaborators the host provides: a
// TransactionStore, a PriceFeed and optional SymbolMetadata. Inputs are
// snapshots; nothing is cached between calls.
package holdings
