package market

import (
	"context"

	"github.com/shopspring/decimal"
)

// Ticker is the live state of one exchange symbol. The windowed changes
// beyond 24h are filled in lazily and stay invalid until enriched.
type Ticker struct {
	Symbol    string              `json:"symbol"`
	Price     decimal.Decimal     `json:"price"`
	Volume    decimal.Decimal     `json:"volume"`
	Change24h decimal.Decimal     `json:"change24h"`
	Change1h  decimal.NullDecimal `json:"change1h"`
	Change4h  decimal.NullDecimal `json:"change4h"`
	Change7d  decimal.NullDecimal `json:"change7d"`
	Change30d decimal.NullDecimal `json:"change30d"`
}

// Enriched reports whether the long-horizon stats are present.
func (t Ticker) Enriched() bool {
	return t.Change7d.Valid && t.Change30d.Valid
}

// Window is a rolling ticker window size understood by the exchange.
type Window string

const (
	Window1h Window = "1h"
	Window4h Window = "4h"
)

// Source is a REST market-data endpoint.
type Source interface {
	Name() string
	// Snapshot returns price, quote volume and 24h change for every
	// actively trading symbol.
	Snapshot(ctx context.Context) ([]Ticker, error)
	WindowChange(ctx context.Context, symbol string, window Window) (decimal.Decimal, error)
	// DailyCloses returns up to limit daily close prices, oldest first.
	DailyCloses(ctx context.Context, symbol string, limit int) ([]decimal.Decimal, error)
}

// Streamer runs one streaming session against endpoint. onOpen fires once
// the connection is established; onBatch receives partial tickers
// (price, volume, 24h change). Stream blocks until the session ends.
type Streamer interface {
	Stream(ctx context.Context, endpoint string, onOpen func(), onBatch func([]Ticker)) error
}
