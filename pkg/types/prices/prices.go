package prices

import "context"

const (
	SourceBinance       = "binance"
	SourceCoinGecko     = "coingecko"
	SourceCryptoCompare = "cryptocompare"
)

type Asset struct {
	// ExternalID is the aggregator coin id (coingecko "bitcoin").
	ExternalID string
	Symbol     string
}

type Price struct {
	Asset  Asset
	Value  float64
	Source string
}

// PriceFetcher resolves USD spot prices for a batch of assets.
type PriceFetcher interface {
	FetchMany(ctx context.Context, prices ...*Price) error
}
