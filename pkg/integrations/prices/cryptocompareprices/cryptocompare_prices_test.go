package cryptocompareprices

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pixeltrader/pkg/types/prices"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceFetcher_FetchMany(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pricemulti", r.URL.Path)
		assert.Equal(t, "BTC,ETH,ZZZ", r.URL.Query().Get("fsyms"))
		assert.Equal(t, "Apikey secret", r.Header.Get("authorization"))
		w.Write([]byte(`{"BTC":{"USD":68000},"ETH":{"USD":3500.5}}`))
	}))
	defer server.Close()

	fetcher := NewPriceFetcherWithKey("secret")
	fetcher.BaseURL = server.URL

	testPrices := []*prices.Price{
		{Asset: prices.Asset{Symbol: "btc"}},
		{Asset: prices.Asset{Symbol: "ETH"}},
		{Asset: prices.Asset{Symbol: "ZZZ"}},
	}
	require.NoError(t, fetcher.FetchMany(t.Context(), testPrices...))

	assert.Equal(t, 68000.0, testPrices[0].Value)
	assert.Equal(t, 3500.5, testPrices[1].Value)
	assert.Zero(t, testPrices[2].Value)
	assert.Equal(t, prices.SourceCryptoCompare, testPrices[1].Source)
}

func TestPriceFetcher_TransportError(t *testing.T) {
	fetcher := NewPriceFetcher()
	fetcher.BaseURL = "http://127.0.0.1:1"

	err := fetcher.FetchMany(t.Context(), &prices.Price{Asset: prices.Asset{Symbol: "BTC"}})
	assert.Error(t, err)
}
