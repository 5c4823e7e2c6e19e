package prices

import (
	"context"
	"errors"
	"testing"

	"pixeltrader/pkg/types/prices"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	values map[string]float64
	err    error
	calls  int
}

func (s *stubFetcher) FetchMany(_ context.Context, ps ...*prices.Price) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	for _, p := range ps {
		if v, ok := s.values[p.Asset.Symbol]; ok {
			p.Value = v
			p.Source = "stub"
		}
	}
	return nil
}

func TestPriceService_FallsBackForMissing(t *testing.T) {
	first := &stubFetcher{values: map[string]float64{"BTC": 68000}}
	second := &stubFetcher{values: map[string]float64{"BTC": 1, "ETH": 3500}}

	svc := NewPriceService(WithFetcher("first", first), WithFetcher("second", second))

	btc := &prices.Price{Asset: prices.Asset{Symbol: "BTC"}}
	eth := &prices.Price{Asset: prices.Asset{Symbol: "ETH"}}
	require.NoError(t, svc.FetchMany(t.Context(), btc, eth))

	assert.Equal(t, 68000.0, btc.Value)
	assert.Equal(t, 3500.0, eth.Value)
}

func TestPriceService_ErrorFallsThrough(t *testing.T) {
	broken := &stubFetcher{err: errors.New("down")}
	ok := &stubFetcher{values: map[string]float64{"BTC": 68000}}

	svc := NewPriceService(WithFetcher("broken", broken), WithFetcher("ok", ok))

	btc := &prices.Price{Asset: prices.Asset{Symbol: "BTC"}}
	require.NoError(t, svc.FetchMany(t.Context(), btc))
	assert.Equal(t, 68000.0, btc.Value)
}

func TestPriceService_AllDown(t *testing.T) {
	svc := NewPriceService(
		WithFetcher("a", &stubFetcher{err: errors.New("down")}),
		WithFetcher("b", &stubFetcher{err: errors.New("down")}),
	)

	err := svc.FetchMany(t.Context(), &prices.Price{Asset: prices.Asset{Symbol: "BTC"}})
	assert.ErrorIs(t, err, ErrAllSourcesDown)
}

func TestPriceService_CachesResults(t *testing.T) {
	f := &stubFetcher{values: map[string]float64{"BTC": 68000}}
	svc := NewPriceService(WithFetcher("f", f))

	require.NoError(t, svc.FetchMany(t.Context(), &prices.Price{Asset: prices.Asset{Symbol: "BTC"}}))
	again := &prices.Price{Asset: prices.Asset{Symbol: "BTC"}}
	require.NoError(t, svc.FetchMany(t.Context(), again))

	assert.Equal(t, 1, f.calls)
	assert.Equal(t, 68000.0, again.Value)
}

func TestPriceService_NoFetchers(t *testing.T) {
	assert.ErrorIs(t, NewPriceService().FetchMany(t.Context()), ErrNoFetchers)
}

func TestForSource(t *testing.T) {
	_, err := ForSource(prices.SourceCoinGecko)
	assert.NoError(t, err)
	_, err = ForSource(prices.SourceCryptoCompare)
	assert.NoError(t, err)
	_, err = ForSource("kraken")
	assert.ErrorIs(t, err, ErrUnknownSource)
}
