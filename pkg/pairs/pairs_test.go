package pairs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairPricing(t *testing.T) {
	price, err := GetPriceForPair("TESTUSD", testPrices())
	require.NoError(t, err)
	assert.InDelta(t, 0.1, price, 1e-9)
}

func TestRouter_Direct(t *testing.T) {
	price, err := NewRouter(testPrices()).USD("btc")
	require.NoError(t, err)
	assert.Equal(t, 100000.0, price)
}

func TestRouter_Pegged(t *testing.T) {
	r := NewRouter(map[string]float64{})

	price, err := r.USD("USDT")
	require.NoError(t, err)
	assert.Equal(t, 1.0, price)
}

func TestRouter_Unknown(t *testing.T) {
	_, err := NewRouter(testPrices()).USD("NOPE")
	assert.ErrorIs(t, err, ErrPairNotFound)
}

func TestRouter_SkipsZeroPrices(t *testing.T) {
	prices := map[string]float64{
		"ABCUSDT": 0,
		"ABCBTC":  0.5,
		"BTCUSDT": 10,
	}

	price, err := NewRouter(prices).USD("ABC")
	require.NoError(t, err)
	assert.Equal(t, 5.0, price)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		pair  string
		base  string
		quote string
		ok    bool
	}{
		{"BTCUSDT", "BTC", "USDT", true},
		{"ETHBTC", "ETH", "BTC", true},
		{"BTCUSD", "BTC", "USD", true},
		{"BTCEURI", "BTC", "EURI", true},
		{"USDT", "", "", false},
		{"XYZ", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.pair, func(t *testing.T) {
			base, quote, ok := Split(tt.pair)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.quote, quote)
		})
	}
}

func TestUSDTPair(t *testing.T) {
	assert.Equal(t, "BTCUSDT", USDTPair("btc"))
	assert.Equal(t, "BTCUSDT", USDTPair("BTCUSDT"))
	assert.Equal(t, "USDTUSDT", USDTPair("USDT"))
}

func testPrices() map[string]float64 {
	return map[string]float64{
		"BTCUSDT": 100000.0,
		"ETHBTC":  0.1,
		"BNBETH":  0.1,
		"TRXBNB":  0.1,
		"XRPTRX":  0.1,
		"TESTXRP": 0.01,
	}
}
