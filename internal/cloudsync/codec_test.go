package cloudsync

import (
	"testing"

	"pixeltrader/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAssets_Deterministic(t *testing.T) {
	a, err := EncodeAssets([]models.Asset{btc(), eth()})
	require.NoError(t, err)
	b, err := EncodeAssets([]models.Asset{btc(), eth()})
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Contains(t, string(a), `"price":"70000"`)
	assert.NotContains(t, string(a), "created_at")
}

func TestDecodeAssets_Shapes(t *testing.T) {
	arr := `[{"id":"x","symbol":"sol","cgId":"solana","transactions":[{"id":"t","type":"BUY","price":"20","amount":"3","date":"2024-01-01","strategy":"SWING"}]}]`
	wrapped := `{"version":"v33_cloud","assets":` + arr + `}`

	for _, raw := range []string{arr, wrapped} {
		assets, err := DecodeAssets([]byte(raw))
		require.NoError(t, err)
		require.Len(t, assets, 1)
		assert.Equal(t, "SOL", assets[0].Symbol)
		assert.Equal(t, "solana", assets[0].ExternalID)
		require.Len(t, assets[0].Transactions, 1)
		assert.Equal(t, "x", assets[0].Transactions[0].AssetID)
		assert.Equal(t, models.StrategySwing, assets[0].Transactions[0].Strategy)
	}

	empty, err := DecodeAssets([]byte(" null "))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDecodeAssets_Invalid(t *testing.T) {
	_, err := DecodeAssets([]byte(`[{"id":"x","symbol":"  "}]`))
	require.ErrorIs(t, err, ErrInvalidAssets)

	_, err = DecodeAssets([]byte(`{"assets": 5}`))
	require.ErrorIs(t, err, ErrInvalidAssets)
}

func TestDecodeAssets_NormalizesDates(t *testing.T) {
	raw := `[{"id":"x","symbol":"BTC","transactions":[
		{"id":"a","type":"BUY","price":"1","amount":"1","date":"2024/1/5"},
		{"id":"b","type":"BUY","price":"1","amount":"1","date":"2024-01-10"},
		{"id":"c","type":"SELL","price":"1","amount":"1","date":"2024.01.07"}
	]}]`
	assets, err := DecodeAssets([]byte(raw))
	require.NoError(t, err)
	require.Len(t, assets[0].Transactions, 3)

	var dates []string
	for _, tx := range assets[0].Transactions {
		dates = append(dates, tx.Date)
	}
	assert.Equal(t, []string{"2024-01-05", "2024-01-10", "2024-01-07"}, dates)

	// a normalized date compares equal to the local form
	local, _ := EncodeAssets([]models.Asset{btc()})
	slashed := []byte(`[{"id":"btc-1","symbol":"BTC","transactions":[{"id":"tx-1","type":"BUY","price":"70000","amount":"0.1","date":"2024/01/01"}]}]`)
	assert.True(t, sameContent(local, slashed))
}

func TestDecodeAssets_RejectsUnparseableDate(t *testing.T) {
	raw := `[{"id":"x","symbol":"BTC","transactions":[{"id":"a","type":"BUY","price":"1","amount":"1","date":"5th of May"}]}]`
	_, err := DecodeAssets([]byte(raw))
	require.ErrorIs(t, err, ErrInvalidAssets)
}

func TestSameContent(t *testing.T) {
	a, _ := EncodeAssets([]models.Asset{btc()})
	spaced := []byte(`[ {"id":"btc-1","symbol":"btc","transactions":[{"id":"tx-1","type":"BUY","price":"70000.00","amount":"0.10","date":"2024-01-01"}]} ]`)
	assert.True(t, sameContent(a, spaced))

	b, _ := EncodeAssets([]models.Asset{btc(), eth()})
	assert.False(t, sameContent(a, b))
}
