package importexport

import (
	"testing"

	"pixeltrader/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportFixture() []models.Transaction {
	return []models.Transaction{
		{Type: models.TransactionSell, Price: decimal.NewFromInt(80000), Amount: decimal.RequireFromString("0.05"), Date: "2024-03-01"},
		{Type: models.TransactionBuy, Price: decimal.NewFromInt(68000), Amount: decimal.RequireFromString("0.1"), Date: "2024-01-01", Strategy: models.StrategyDCA},
	}
}

func TestExport_Markdown(t *testing.T) {
	out, err := Export(exportFixture(), "md")
	require.NoError(t, err)
	assert.Equal(t,
		"| Date | Type | Price | Amount |\n"+
			"|---|---|---|---|\n"+
			"| 2024-01-01 | BUY | 68000 | 0.1 |\n"+
			"| 2024-03-01 | SELL | 80000 | 0.05 |\n",
		string(out))
}

func TestExport_JSON(t *testing.T) {
	txs := exportFixture()
	out, err := Export(txs, "JSON")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"date":"2024-01-01","type":"BUY","price":"68000","amount":"0.1","strategy":"DCA"},
		{"date":"2024-03-01","type":"SELL","price":"80000","amount":"0.05"}
	]`, string(out))

	// input order untouched
	assert.Equal(t, "2024-03-01", txs[0].Date)

	// exported JSON parses back
	res := Parse(string(out))
	require.Len(t, res.Rows, 2)
	assert.Equal(t, models.TransactionSell, res.Rows[1].Type)
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := Export(nil, "xlsx")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFileNameAndContentType(t *testing.T) {
	assert.Equal(t, "BTC.md", FileName("btc", "MD"))
	assert.Equal(t, "application/json", ContentType("json"))
	assert.Contains(t, ContentType("md"), "text/markdown")
}
