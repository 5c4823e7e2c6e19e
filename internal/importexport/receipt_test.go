package importexport

import (
	"testing"

	"pixeltrader/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExtractReceipt(t *testing.T) {
	base := Candidate{
		Type:   models.TransactionBuy,
		Price:  decimal.NewFromInt(1),
		Amount: decimal.NewFromInt(2),
		Date:   "2020-01-01",
	}

	tests := []struct {
		name string
		text string
		want Candidate
	}{
		{
			name: "chinese sell receipt",
			text: "卖出 DOGE/USDT\n数量 94.7 / 94.7\n价格 0.3944\n2024-05-06 12:00:01",
			want: Candidate{Type: models.TransactionSell, Price: decimal.RequireFromString("0.3944"), Amount: decimal.RequireFromString("94.7"), Date: "2024-05-06"},
		},
		{
			name: "average fill price fallback",
			text: "买入 成交均价: 61,000 数量：0.5",
			want: Candidate{Type: models.TransactionBuy, Price: decimal.NewFromInt(61), Amount: decimal.RequireFromString("0.5"), Date: "2020-01-01"},
		},
		{
			name: "english short keeps unmatched fields",
			text: "Short BTCUSDT perpetual",
			want: Candidate{Type: models.TransactionSell, Price: decimal.NewFromInt(1), Amount: decimal.NewFromInt(2), Date: "2020-01-01"},
		},
		{
			name: "type resets to buy",
			text: "nothing useful",
			want: base,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			if tt.name == "type resets to buy" {
				in.Type = models.TransactionSell
			}
			got := ExtractReceipt(tt.text, in)
			assert.Equal(t, tt.want.Type, got.Type)
			assert.True(t, tt.want.Price.Equal(got.Price), "price %s", got.Price)
			assert.True(t, tt.want.Amount.Equal(got.Amount), "amount %s", got.Amount)
			assert.Equal(t, tt.want.Date, got.Date)
		})
	}
}
