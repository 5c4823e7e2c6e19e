package position

import (
	"math/rand"
	"testing"

	"pixeltrader/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(typ models.TransactionType, price, amount, date string) models.Transaction {
	return models.Transaction{Type: typ, Price: d(price), Amount: d(amount), Date: date}
}

func buy(price, amount, date string) models.Transaction {
	return tx(models.TransactionBuy, price, amount, date)
}

func sell(price, amount, date string) models.Transaction {
	return tx(models.TransactionSell, price, amount, date)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}

func TestCompute_Empty(t *testing.T) {
	pos := Compute(nil)
	assert.True(t, pos.CurrentAmount.IsZero())
	assert.True(t, pos.AverageCost.IsZero())
	assert.True(t, pos.RealizedPnL.IsZero())
	assert.True(t, pos.TotalCostBasis.IsZero())
}

func TestCompute_TwoBuys(t *testing.T) {
	pos := Compute([]models.Transaction{
		buy("68000", "0.1", "2024-01-01"),
		buy("72000", "0.1", "2024-01-02"),
	})
	assertDecimal(t, "0.2", pos.CurrentAmount)
	assertDecimal(t, "70000", pos.AverageCost)
	assertDecimal(t, "0", pos.RealizedPnL)
	assertDecimal(t, "14000", pos.TotalCostBasis)
}

func TestCompute_PartialSell(t *testing.T) {
	pos := Compute([]models.Transaction{
		buy("68000", "0.1", "2024-01-01"),
		buy("72000", "0.1", "2024-01-02"),
		sell("80000", "0.05", "2024-01-03"),
	})
	assertDecimal(t, "0.15", pos.CurrentAmount)
	assertDecimal(t, "70000", pos.AverageCost)
	assertDecimal(t, "500", pos.RealizedPnL)
	assertDecimal(t, "10500", pos.TotalCostBasis)
}

func TestCompute_SellWithNothingHeld(t *testing.T) {
	pos := Compute([]models.Transaction{sell("100", "10", "2024-01-01")})
	assert.True(t, pos.CurrentAmount.IsZero())
	assert.True(t, pos.RealizedPnL.IsZero())

	// a sell dated before the first buy is also a no-op
	pos = Compute([]models.Transaction{
		buy("100", "1", "2024-02-01"),
		sell("500", "1", "2024-01-01"),
	})
	assertDecimal(t, "1", pos.CurrentAmount)
	assertDecimal(t, "100", pos.AverageCost)
	assert.True(t, pos.RealizedPnL.IsZero())
}

func TestCompute_FullLiquidation(t *testing.T) {
	before := Compute([]models.Transaction{
		buy("100", "2", "2024-01-01"),
		buy("130", "1", "2024-01-05"),
	})
	after := Compute([]models.Transaction{
		buy("100", "2", "2024-01-01"),
		buy("130", "1", "2024-01-05"),
		sell("150", "3", "2024-01-09"),
	})
	assert.True(t, after.CurrentAmount.IsZero())
	assert.True(t, after.AverageCost.IsZero())
	want := before.RealizedPnL.Add(d("150").Sub(before.AverageCost).Mul(d("3")))
	assertDecimal(t, want.String(), after.RealizedPnL)
}

func TestCompute_OverSellClamps(t *testing.T) {
	pos := Compute([]models.Transaction{
		buy("10", "1", "2024-01-01"),
		sell("20", "5", "2024-01-02"),
	})
	assert.True(t, pos.CurrentAmount.IsZero())
	assert.True(t, pos.TotalCostBasis.IsZero())
	assert.True(t, pos.AverageCost.IsZero())
	assertDecimal(t, "50", pos.RealizedPnL)

	// the oversold 4 units absorb the next buy entirely
	pos = Compute([]models.Transaction{
		buy("10", "1", "2024-01-01"),
		sell("20", "5", "2024-01-02"),
		buy("30", "2", "2024-01-03"),
	})
	assert.True(t, pos.CurrentAmount.IsZero())
	assert.True(t, pos.AverageCost.IsZero())
	assert.True(t, pos.TotalCostBasis.IsZero())
}

func TestCompute_BuyAfterOverSellNetsShortfall(t *testing.T) {
	pos := Compute([]models.Transaction{
		buy("100", "1", "2024-01-01"),
		sell("100", "3", "2024-01-02"),
		buy("100", "5", "2024-01-03"),
	})
	assertDecimal(t, "3", pos.CurrentAmount)
	assertDecimal(t, "300", pos.TotalCostBasis)
	assertDecimal(t, "100", pos.AverageCost)
	assert.True(t, pos.RealizedPnL.IsZero())

	// a sell while the running amount is negative is ignored
	pos = Compute([]models.Transaction{
		buy("100", "1", "2024-01-01"),
		sell("100", "3", "2024-01-02"),
		sell("500", "1", "2024-01-03"),
		buy("100", "5", "2024-01-04"),
	})
	assertDecimal(t, "3", pos.CurrentAmount)
	assert.True(t, pos.RealizedPnL.IsZero())
}

func TestCompute_IgnoresMalformed(t *testing.T) {
	pos := Compute([]models.Transaction{
		buy("100", "1", "2024-01-01"),
		buy("0", "5", "2024-01-02"),
		buy("100", "-1", "2024-01-03"),
		sell("-5", "1", "2024-01-04"),
	})
	assertDecimal(t, "1", pos.CurrentAmount)
	assertDecimal(t, "100", pos.AverageCost)
}

func TestCompute_InterleavedSellUsesRunningAverage(t *testing.T) {
	pos := Compute([]models.Transaction{
		buy("100", "1", "2024-01-01"),
		sell("200", "0.5", "2024-01-02"),
		buy("300", "0.5", "2024-01-03"),
		sell("200", "0.5", "2024-01-04"),
	})
	// first sell: +50 against avg 100; basis 50 + 150 = 200 over 1 unit
	// second sell: (200-200)*0.5 = 0
	assertDecimal(t, "50", pos.RealizedPnL)
	assertDecimal(t, "0.5", pos.CurrentAmount)
	assertDecimal(t, "200", pos.AverageCost)
}

func TestCompute_SameDateFollowsInputOrder(t *testing.T) {
	a := Compute([]models.Transaction{
		buy("100", "1", "2024-01-01"),
		sell("150", "1", "2024-01-01"),
		buy("120", "1", "2024-01-01"),
	})
	b := Compute([]models.Transaction{
		buy("100", "1", "2024-01-01"),
		buy("120", "1", "2024-01-01"),
		sell("150", "1", "2024-01-01"),
	})
	assertDecimal(t, "50", a.RealizedPnL)
	assertDecimal(t, "40", b.RealizedPnL)
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	txs := []models.Transaction{
		buy("100", "1", "2024-03-01"),
		buy("50", "1", "2024-01-01"),
	}
	Compute(txs)
	assert.Equal(t, "2024-03-01", txs[0].Date)
	assert.Equal(t, "2024-01-01", txs[1].Date)
}

func TestCompute_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06"}

	for i := 0; i < 200; i++ {
		var txs []models.Transaction
		for j, n := 0, rng.Intn(8)+1; j < n; j++ {
			typ := models.TransactionBuy
			if rng.Intn(3) == 0 {
				typ = models.TransactionSell
			}
			txs = append(txs, models.Transaction{
				Type:   typ,
				Price:  decimal.NewFromInt(int64(rng.Intn(1000) + 1)),
				Amount: decimal.NewFromInt(int64(rng.Intn(10) + 1)),
				// distinct dates so any permutation must agree
				Date: dates[j%len(dates)],
			})
		}
		if len(txs) > len(dates) {
			txs = txs[:len(dates)]
		}

		pos := Compute(txs)
		require.False(t, pos.CurrentAmount.IsNegative(), "non-negative amount")

		shuffled := append([]models.Transaction(nil), txs...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		other := Compute(shuffled)
		require.True(t, pos.CurrentAmount.Equal(other.CurrentAmount))
		require.True(t, pos.RealizedPnL.Equal(other.RealizedPnL))
		require.True(t, pos.TotalCostBasis.Equal(other.TotalCostBasis))
	}
}

func TestCompute_BuyOnlyConservation(t *testing.T) {
	txs := []models.Transaction{
		buy("10", "3", "2024-01-01"),
		buy("20", "1", "2024-01-02"),
		buy("40", "4", "2024-01-03"),
	}
	pos := Compute(txs)

	var amount, cost decimal.Decimal
	for _, tx := range txs {
		amount = amount.Add(tx.Amount)
		cost = cost.Add(tx.Price.Mul(tx.Amount))
	}
	assertDecimal(t, amount.String(), pos.CurrentAmount)
	assertDecimal(t, cost.Div(amount).String(), pos.AverageCost)
	assert.True(t, pos.RealizedPnL.IsZero())
}
