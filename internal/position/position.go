// Package position derives holdings, cost basis and P&L from a
// transaction log using the weighted-average-cost method.
package position

import (
	"cmp"
	"slices"

	"pixeltrader/internal/models"

	"github.com/shopspring/decimal"
)

type Position struct {
	CurrentAmount  decimal.Decimal `json:"current_amount"`
	AverageCost    decimal.Decimal `json:"average_cost"`
	RealizedPnL    decimal.Decimal `json:"realized_pnl"`
	TotalCostBasis decimal.Decimal `json:"total_cost_basis"`
}

// Compute reduces txs into a Position. Transactions are walked in date
// order; same-date transactions keep their input order. Rows with a
// non-positive price or amount are ignored. txs is not modified.
//
// A SELL realizes (price - averageCost) * amount against the blended
// average at the time of the sale, so later sells are attributed
// differently when buys are interleaved. A SELL with nothing held is a
// no-op. A SELL larger than the holding runs the running amount negative,
// and later BUYs net against it; the amount is floored at zero (with a
// zero basis) only once the walk is done.
func Compute(txs []models.Transaction) Position {
	ordered := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Price.IsPositive() || !tx.Amount.IsPositive() {
			continue
		}
		ordered = append(ordered, tx)
	}
	slices.SortStableFunc(ordered, func(a, b models.Transaction) int {
		return cmp.Compare(a.Date, b.Date)
	})

	var amount, basis, realized decimal.Decimal
	for _, tx := range ordered {
		switch tx.Type {
		case models.TransactionBuy:
			amount = amount.Add(tx.Amount)
			basis = basis.Add(tx.Price.Mul(tx.Amount))
		case models.TransactionSell:
			if !amount.IsPositive() {
				continue
			}
			avg := basis.Div(amount)
			realized = realized.Add(tx.Price.Sub(avg).Mul(tx.Amount))
			basis = basis.Sub(avg.Mul(tx.Amount))
			amount = amount.Sub(tx.Amount)
		}
	}

	avg := decimal.Zero
	if amount.IsPositive() {
		avg = basis.Div(amount)
	} else {
		amount = decimal.Zero
		basis = decimal.Zero
	}

	return Position{
		CurrentAmount:  amount,
		AverageCost:    avg,
		RealizedPnL:    realized,
		TotalCostBasis: basis,
	}
}
