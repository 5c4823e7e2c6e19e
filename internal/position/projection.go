package position

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Mode string

const (
	// ModeAmount spends value (quote currency) at price.
	ModeAmount Mode = "amount"
	// ModeQuantity buys value units at price.
	ModeQuantity Mode = "quantity"
	// ModeRiskFree sells enough at price to recover the whole cost basis.
	ModeRiskFree Mode = "risk_free"
)

var (
	ErrInvalidPrice = errors.New("price must be positive")
	ErrInvalidValue = errors.New("value must be positive")
	ErrUnknownMode  = errors.New("unknown projection mode")
)

var hundred = decimal.NewFromInt(100)

type Projection struct {
	Mode  Mode            `json:"mode"`
	Price decimal.Decimal `json:"price"`

	BuyAmount      decimal.Decimal `json:"buy_amount"`
	BuyCost        decimal.Decimal `json:"buy_cost"`
	NewAverageCost decimal.Decimal `json:"new_average_cost"`
	AverageDropPct decimal.Decimal `json:"average_drop_pct"`

	AmountToSell    decimal.Decimal `json:"amount_to_sell"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	IsProfitable    bool            `json:"is_profitable"`
	// ExceedsHoldings is set when AmountToSell is more than is held.
	// The figure is reported as-is.
	ExceedsHoldings bool `json:"exceeds_holdings"`
}

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAmount, ModeQuantity, ModeRiskFree:
		return m, nil
	case "":
		return ModeAmount, nil
	default:
		return "", errors.Wrap(ErrUnknownMode, s)
	}
}

// Project simulates one more transaction against pos without changing it.
func Project(pos Position, mode Mode, price, value decimal.Decimal) (Projection, error) {
	if !price.IsPositive() {
		return Projection{}, ErrInvalidPrice
	}

	p := Projection{Mode: mode, Price: price}

	switch mode {
	case ModeAmount, ModeQuantity:
		if !value.IsPositive() {
			return Projection{}, ErrInvalidValue
		}
		if mode == ModeAmount {
			p.BuyCost = value
			p.BuyAmount = value.Div(price)
		} else {
			p.BuyAmount = value
			p.BuyCost = value.Mul(price)
		}

		held := pos.CurrentAmount.Mul(pos.AverageCost)
		p.NewAverageCost = held.Add(p.BuyCost).Div(pos.CurrentAmount.Add(p.BuyAmount))
		if pos.AverageCost.IsPositive() {
			p.AverageDropPct = pos.AverageCost.Sub(p.NewAverageCost).Div(pos.AverageCost).Mul(hundred)
		}
		return p, nil

	case ModeRiskFree:
		p.AmountToSell = pos.TotalCostBasis.Div(price)
		p.RemainingAmount = pos.CurrentAmount.Sub(p.AmountToSell)
		p.IsProfitable = price.GreaterThan(pos.AverageCost)
		p.ExceedsHoldings = p.AmountToSell.GreaterThan(pos.CurrentAmount)
		return p, nil

	default:
		return Projection{}, errors.Wrap(ErrUnknownMode, string(mode))
	}
}
