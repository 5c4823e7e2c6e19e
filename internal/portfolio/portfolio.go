// Package portfolio values positions at live prices and builds the
// portfolio-level views: totals, stress projection, ordering, allocation.
package portfolio

import (
	"cmp"
	"slices"
	"strings"

	"pixeltrader/internal/models"
	"pixeltrader/internal/position"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrUnknownSortMode = errors.New("unknown sort mode")

// Stablecoins are exempt from the stress shock and price at 1 when no
// quote is available.
var Stablecoins = map[string]struct{}{
	"USDT": {},
	"USDC": {},
	"DAI":  {},
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

func IsStable(symbol string) bool {
	_, ok := Stablecoins[strings.ToUpper(symbol)]
	return ok
}

// PriceLookup returns the current USD price of an asset symbol.
type PriceLookup interface {
	Price(symbol string) (decimal.Decimal, bool)
}

// PriceMap is a fixed PriceLookup.
type PriceMap map[string]decimal.Decimal

func (m PriceMap) Price(symbol string) (decimal.Decimal, bool) {
	p, ok := m[strings.ToUpper(symbol)]
	return p, ok
}

type Metric struct {
	AssetID    string `json:"asset_id"`
	Symbol     string `json:"symbol"`
	Name       string `json:"name,omitempty"`
	ExternalID string `json:"cgId,omitempty"`
	IsStable   bool   `json:"is_stable"`

	position.Position

	Price         decimal.Decimal `json:"price"`
	HasPrice      bool            `json:"has_price"`
	MarketValue   decimal.Decimal `json:"market_value"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
	ROI           decimal.Decimal `json:"roi"`
}

type Summary struct {
	Assets          []Metric        `json:"assets"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalRealized   decimal.Decimal `json:"total_realized"`
	TotalUnrealized decimal.Decimal `json:"total_unrealized"`
}

// Aggregate values every asset. An asset without a live price is worth
// zero; ROI is zero when nothing was paid for the holdings.
func Aggregate(assets []models.Asset, prices PriceLookup) Summary {
	summary := Summary{Assets: make([]Metric, 0, len(assets))}

	for _, asset := range assets {
		m := Value(asset, prices)
		summary.Assets = append(summary.Assets, m)
		summary.TotalValue = summary.TotalValue.Add(m.MarketValue)
		summary.TotalRealized = summary.TotalRealized.Add(m.RealizedPnL)
		summary.TotalUnrealized = summary.TotalUnrealized.Add(m.UnrealizedPnL)
	}
	return summary
}

// Value computes one asset's metrics.
func Value(asset models.Asset, prices PriceLookup) Metric {
	pos := position.Compute(asset.Transactions)
	m := Metric{
		AssetID:    asset.ID,
		Symbol:     asset.Symbol,
		Name:       asset.Name,
		ExternalID: asset.ExternalID,
		IsStable:   IsStable(asset.Symbol),
		Position:   pos,
	}

	if prices != nil {
		m.Price, m.HasPrice = prices.Price(asset.Symbol)
	}

	m.MarketValue = pos.CurrentAmount.Mul(m.Price)
	m.UnrealizedPnL = m.MarketValue.Sub(pos.CurrentAmount.Mul(pos.AverageCost))
	if pos.AverageCost.IsPositive() {
		m.ROI = m.Price.Div(pos.AverageCost)
	}
	return m
}

// StressTotal is the total value with every non-stable asset shocked by
// shockPct percent.
func StressTotal(metrics []Metric, shockPct decimal.Decimal) decimal.Decimal {
	factor := one.Add(shockPct.Div(hundred))
	total := decimal.Zero
	for _, m := range metrics {
		if m.IsStable {
			total = total.Add(m.MarketValue)
			continue
		}
		total = total.Add(m.MarketValue.Mul(factor))
	}
	return total
}

type SortMode string

const (
	SortValue SortMode = "value"
	SortPnL   SortMode = "pnl"
	SortRank  SortMode = "rank"
	SortName  SortMode = "name"
)

func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(s)); m {
	case SortValue, SortPnL, SortRank, SortName:
		return m, nil
	case "":
		return SortValue, nil
	default:
		return "", errors.Wrap(ErrUnknownSortMode, s)
	}
}

// Sort returns a stably sorted copy of metrics.
func Sort(metrics []Metric, mode SortMode) []Metric {
	out := slices.Clone(metrics)

	var fn func(a, b Metric) int
	switch mode {
	case SortPnL:
		fn = func(a, b Metric) int { return b.UnrealizedPnL.Cmp(a.UnrealizedPnL) }
	case SortRank:
		fn = func(a, b Metric) int { return a.ROI.Cmp(b.ROI) }
	case SortName:
		fn = func(a, b Metric) int { return cmp.Compare(a.Symbol, b.Symbol) }
	default:
		fn = func(a, b Metric) int { return b.MarketValue.Cmp(a.MarketValue) }
	}
	slices.SortStableFunc(out, fn)
	return out
}

type Slice struct {
	Symbol string          `json:"symbol"`
	Value  decimal.Decimal `json:"value"`
	Share  decimal.Decimal `json:"share_pct"`
}

// Allocation reports each asset's share of total value, largest first.
// Assets worth nothing are left out.
func Allocation(metrics []Metric) []Slice {
	total := decimal.Zero
	for _, m := range metrics {
		total = total.Add(m.MarketValue)
	}
	if !total.IsPositive() {
		return []Slice{}
	}

	out := make([]Slice, 0, len(metrics))
	for _, m := range Sort(metrics, SortValue) {
		if !m.MarketValue.IsPositive() {
			continue
		}
		out = append(out, Slice{
			Symbol: m.Symbol,
			Value:  m.MarketValue,
			Share:  m.MarketValue.Div(total).Mul(hundred),
		})
	}
	return out
}

// StableShare is the stablecoin share of total value in percent, zero for
// an empty portfolio.
func StableShare(metrics []Metric) decimal.Decimal {
	total, stable := decimal.Zero, decimal.Zero
	for _, m := range metrics {
		total = total.Add(m.MarketValue)
		if m.IsStable {
			stable = stable.Add(m.MarketValue)
		}
	}
	if !total.IsPositive() {
		return decimal.Zero
	}
	return stable.Div(total).Mul(hundred)
}
