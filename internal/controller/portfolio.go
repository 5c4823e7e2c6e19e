package controller

import (
	"net/http"

	"pixeltrader/internal/portfolio"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SummaryResponse struct {
	portfolio.Summary
	StableSharePct decimal.Decimal `json:"stable_share_pct"`
	LowAmmo        bool            `json:"low_ammo"`
	Sort           string          `json:"sort"`
}

type StressResponse struct {
	ShockPct     decimal.Decimal `json:"shock_pct"`
	CurrentValue decimal.Decimal `json:"current_value"`
	StressValue  decimal.Decimal `json:"stress_value"`
	Change       decimal.Decimal `json:"change"`
}

// PortfolioSummary godoc
// @Summary Portfolio summary
// @Description Per-asset metrics and totals at live prices
// @Tags portfolio
// @Produce json
// @Param sort query string false "value, pnl, rank or name"
// @Success 200 {object} SummaryResponse
// @Failure 400 {object} APIError
// @Router /api/portfolio/summary [get]
func (c *Controller) PortfolioSummary(ctx *gin.Context) {
	mode, err := portfolio.ParseSortMode(ctx.Query("sort"))
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	summary, ok := c.aggregate(ctx)
	if !ok {
		return
	}
	summary.Assets = portfolio.Sort(summary.Assets, mode)

	ctx.JSON(http.StatusOK, SummaryResponse{
		Summary:        summary,
		StableSharePct: portfolio.StableShare(summary.Assets),
		LowAmmo:        portfolio.LowAmmo(summary),
		Sort:           string(mode),
	})
}

// PortfolioStress godoc
// @Summary Stress test
// @Description Total value with every non-stable asset moved by shock percent
// @Tags portfolio
// @Produce json
// @Param shock query number false "Shock in percent, e.g. -30"
// @Success 200 {object} StressResponse
// @Failure 400 {object} APIError
// @Router /api/portfolio/stress [get]
func (c *Controller) PortfolioStress(ctx *gin.Context) {
	shock := decimal.Zero
	if raw := ctx.Query("shock"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			badRequest(ctx, "shock must be a number")
			return
		}
		shock = v
	}

	summary, ok := c.aggregate(ctx)
	if !ok {
		return
	}

	stressed := portfolio.StressTotal(summary.Assets, shock)
	ctx.JSON(http.StatusOK, StressResponse{
		ShockPct:     shock,
		CurrentValue: summary.TotalValue,
		StressValue:  stressed,
		Change:       stressed.Sub(summary.TotalValue),
	})
}

// PortfolioAllocation godoc
// @Summary Portfolio allocation
// @Description Share of total value per asset, largest first
// @Tags portfolio
// @Produce json
// @Success 200 {array} portfolio.Slice
// @Router /api/portfolio/allocation [get]
func (c *Controller) PortfolioAllocation(ctx *gin.Context) {
	summary, ok := c.aggregate(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, portfolio.Allocation(summary.Assets))
}

func (c *Controller) aggregate(ctx *gin.Context) (portfolio.Summary, bool) {
	assets, err := c.repo.GetAllAssets()
	if err != nil {
		internalError(ctx, "failed to fetch assets")
		return portfolio.Summary{}, false
	}
	return portfolio.Aggregate(assets, c.priceLookup()), true
}
