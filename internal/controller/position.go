package controller

import (
	"net/http"

	"pixeltrader/internal/portfolio"
	"pixeltrader/internal/position"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PositionResponse struct {
	portfolio.Metric
	Advice portfolio.Advice `json:"advice"`
}

type ProjectionRequest struct {
	Mode  string          `json:"mode"`
	Price decimal.Decimal `json:"price"`
	Value decimal.Decimal `json:"value"`
}

// GetPosition godoc
// @Summary Current position of an asset
// @Description Holdings, average cost, realized and unrealized P&L with advice
// @Tags positions
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} PositionResponse
// @Failure 404 {object} APIError
// @Router /api/assets/{id}/position [get]
func (c *Controller) GetPosition(ctx *gin.Context) {
	asset, ok := c.loadAsset(ctx)
	if !ok {
		return
	}

	prices := c.priceLookup()
	m := portfolio.Value(*asset, prices)

	// an unpriced portfolio is never flagged as short on stablecoins
	stableShare := decimal.NewFromInt(100)
	if all, err := c.repo.GetAllAssets(); err == nil {
		if summary := portfolio.Aggregate(all, prices); summary.TotalValue.IsPositive() {
			stableShare = portfolio.StableShare(summary.Assets)
		}
	}

	ctx.JSON(http.StatusOK, PositionResponse{Metric: m, Advice: portfolio.Advise(m, stableShare)})
}

// ProjectPosition godoc
// @Summary Simulate a trade
// @Description Project a buy by amount or quantity, or the sell needed to recover cost (risk_free)
// @Tags positions
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Param projection body ProjectionRequest true "Scenario"
// @Success 200 {object} position.Projection
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/assets/{id}/projection [post]
func (c *Controller) ProjectPosition(ctx *gin.Context) {
	var req ProjectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}
	mode, err := position.ParseMode(req.Mode)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	asset, ok := c.loadAsset(ctx)
	if !ok {
		return
	}

	proj, err := position.Project(position.Compute(asset.Transactions), mode, req.Price, req.Value)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}
	ctx.JSON(http.StatusOK, proj)
}

func (c *Controller) priceLookup() portfolio.PriceLookup {
	if c.prices == nil {
		return portfolio.PriceMap{}
	}
	return c.prices
}
