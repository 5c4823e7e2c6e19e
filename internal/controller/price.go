package controller

import (
	"net/http"
	"strings"

	"pixeltrader/internal/market"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PricesResponse struct {
	Prices map[string]float64 `json:"prices"`
	Status market.Status      `json:"status"`
}

type PriceResponse struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// ListPrices godoc
// @Summary List current prices
// @Description USD prices for every tracked asset
// @Tags prices
// @Produce json
// @Success 200 {object} PricesResponse
// @Failure 503 {object} APIError
// @Router /api/prices [get]
func (c *Controller) ListPrices(ctx *gin.Context) {
	if c.prices == nil {
		serviceUnavailable(ctx, "price service not available")
		return
	}
	ctx.JSON(http.StatusOK, PricesResponse{Prices: c.prices.Prices(), Status: c.prices.Status()})
}

// GetPrice godoc
// @Summary Get price for a specific asset
// @Tags prices
// @Produce json
// @Param symbol path string true "Asset symbol (e.g., BTC, ETH)"
// @Success 200 {object} PriceResponse
// @Failure 404 {object} APIError
// @Router /api/prices/{symbol} [get]
func (c *Controller) GetPrice(ctx *gin.Context) {
	if c.prices == nil {
		serviceUnavailable(ctx, "price service not available")
		return
	}
	symbol := strings.ToUpper(ctx.Param("symbol"))

	price, ok := c.prices.Price(symbol)
	if !ok {
		notFound(ctx, "price not found for symbol")
		return
	}
	ctx.JSON(http.StatusOK, PriceResponse{Symbol: symbol, Price: price})
}
