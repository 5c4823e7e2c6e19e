package controller

import (
	"net/http"
	"strconv"
	"strings"

	"pixeltrader/internal/market"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type MarketResponse struct {
	Status  market.Status   `json:"status"`
	Total   int             `json:"total"`
	Tickers []market.Ticker `json:"tickers"`
}

type MarketStatusResponse struct {
	Status  market.Status `json:"status"`
	Symbols int           `json:"symbols"`
}

// ListMarket godoc
// @Summary Market screener
// @Description Filter and sort the live ticker map
// @Tags market
// @Produce json
// @Param quote query string false "Quote asset, ALL for every quote"
// @Param search query string false "Symbol substring"
// @Param favorites query bool false "Only favorites"
// @Param sort query string false "symbol, price, volume, change1h, change4h, change24h, change7d, change30d"
// @Param order query string false "asc or desc"
// @Param limit query int false "Max rows"
// @Success 200 {object} MarketResponse
// @Failure 503 {object} APIError
// @Router /api/market [get]
func (c *Controller) ListMarket(ctx *gin.Context) {
	if c.feed == nil {
		serviceUnavailable(ctx, "market feed not available")
		return
	}

	q := market.Query{
		Quote:         ctx.DefaultQuery("quote", "USDT"),
		Search:        ctx.Query("search"),
		FavoritesOnly: ctx.Query("favorites") == "true",
		Sort:          market.ParseSortField(ctx.Query("sort")),
		Ascending:     strings.EqualFold(ctx.Query("order"), "asc"),
	}
	if q.FavoritesOnly {
		favs, err := c.repo.ListFavorites()
		if err != nil {
			internalError(ctx, "failed to fetch favorites")
			return
		}
		q.Favorites = favs
	}

	tickers := market.Screen(c.feed.Snapshot(), q)
	total := len(tickers)
	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil && limit > 0 && limit < total {
		tickers = tickers[:limit]
	}

	ctx.JSON(http.StatusOK, MarketResponse{Status: c.feed.Status(), Total: total, Tickers: tickers})
}

// ListQuotes godoc
// @Summary Quote assets present in the market
// @Tags market
// @Produce json
// @Success 200 {array} string
// @Failure 503 {object} APIError
// @Router /api/market/quotes [get]
func (c *Controller) ListQuotes(ctx *gin.Context) {
	if c.feed == nil {
		serviceUnavailable(ctx, "market feed not available")
		return
	}
	ctx.JSON(http.StatusOK, market.QuoteAssets(c.feed.Snapshot()))
}

// MarketStatus godoc
// @Summary Market feed status
// @Tags market
// @Produce json
// @Success 200 {object} MarketStatusResponse
// @Router /api/market/status [get]
func (c *Controller) MarketStatus(ctx *gin.Context) {
	if c.feed == nil {
		ctx.JSON(http.StatusOK, MarketStatusResponse{Status: market.StatusIdle})
		return
	}
	ctx.JSON(http.StatusOK, MarketStatusResponse{Status: c.feed.Status(), Symbols: len(c.feed.Snapshot())})
}

// GetTicker godoc
// @Summary Get one ticker
// @Tags market
// @Produce json
// @Param symbol path string true "Exchange symbol, e.g. BTCUSDT"
// @Success 200 {object} market.Ticker
// @Failure 404 {object} APIError
// @Router /api/market/{symbol} [get]
func (c *Controller) GetTicker(ctx *gin.Context) {
	if c.feed == nil {
		serviceUnavailable(ctx, "market feed not available")
		return
	}
	t, ok := c.feed.Ticker(ctx.Param("symbol"))
	if !ok {
		notFound(ctx, "symbol not found")
		return
	}
	ctx.JSON(http.StatusOK, t)
}

// FetchDetails godoc
// @Summary Load long-horizon stats
// @Description Fetch 1h, 4h, 7d and 30d changes for a symbol; concurrent requests for the same symbol are rejected
// @Tags market
// @Produce json
// @Param symbol path string true "Exchange symbol"
// @Success 200 {object} market.Ticker
// @Failure 404 {object} APIError
// @Failure 409 {object} APIError
// @Failure 502 {object} APIError
// @Router /api/market/{symbol}/details [post]
func (c *Controller) FetchDetails(ctx *gin.Context) {
	if c.feed == nil {
		serviceUnavailable(ctx, "market feed not available")
		return
	}

	symbol := strings.ToUpper(ctx.Param("symbol"))
	if err := c.feed.FetchDetailedStats(ctx.Request.Context(), symbol); err != nil {
		switch {
		case errors.Is(err, market.ErrEnrichmentInFlight):
			conflict(ctx, "details already loading")
		case errors.Is(err, market.ErrUnknownSymbol):
			notFound(ctx, "symbol not found")
		default:
			badGateway(ctx, "failed to load details", err.Error())
		}
		return
	}

	t, _ := c.feed.Ticker(symbol)
	ctx.JSON(http.StatusOK, t)
}

// ListFavorites godoc
// @Summary List favorite symbols
// @Tags market
// @Produce json
// @Success 200 {array} string
// @Router /api/market/favorites [get]
func (c *Controller) ListFavorites(ctx *gin.Context) {
	favs, err := c.repo.ListFavorites()
	if err != nil {
		internalError(ctx, "failed to fetch favorites")
		return
	}
	ctx.JSON(http.StatusOK, favs)
}

// AddFavorite godoc
// @Summary Pin a symbol
// @Tags market
// @Param symbol path string true "Exchange symbol"
// @Success 204
// @Router /api/market/favorites/{symbol} [put]
func (c *Controller) AddFavorite(ctx *gin.Context) {
	symbol := strings.TrimSpace(ctx.Param("symbol"))
	if symbol == "" {
		badRequest(ctx, "symbol is required")
		return
	}
	if err := c.repo.AddFavorite(symbol); err != nil {
		internalError(ctx, "failed to add favorite")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// RemoveFavorite godoc
// @Summary Unpin a symbol
// @Tags market
// @Param symbol path string true "Exchange symbol"
// @Success 204
// @Failure 404 {object} APIError
// @Router /api/market/favorites/{symbol} [delete]
func (c *Controller) RemoveFavorite(ctx *gin.Context) {
	if err := c.repo.RemoveFavorite(ctx.Param("symbol")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(ctx, "favorite not found")
			return
		}
		internalError(ctx, "failed to remove favorite")
		return
	}
	ctx.Status(http.StatusNoContent)
}
