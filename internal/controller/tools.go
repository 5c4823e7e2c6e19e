package controller

import (
	"net/http"

	"pixeltrader/internal/calc"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type PositionSizeRequest struct {
	Risk  float64 `json:"risk"`
	Entry float64 `json:"entry"`
	Stop  float64 `json:"stop"`
}

type KellyRequest struct {
	WinRatePct float64 `json:"win_rate_pct"`
	RewardRisk float64 `json:"reward_risk"`
}

type DrawdownRequest struct {
	LossPct float64 `json:"loss_pct"`
}

type AverageDownRequest struct {
	Quantity float64 `json:"quantity"`
	Average  float64 `json:"average"`
	Price    float64 `json:"price"`
	Target   float64 `json:"target"`
}

type CompoundRequest struct {
	Principal float64 `json:"principal"`
	RatePct   float64 `json:"rate_pct"`
	Periods   float64 `json:"periods"`
}

type RuinRequest struct {
	WinRatePct float64 `json:"win_rate_pct"`
	RewardRisk float64 `json:"reward_risk"`
	RiskPct    float64 `json:"risk_pct"`
}

type ToolResult struct {
	Result     float64 `json:"result"`
	Impossible bool    `json:"impossible,omitempty"`
}

// toolHandler binds T, runs fn and maps calculator errors: invalid input
// is a 400, an unreachable target is a 200 with impossible set.
func toolHandler[T any](fn func(T) (float64, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req T
		if err := ctx.ShouldBindJSON(&req); err != nil {
			badRequestWithDetails(ctx, "invalid input", err.Error())
			return
		}
		v, err := fn(req)
		switch {
		case errors.Is(err, calc.ErrImpossible):
			ctx.JSON(http.StatusOK, ToolResult{Impossible: true})
		case err != nil:
			badRequest(ctx, err.Error())
		default:
			ctx.JSON(http.StatusOK, ToolResult{Result: v})
		}
	}
}

// PositionSize godoc
// @Summary Position size for a fixed risk
// @Tags tools
// @Accept json
// @Produce json
// @Param body body PositionSizeRequest true "Inputs"
// @Success 200 {object} ToolResult
// @Failure 400 {object} APIError
// @Router /api/tools/position-size [post]
func (c *Controller) PositionSize(ctx *gin.Context) {
	toolHandler(func(r PositionSizeRequest) (float64, error) {
		return calc.PositionSize(r.Risk, r.Entry, r.Stop)
	})(ctx)
}

// Kelly godoc
// @Summary Kelly fraction in percent
// @Tags tools
// @Accept json
// @Produce json
// @Param body body KellyRequest true "Inputs"
// @Success 200 {object} ToolResult
// @Failure 400 {object} APIError
// @Router /api/tools/kelly [post]
func (c *Controller) Kelly(ctx *gin.Context) {
	toolHandler(func(r KellyRequest) (float64, error) {
		return calc.Kelly(r.WinRatePct, r.RewardRisk)
	})(ctx)
}

// Drawdown godoc
// @Summary Gain needed to recover a drawdown
// @Tags tools
// @Accept json
// @Produce json
// @Param body body DrawdownRequest true "Inputs"
// @Success 200 {object} ToolResult
// @Failure 400 {object} APIError
// @Router /api/tools/drawdown [post]
func (c *Controller) Drawdown(ctx *gin.Context) {
	toolHandler(func(r DrawdownRequest) (float64, error) {
		return calc.DrawdownRecovery(r.LossPct)
	})(ctx)
}

// AverageDown godoc
// @Summary Units to buy to reach a target average
// @Tags tools
// @Accept json
// @Produce json
// @Param body body AverageDownRequest true "Inputs"
// @Success 200 {object} ToolResult
// @Failure 400 {object} APIError
// @Router /api/tools/average-down [post]
func (c *Controller) AverageDown(ctx *gin.Context) {
	toolHandler(func(r AverageDownRequest) (float64, error) {
		return calc.AverageDown(r.Quantity, r.Average, r.Price, r.Target)
	})(ctx)
}

// Compound godoc
// @Summary Compound growth
// @Tags tools
// @Accept json
// @Produce json
// @Param body body CompoundRequest true "Inputs"
// @Success 200 {object} ToolResult
// @Failure 400 {object} APIError
// @Router /api/tools/compound [post]
func (c *Controller) Compound(ctx *gin.Context) {
	toolHandler(func(r CompoundRequest) (float64, error) {
		return calc.Compound(r.Principal, r.RatePct, r.Periods)
	})(ctx)
}

// Ruin godoc
// @Summary Expectancy and steps to ruin
// @Tags tools
// @Accept json
// @Produce json
// @Param body body RuinRequest true "Inputs"
// @Success 200 {object} calc.RuinStats
// @Failure 400 {object} APIError
// @Router /api/tools/ruin [post]
func (c *Controller) Ruin(ctx *gin.Context) {
	var req RuinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}
	stats, err := calc.Ruin(req.WinRatePct, req.RewardRisk, req.RiskPct)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
