package controller

import (
	"net/http"
	"strings"

	"pixeltrader/internal/models"
	"pixeltrader/internal/repo"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CreateAssetRequest struct {
	Symbol       string               `json:"symbol" binding:"required"`
	Name         string               `json:"name"`
	ExternalID   string               `json:"cgId"`
	Transactions []models.Transaction `json:"transactions"`
}

type UpdateAssetRequest struct {
	Name       string `json:"name"`
	ExternalID string `json:"cgId"`
}

type DeleteResponse struct {
	Armed   bool   `json:"armed"`
	Message string `json:"message"`
}

// ListAssets godoc
// @Summary List all assets
// @Description Get every asset with its transaction log
// @Tags assets
// @Produce json
// @Success 200 {array} models.Asset
// @Failure 500 {object} APIError
// @Router /api/assets [get]
func (c *Controller) ListAssets(ctx *gin.Context) {
	assets, err := c.repo.GetAllAssets()
	if err != nil {
		internalError(ctx, "failed to fetch assets")
		return
	}
	ctx.JSON(http.StatusOK, assets)
}

// GetAsset godoc
// @Summary Get an asset by ID
// @Tags assets
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} models.Asset
// @Failure 404 {object} APIError
// @Router /api/assets/{id} [get]
func (c *Controller) GetAsset(ctx *gin.Context) {
	asset, ok := c.loadAsset(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, asset)
}

// CreateAsset godoc
// @Summary Create a new asset
// @Description Create an asset, optionally with an initial transaction log
// @Tags assets
// @Accept json
// @Produce json
// @Param asset body CreateAssetRequest true "Asset data"
// @Success 201 {object} models.Asset
// @Failure 400 {object} APIError
// @Failure 409 {object} APIError
// @Router /api/assets [post]
func (c *Controller) CreateAsset(ctx *gin.Context) {
	var req CreateAssetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}

	asset := models.Asset{
		Symbol:       models.NormalizeSymbol(req.Symbol),
		Name:         strings.TrimSpace(req.Name),
		ExternalID:   strings.TrimSpace(req.ExternalID),
		Transactions: req.Transactions,
	}
	if err := models.Validator().Struct(asset); err != nil {
		badRequestWithDetails(ctx, "invalid asset", err.Error())
		return
	}
	for i := range asset.Transactions {
		tx := &asset.Transactions[i]
		tx.ID, tx.AssetID = "", ""
		if err := tx.Validate(); err != nil {
			badRequestWithDetails(ctx, "invalid transaction", err.Error())
			return
		}
	}

	if err := c.repo.CreateAsset(&asset); err != nil {
		if errors.Is(err, repo.ErrDuplicateSymbol) {
			conflict(ctx, "asset symbol already exists")
			return
		}
		internalError(ctx, "failed to create asset")
		return
	}

	c.assetsChanged()
	ctx.JSON(http.StatusCreated, asset)
}

// UpdateAsset godoc
// @Summary Update asset metadata
// @Description Change the display name or aggregator id; the symbol is fixed
// @Tags assets
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Param asset body UpdateAssetRequest true "Metadata"
// @Success 200 {object} models.Asset
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/assets/{id} [put]
func (c *Controller) UpdateAsset(ctx *gin.Context) {
	var req UpdateAssetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}

	id := ctx.Param("id")
	if err := c.repo.UpdateAssetMeta(id, strings.TrimSpace(req.Name), strings.TrimSpace(req.ExternalID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(ctx, "asset not found")
			return
		}
		internalError(ctx, "failed to update asset")
		return
	}

	c.assetsChanged()
	c.GetAsset(ctx)
}

// DeleteAsset godoc
// @Summary Delete an asset
// @Description Two-step delete: the first call arms it, a second call within the confirm window deletes
// @Tags assets
// @Param id path string true "Asset ID"
// @Success 202 {object} DeleteResponse
// @Success 204
// @Failure 404 {object} APIError
// @Router /api/assets/{id} [delete]
func (c *Controller) DeleteAsset(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := c.repo.GetAssetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(ctx, "asset not found")
			return
		}
		internalError(ctx, "failed to fetch asset")
		return
	}

	if !c.guard.Arm("asset:" + id) {
		ctx.JSON(http.StatusAccepted, DeleteResponse{
			Armed:   true,
			Message: "repeat within " + c.guard.Window().String() + " to delete",
		})
		return
	}

	if err := c.repo.DeleteAsset(id); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		internalError(ctx, "failed to delete asset")
		return
	}

	c.assetsChanged()
	ctx.Status(http.StatusNoContent)
}

func (c *Controller) loadAsset(ctx *gin.Context) (*models.Asset, bool) {
	asset, err := c.repo.GetAssetByID(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(ctx, "asset not found")
			return nil, false
		}
		internalError(ctx, "failed to fetch asset")
		return nil, false
	}
	return asset, true
}
