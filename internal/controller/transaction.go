package controller

import (
	"net/http"
	"strconv"

	"pixeltrader/internal/models"
	"pixeltrader/internal/repo"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ListTransactions godoc
// @Summary List transactions
// @Description Page through transactions across assets, newest first
// @Tags transactions
// @Produce json
// @Param asset_id query string false "Asset ID"
// @Param type query string false "BUY or SELL"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} repo.TransactionListResult
// @Router /api/transactions [get]
func (c *Controller) ListTransactions(ctx *gin.Context) {
	filter := repo.TransactionFilter{
		AssetID:   ctx.Query("asset_id"),
		Type:      models.TransactionType(ctx.Query("type")),
		StartDate: ctx.Query("start_date"),
		EndDate:   ctx.Query("end_date"),
	}
	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(ctx.Query("offset")); err == nil {
		filter.Offset = offset
	}

	result, err := c.repo.ListTransactions(filter)
	if err != nil {
		internalError(ctx, "failed to fetch transactions")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ListAssetTransactions godoc
// @Summary List an asset's transactions
// @Description The transaction log in insertion order
// @Tags transactions
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {array} models.Transaction
// @Failure 404 {object} APIError
// @Router /api/assets/{id}/transactions [get]
func (c *Controller) ListAssetTransactions(ctx *gin.Context) {
	asset, ok := c.loadAsset(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, asset.Transactions)
}

// CreateTransaction godoc
// @Summary Record a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Param transaction body models.Transaction true "Transaction"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/assets/{id}/transactions [post]
func (c *Controller) CreateTransaction(ctx *gin.Context) {
	var tx models.Transaction
	if err := ctx.ShouldBindJSON(&tx); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}
	tx.ID = ""
	tx.AssetID = ctx.Param("id")
	if err := tx.Validate(); err != nil {
		badRequestWithDetails(ctx, "invalid transaction", err.Error())
		return
	}

	if err := c.repo.CreateTransaction(&tx); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(ctx, "asset not found")
			return
		}
		internalError(ctx, "failed to create transaction")
		return
	}

	c.assetsChanged()
	ctx.JSON(http.StatusCreated, tx)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Description The first call arms the delete; a second call inside the confirm window removes the transaction.
// @Tags transactions
// @Param id path string true "Asset ID"
// @Param txid path string true "Transaction ID"
// @Success 202 {object} DeleteResponse
// @Success 204
// @Failure 404 {object} APIError
// @Router /api/assets/{id}/transactions/{txid} [delete]
func (c *Controller) DeleteTransaction(ctx *gin.Context) {
	assetID, txID := ctx.Param("id"), ctx.Param("txid")
	tx, err := c.repo.GetTransactionByID(txID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(ctx, "transaction not found")
			return
		}
		internalError(ctx, "failed to fetch transaction")
		return
	}
	if tx.AssetID != assetID {
		notFound(ctx, "transaction not found")
		return
	}

	if !c.guard.Arm("tx:" + txID) {
		ctx.JSON(http.StatusAccepted, DeleteResponse{
			Armed:   true,
			Message: "repeat within " + c.guard.Window().String() + " to delete",
		})
		return
	}

	if err := c.repo.DeleteTransaction(assetID, txID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(ctx, "transaction not found")
			return
		}
		internalError(ctx, "failed to delete transaction")
		return
	}

	c.assetsChanged()
	ctx.Status(http.StatusNoContent)
}
