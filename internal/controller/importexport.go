package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"pixeltrader/internal/importexport"
	"pixeltrader/internal/models"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ImportRequest struct {
	Text   string `json:"text" binding:"required"`
	Source string `json:"source"`
}

type ImportResponse struct {
	ID       int64                  `json:"id"`
	Imported int                    `json:"imported"`
	Failed   int                    `json:"failed"`
	Total    int                    `json:"total"`
	Status   string                 `json:"status"`
	Format   string                 `json:"format"`
	Skipped  []importexport.Skipped `json:"skipped,omitempty"`
}

type ReceiptRequest struct {
	Text string                 `json:"text" binding:"required"`
	Base importexport.Candidate `json:"base"`
}

// ExportTransactions godoc
// @Summary Export an asset's transactions
// @Tags data
// @Produce json
// @Produce text/markdown
// @Param id path string true "Asset ID"
// @Param format query string false "json or md"
// @Success 200 {file} file
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/assets/{id}/export [get]
func (c *Controller) ExportTransactions(ctx *gin.Context) {
	format := strings.ToLower(ctx.DefaultQuery("format", importexport.FormatJSON))

	asset, ok := c.loadAsset(ctx)
	if !ok {
		return
	}

	data, err := importexport.Export(asset.Transactions, format)
	if err != nil {
		if errors.Is(err, importexport.ErrUnknownFormat) {
			badRequest(ctx, "format must be json or md")
			return
		}
		internalError(ctx, "failed to export transactions")
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", importexport.FileName(asset.Symbol, format)))
	ctx.Data(http.StatusOK, importexport.ContentType(format), data)
}

// PreviewImport godoc
// @Summary Preview an import
// @Description Parse pasted JSON or delimited rows without storing anything
// @Tags data
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Param body body ImportRequest true "Pasted text"
// @Success 200 {object} importexport.ImportResult
// @Failure 400 {object} APIError
// @Router /api/assets/{id}/import/preview [post]
func (c *Controller) PreviewImport(ctx *gin.Context) {
	var req ImportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}
	if _, ok := c.loadAsset(ctx); !ok {
		return
	}
	ctx.JSON(http.StatusOK, importexport.Parse(req.Text))
}

// ImportTransactions godoc
// @Summary Import transactions
// @Description Append every valid parsed row to the asset; skipped rows are kept in the import log
// @Tags data
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Param body body ImportRequest true "Pasted text"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/assets/{id}/import [post]
func (c *Controller) ImportTransactions(ctx *gin.Context) {
	var req ImportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}
	asset, ok := c.loadAsset(ctx)
	if !ok {
		return
	}

	parsed := importexport.Parse(req.Text)
	rows := make([]*models.Transaction, len(parsed.Rows))
	for i := range parsed.Rows {
		rows[i] = &parsed.Rows[i]
	}

	imported, err := c.repo.CreateTransactions(asset.ID, rows)
	if err != nil {
		internalError(ctx, "failed to store transactions")
		return
	}

	resp := ImportResponse{
		Imported: imported,
		Failed:   len(parsed.Skipped),
		Total:    imported + len(parsed.Skipped),
		Format:   parsed.Format,
		Skipped:  parsed.Skipped,
	}
	switch {
	case resp.Failed == 0:
		resp.Status = models.ImportStatusCompleted
	case imported == 0:
		resp.Status = models.ImportStatusFailed
	default:
		resp.Status = models.ImportStatusPartial
	}

	source := req.Source
	if source == "" {
		source = "paste"
	}
	log := &models.ImportLog{
		AssetID:      asset.ID,
		Source:       source,
		Format:       parsed.Format,
		TotalRows:    resp.Total,
		ImportedRows: imported,
		FailedRows:   resp.Failed,
		Status:       resp.Status,
	}
	if len(parsed.Skipped) > 0 {
		if data, err := json.Marshal(parsed.Skipped); err == nil {
			log.FailedData = string(data)
		}
	}
	if err := c.repo.CreateImportLog(log); err != nil {
		c.logger.Error().Err(err).Str("asset", asset.Symbol).Msg("failed to record import log")
	}
	resp.ID = log.ID

	if imported > 0 {
		c.assetsChanged()
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListImportLogs godoc
// @Summary List import logs
// @Tags data
// @Produce json
// @Param asset_id query string false "Asset ID"
// @Success 200 {array} models.ImportLog
// @Router /api/imports [get]
func (c *Controller) ListImportLogs(ctx *gin.Context) {
	logs, err := c.repo.ListImportLogs(ctx.Query("asset_id"))
	if err != nil {
		internalError(ctx, "failed to fetch import logs")
		return
	}
	ctx.JSON(http.StatusOK, logs)
}

// GetImportLog godoc
// @Summary Get an import log
// @Tags data
// @Produce json
// @Param id path int true "Import log ID"
// @Success 200 {object} models.ImportLog
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/imports/{id} [get]
func (c *Controller) GetImportLog(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		badRequest(ctx, "invalid import log id")
		return
	}

	log, err := c.repo.GetImportLogByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(ctx, "import log not found")
			return
		}
		internalError(ctx, "failed to fetch import log")
		return
	}
	ctx.JSON(http.StatusOK, log)
}

// ParseReceipt godoc
// @Summary Extract a trade from receipt text
// @Description Fill type, price, amount and date from OCR text; fields not found keep the base values
// @Tags data
// @Accept json
// @Produce json
// @Param body body ReceiptRequest true "Receipt text"
// @Success 200 {object} importexport.Candidate
// @Failure 400 {object} APIError
// @Router /api/receipts/parse [post]
func (c *Controller) ParseReceipt(ctx *gin.Context) {
	var req ReceiptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}
	ctx.JSON(http.StatusOK, importexport.ExtractReceipt(req.Text, req.Base))
}
