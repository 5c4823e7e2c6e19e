package controller

import (
	"net/http"

	"pixeltrader/internal/cloudsync"
	"pixeltrader/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type SyncStatusResponse struct {
	Sync   *cloudsync.Status     `json:"sync"`
	Backup *service.BackupStatus `json:"backup"`
}

type PullResponse struct {
	Assets int `json:"assets"`
}

// SyncStatus godoc
// @Summary Sync and backup status
// @Description Fields are null when the matching integration is not configured
// @Tags sync
// @Produce json
// @Success 200 {object} SyncStatusResponse
// @Router /api/sync/status [get]
func (c *Controller) SyncStatus(ctx *gin.Context) {
	var resp SyncStatusResponse
	if c.sync != nil {
		st := c.sync.Status()
		resp.Sync = &st
	}
	if c.backup != nil {
		st := c.backup.Status()
		resp.Backup = &st
	}
	ctx.JSON(http.StatusOK, resp)
}

// SyncPush godoc
// @Summary Push the asset list now
// @Tags sync
// @Produce json
// @Success 200 {object} cloudsync.Status
// @Failure 502 {object} APIError
// @Failure 503 {object} APIError
// @Router /api/sync/push [post]
func (c *Controller) SyncPush(ctx *gin.Context) {
	if c.sync == nil {
		serviceUnavailable(ctx, "sync not configured")
		return
	}
	if err := c.sync.Push(ctx.Request.Context()); err != nil {
		if errors.Is(err, cloudsync.ErrNotStarted) {
			serviceUnavailable(ctx, "sync not started")
			return
		}
		badGateway(ctx, "push failed", err.Error())
		return
	}
	ctx.JSON(http.StatusOK, c.sync.Status())
}

// BackupPull godoc
// @Summary Restore from the latest chat backup
// @Description Replace every local asset with the newest backup found in the chat
// @Tags sync
// @Produce json
// @Success 200 {object} PullResponse
// @Failure 502 {object} APIError
// @Failure 503 {object} APIError
// @Router /api/backup/pull [post]
func (c *Controller) BackupPull(ctx *gin.Context) {
	if c.backup == nil {
		serviceUnavailable(ctx, "backup not configured")
		return
	}

	assets, err := c.backup.Pull(ctx.Request.Context())
	if err != nil {
		badGateway(ctx, "pull failed", err.Error())
		return
	}
	if err := c.repo.ReplaceAssets(assets); err != nil {
		internalError(ctx, "failed to replace assets")
		return
	}

	// the restored list goes to the sync remote but is not echoed back
	// to the chat it came from
	if c.sync != nil {
		c.sync.NotifyLocalChange()
	}
	if c.prices != nil {
		if err := c.prices.Refresh(); err != nil {
			c.logger.Warn().Err(err).Msg("price refresh failed")
		}
	}
	ctx.JSON(http.StatusOK, PullResponse{Assets: len(assets)})
}
