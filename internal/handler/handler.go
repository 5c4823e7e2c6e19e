package handler

import (
	"pixeltrader/internal/confirm"
	"pixeltrader/internal/controller"
	"pixeltrader/internal/repo"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	ErrNilEngine     = errors.New("engine is required")
	ErrNilRepository = errors.New("repository is required")
)

type Handler struct {
	engine     *gin.Engine
	repository *repo.Repository
	hub        *controller.Hub
	prices     controller.PriceService
	feed       controller.MarketFeed
	sync       controller.SyncBridge
	backup     controller.BackupRelay
	guard      *confirm.Guard
	logger     zerolog.Logger
	swagger    bool
}

func (h *Handler) IsValid() error {
	if h.engine == nil {
		return ErrNilEngine
	}
	if h.repository == nil {
		return ErrNilRepository
	}
	return nil
}

type Option func(*Handler)

func WithEngine(engine *gin.Engine) Option {
	return func(h *Handler) {
		h.engine = engine
	}
}

func WithRepository(repository *repo.Repository) Option {
	return func(h *Handler) {
		h.repository = repository
	}
}

// WithPriceHub enables /api/prices/stream.
func WithPriceHub(hub *controller.Hub) Option {
	return func(h *Handler) {
		h.hub = hub
	}
}

func WithPrices(p controller.PriceService) Option {
	return func(h *Handler) {
		h.prices = p
	}
}

func WithFeed(f controller.MarketFeed) Option {
	return func(h *Handler) {
		h.feed = f
	}
}

func WithSync(s controller.SyncBridge) Option {
	return func(h *Handler) {
		h.sync = s
	}
}

func WithBackup(b controller.BackupRelay) Option {
	return func(h *Handler) {
		h.backup = b
	}
}

func WithConfirmGuard(g *confirm.Guard) Option {
	return func(h *Handler) {
		h.guard = g
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

func WithSwagger() Option {
	return func(h *Handler) {
		h.swagger = true
	}
}

func New(opts ...Option) (*Handler, error) {
	h := &Handler{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.IsValid(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Handler) Setup() error {
	ctrlOpts := []controller.Option{
		controller.WithRepository(h.repository),
		controller.WithConfirmGuard(h.guard),
		controller.WithLogger(h.logger),
	}
	if h.prices != nil {
		ctrlOpts = append(ctrlOpts, controller.WithPrices(h.prices))
	}
	if h.feed != nil {
		ctrlOpts = append(ctrlOpts, controller.WithFeed(h.feed))
	}
	if h.sync != nil {
		ctrlOpts = append(ctrlOpts, controller.WithSync(h.sync))
	}
	if h.backup != nil {
		ctrlOpts = append(ctrlOpts, controller.WithBackup(h.backup))
	}

	ctrl, err := controller.New(ctrlOpts...)
	if err != nil {
		return err
	}

	if h.swagger {
		h.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := h.engine.Group("/api")

	assets := api.Group("/assets")
	assets.GET("", ctrl.ListAssets)
	assets.POST("", ctrl.CreateAsset)
	assets.GET("/:id", ctrl.GetAsset)
	assets.PUT("/:id", ctrl.UpdateAsset)
	assets.DELETE("/:id", ctrl.DeleteAsset)
	assets.GET("/:id/transactions", ctrl.ListAssetTransactions)
	assets.POST("/:id/transactions", ctrl.CreateTransaction)
	assets.DELETE("/:id/transactions/:txid", ctrl.DeleteTransaction)
	assets.GET("/:id/position", ctrl.GetPosition)
	assets.POST("/:id/projection", ctrl.ProjectPosition)
	assets.GET("/:id/export", ctrl.ExportTransactions)
	assets.POST("/:id/import/preview", ctrl.PreviewImport)
	assets.POST("/:id/import", ctrl.ImportTransactions)

	api.GET("/transactions", ctrl.ListTransactions)

	imports := api.Group("/imports")
	imports.GET("", ctrl.ListImportLogs)
	imports.GET("/:id", ctrl.GetImportLog)

	api.POST("/receipts/parse", ctrl.ParseReceipt)

	portfolio := api.Group("/portfolio")
	portfolio.GET("/summary", ctrl.PortfolioSummary)
	portfolio.GET("/stress", ctrl.PortfolioStress)
	portfolio.GET("/allocation", ctrl.PortfolioAllocation)

	mkt := api.Group("/market")
	mkt.GET("", ctrl.ListMarket)
	mkt.GET("/quotes", ctrl.ListQuotes)
	mkt.GET("/status", ctrl.MarketStatus)
	mkt.GET("/favorites", ctrl.ListFavorites)
	mkt.PUT("/favorites/:symbol", ctrl.AddFavorite)
	mkt.DELETE("/favorites/:symbol", ctrl.RemoveFavorite)
	mkt.GET("/:symbol", ctrl.GetTicker)
	mkt.POST("/:symbol/details", ctrl.FetchDetails)

	prices := api.Group("/prices")
	if h.hub != nil {
		prices.GET("/stream", controller.SSEPrices(h.hub))
	}
	prices.GET("", ctrl.ListPrices)
	prices.GET("/:symbol", ctrl.GetPrice)

	tools := api.Group("/tools")
	tools.POST("/position-size", ctrl.PositionSize)
	tools.POST("/kelly", ctrl.Kelly)
	tools.POST("/drawdown", ctrl.Drawdown)
	tools.POST("/average-down", ctrl.AverageDown)
	tools.POST("/compound", ctrl.Compound)
	tools.POST("/ruin", ctrl.Ruin)

	api.GET("/sync/status", ctrl.SyncStatus)
	api.POST("/sync/push", ctrl.SyncPush)
	api.POST("/backup/pull", ctrl.BackupPull)

	return nil
}
