package controller

import (
	"context"

	"pixeltrader/internal/cloudsync"
	"pixeltrader/internal/confirm"
	"pixeltrader/internal/market"
	"pixeltrader/internal/models"
	"pixeltrader/internal/repo"
	"pixeltrader/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PriceService serves the tracked USD prices.
type PriceService interface {
	Prices() map[string]float64
	Price(symbol string) (decimal.Decimal, bool)
	Status() market.Status
	Refresh() error
}

type MarketFeed interface {
	Snapshot() market.Snapshot
	Ticker(symbol string) (market.Ticker, bool)
	Status() market.Status
	FetchDetailedStats(ctx context.Context, symbol string) error
}

type SyncBridge interface {
	Status() cloudsync.Status
	Push(ctx context.Context) error
	NotifyLocalChange()
}

type BackupRelay interface {
	Status() service.BackupStatus
	NotifyChange()
	Pull(ctx context.Context) ([]models.Asset, error)
}

var (
	_ PriceService = (*service.LivePriceService)(nil)
	_ MarketFeed   = (*market.Feed)(nil)
	_ SyncBridge   = (*cloudsync.Bridge)(nil)
	_ BackupRelay  = (*service.BackupService)(nil)
)

type Controller struct {
	repo   *repo.Repository
	prices PriceService
	feed   MarketFeed
	sync   SyncBridge
	backup BackupRelay
	guard  *confirm.Guard
	logger zerolog.Logger
}

type Option func(*Controller)

func WithRepository(r *repo.Repository) Option {
	return func(c *Controller) {
		c.repo = r
	}
}

func WithPrices(p PriceService) Option {
	return func(c *Controller) {
		c.prices = p
	}
}

func WithFeed(f MarketFeed) Option {
	return func(c *Controller) {
		c.feed = f
	}
}

func WithSync(s SyncBridge) Option {
	return func(c *Controller) {
		c.sync = s
	}
}

func WithBackup(b BackupRelay) Option {
	return func(c *Controller) {
		c.backup = b
	}
}

func WithConfirmGuard(g *confirm.Guard) Option {
	return func(c *Controller) {
		c.guard = g
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = l.With().Str("component", "controller").Logger()
	}
}

func New(opts ...Option) (*Controller, error) {
	c := &Controller{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.repo == nil {
		return nil, ErrNilRepository
	}
	if c.guard == nil {
		c.guard = confirm.New(confirm.DefaultWindow)
	}
	return c, nil
}

// assetsChanged fans a local write out to everything mirroring the asset
// list.
func (c *Controller) assetsChanged() {
	if c.sync != nil {
		c.sync.NotifyLocalChange()
	}
	if c.backup != nil {
		c.backup.NotifyChange()
	}
	if c.prices != nil {
		if err := c.prices.Refresh(); err != nil {
			c.logger.Warn().Err(err).Msg("price refresh failed")
		}
	}
}
