package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"pixeltrader/internal/market"
	"pixeltrader/internal/models"
	"pixeltrader/internal/portfolio"
	tickerScheduler "pixeltrader/pkg/integrations/scheduler"
	"pixeltrader/pkg/pairs"
	"pixeltrader/pkg/types/cache"
	"pixeltrader/pkg/types/prices"
	"pixeltrader/pkg/types/pubsub"
	"pixeltrader/pkg/types/scheduler"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidLivePriceConfig = errors.New("invalid live price service config")

	_ portfolio.PriceLookup = (*LivePriceService)(nil)
	_ Feed                  = (*market.Feed)(nil)
)

// StatusPolling is reported instead of a feed status when prices come
// from the periodic aggregator fetch.
const StatusPolling market.Status = "polling"

type AssetRepository interface {
	GetAllAssets() ([]models.Asset, error)
}

// Feed is the part of the market feed the price service consumes.
type Feed interface {
	Subscribe(fn func(market.Snapshot)) (unsubscribe func())
	Status() market.Status
	InFlight(symbol string) bool
	RequestDetailedStats(symbol string) bool
}

// PriceUpdate is the payload published to the SSE topic.
type PriceUpdate struct {
	Prices map[string]float64 `json:"prices"`
	Status market.Status      `json:"status"`
}

type LivePriceService struct {
	ctx            context.Context
	logger         zerolog.Logger
	cache          cache.Cache[string, float64]
	feed           Feed
	priceFetcher   prices.PriceFetcher
	publisher      pubsub.LossyPublisher
	repo           AssetRepository
	enrichInterval time.Duration
	pollInterval   time.Duration
	syncInterval   time.Duration

	mu       sync.Mutex
	tracked  []prices.Asset
	lastSync time.Time
	latest   market.Snapshot
	status   market.Status

	unsubscribe func()
	schedulers  []scheduler.Scheduler
}

type LivePriceOption func(*LivePriceService)

func WithLivePriceContext(ctx context.Context) LivePriceOption {
	return func(s *LivePriceService) {
		s.ctx = ctx
	}
}

func WithLivePriceLogger(l zerolog.Logger) LivePriceOption {
	return func(s *LivePriceService) {
		s.logger = l.With().Str("component", "live_price").Logger()
	}
}

func WithLivePriceCache(c cache.Cache[string, float64]) LivePriceOption {
	return func(s *LivePriceService) {
		s.cache = c
	}
}

// WithLivePriceFeed drives prices from the streaming market feed.
func WithLivePriceFeed(f Feed) LivePriceOption {
	return func(s *LivePriceService) {
		s.feed = f
	}
}

// WithLivePriceFetcher switches to poll mode when no feed is set.
func WithLivePriceFetcher(f prices.PriceFetcher) LivePriceOption {
	return func(s *LivePriceService) {
		s.priceFetcher = f
	}
}

func WithLivePricePublisher(p pubsub.LossyPublisher) LivePriceOption {
	return func(s *LivePriceService) {
		s.publisher = p
	}
}

func WithLivePriceRepo(r AssetRepository) LivePriceOption {
	return func(s *LivePriceService) {
		s.repo = r
	}
}

func WithLivePriceEnrichInterval(d time.Duration) LivePriceOption {
	return func(s *LivePriceService) {
		s.enrichInterval = d
	}
}

func WithLivePricePollInterval(d time.Duration) LivePriceOption {
	return func(s *LivePriceService) {
		s.pollInterval = d
	}
}

func WithLivePriceSyncInterval(d time.Duration) LivePriceOption {
	return func(s *LivePriceService) {
		s.syncInterval = d
	}
}

func (s *LivePriceService) IsValid() error {
	switch {
	case s.ctx == nil:
		return errors.Wrap(ErrInvalidLivePriceConfig, "ctx cannot be nil")
	case s.cache == nil:
		return errors.Wrap(ErrInvalidLivePriceConfig, "cache cannot be nil")
	case s.feed == nil && s.priceFetcher == nil:
		return errors.Wrap(ErrInvalidLivePriceConfig, "feed or price fetcher is required")
	case s.publisher == nil:
		return errors.Wrap(ErrInvalidLivePriceConfig, "publisher cannot be nil")
	case s.repo == nil:
		return errors.Wrap(ErrInvalidLivePriceConfig, "repo cannot be nil")
	case s.enrichInterval <= 0 || s.pollInterval <= 0:
		return errors.Wrap(ErrInvalidLivePriceConfig, "intervals must be positive")
	default:
		return nil
	}
}

func NewLivePriceService(opts ...LivePriceOption) (*LivePriceService, error) {
	s := &LivePriceService{
		logger:         zerolog.Nop(),
		enrichInterval: scheduler.IntervalEnrich,
		pollInterval:   scheduler.IntervalMinute,
		syncInterval:   scheduler.IntervalMinute,
		status:         market.StatusIdle,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.IsValid(); err != nil {
		return nil, err
	}

	if s.feed != nil {
		enrich, err := tickerScheduler.New(
			tickerScheduler.WithName("enrich"),
			tickerScheduler.WithContext(s.ctx),
			tickerScheduler.WithLogger(s.logger),
			tickerScheduler.WithInterval(s.enrichInterval),
			tickerScheduler.WithHandler(s.enrichNext),
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create enrich scheduler")
		}
		s.schedulers = append(s.schedulers, enrich)
	} else {
		poll, err := tickerScheduler.New(
			tickerScheduler.WithName("price_poll"),
			tickerScheduler.WithContext(s.ctx),
			tickerScheduler.WithLogger(s.logger),
			tickerScheduler.WithInterval(s.pollInterval),
			tickerScheduler.WithImmediate(),
			tickerScheduler.WithHandler(s.poll),
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create poll scheduler")
		}
		s.schedulers = append(s.schedulers, poll)
	}

	return s, nil
}

func (s *LivePriceService) Start() error {
	if err := s.Refresh(); err != nil {
		s.logger.Error().Err(err).Msg("initial asset sync failed")
	}

	if s.feed != nil {
		s.unsubscribe = s.feed.Subscribe(s.onSnapshot)
	}
	for _, sched := range s.schedulers {
		if err := sched.Start(); err != nil {
			return err
		}
	}
	return nil
}

func (s *LivePriceService) Stop() {
	for _, sched := range s.schedulers {
		sched.Stop()
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Refresh reloads the tracked symbols from the repository. Call it after
// assets are added or removed.
func (s *LivePriceService) Refresh() error {
	assets, err := s.repo.GetAllAssets()
	if err != nil {
		return errors.Wrap(err, "failed to get assets")
	}

	tracked := make([]prices.Asset, 0, len(assets))
	keep := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		sym := strings.ToUpper(a.Symbol)
		tracked = append(tracked, prices.Asset{Symbol: sym, ExternalID: a.ExternalID})
		keep[sym] = struct{}{}
	}
	for _, sym := range s.cache.Keys() {
		if _, ok := keep[sym]; !ok {
			s.cache.Delete(sym)
		}
	}

	s.mu.Lock()
	s.tracked = tracked
	s.lastSync = time.Now()
	latest := s.latest
	s.mu.Unlock()

	if latest != nil {
		s.applySnapshot(latest)
	}
	s.logger.Debug().Int("count", len(tracked)).Msg("synced tracked assets")
	return nil
}

func (s *LivePriceService) trackedAssets() []prices.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]prices.Asset(nil), s.tracked...)
}

func (s *LivePriceService) onSnapshot(snap market.Snapshot) {
	s.mu.Lock()
	s.latest = snap
	stale := time.Since(s.lastSync) >= s.syncInterval
	s.mu.Unlock()

	if stale {
		if err := s.Refresh(); err != nil {
			s.logger.Error().Err(err).Msg("asset sync failed")
		}
	}

	s.applySnapshot(snap)
	s.setStatus(s.feed.Status())
	s.publish()
}

func (s *LivePriceService) applySnapshot(snap market.Snapshot) {
	raw := make(map[string]float64, len(snap))
	for sym, t := range snap {
		raw[sym] = t.Price.InexactFloat64()
	}
	router := pairs.NewRouter(raw)

	for _, a := range s.trackedAssets() {
		if usd, err := router.USD(a.Symbol); err == nil {
			s.cache.Set(a.Symbol, usd)
		}
	}
}

// enrichNext asks the feed for long-horizon stats of the first tracked
// pair still missing them.
func (s *LivePriceService) enrichNext() error {
	s.mu.Lock()
	snap := s.latest
	s.mu.Unlock()
	if snap == nil {
		return nil
	}

	for _, a := range s.trackedAssets() {
		pair := pairs.USDTPair(a.Symbol)
		t, ok := snap[pair]
		if !ok || t.Enriched() {
			continue
		}
		if s.feed.InFlight(pair) {
			return nil
		}
		s.feed.RequestDetailedStats(pair)
		return nil
	}
	return nil
}

func (s *LivePriceService) poll() error {
	if err := s.Refresh(); err != nil {
		return err
	}

	tracked := s.trackedAssets()
	if len(tracked) == 0 {
		return nil
	}

	batch := make([]*prices.Price, len(tracked))
	for i, a := range tracked {
		batch[i] = &prices.Price{Asset: a}
	}

	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()
	if err := s.priceFetcher.FetchMany(ctx, batch...); err != nil {
		s.setStatus(market.StatusDisconnected)
		s.publish()
		return errors.Wrap(err, "failed to fetch prices")
	}

	for _, p := range batch {
		if p.Value > 0 {
			s.cache.Set(p.Asset.Symbol, p.Value)
		}
	}
	s.setStatus(StatusPolling)
	s.publish()
	return nil
}

func (s *LivePriceService) setStatus(st market.Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *LivePriceService) Status() market.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Prices returns the current USD price of every priced tracked symbol.
func (s *LivePriceService) Prices() map[string]float64 {
	out := make(map[string]float64)
	for _, sym := range s.cache.Keys() {
		if v, ok := s.cache.Get(sym); ok && v > 0 {
			out[sym] = v
		}
	}
	return out
}

func (s *LivePriceService) Price(symbol string) (decimal.Decimal, bool) {
	v, ok := s.cache.Get(strings.ToUpper(symbol))
	if !ok || v <= 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(v), true
}

func (s *LivePriceService) publish() {
	data, err := json.Marshal(PriceUpdate{Prices: s.Prices(), Status: s.Status()})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to marshal prices")
		return
	}
	s.publisher.TryPublish(data)
}
