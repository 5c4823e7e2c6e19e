// Package market keeps the live ticker map fed by a REST snapshot and a
// websocket stream, and enriches symbols with long-horizon stats on demand.
package market

import (
	"context"
	"maps"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"pixeltrader/pkg/integrations/memcache"
	"pixeltrader/pkg/types/cache"
	marketTypes "pixeltrader/pkg/types/market"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Ticker = marketTypes.Ticker

// Snapshot is a point-in-time copy of the ticker map keyed by symbol.
type Snapshot map[string]Ticker

type Status string

const (
	StatusIdle         Status = "idle"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

const (
	klineLimit   = 32
	minKlines    = 8
	lookback7d   = 7
	lookback30d  = 30
	fetchTimeout = 15 * time.Second
)

var DefaultStreamEndpoints = []string{
	"wss://data-stream.binance.vision/stream?streams=!ticker@arr",
	"wss://stream.binance.com:9443/stream?streams=!ticker@arr",
}

var (
	ErrInvalidFeedConfig  = errors.New("invalid market feed config")
	ErrEnrichmentInFlight = errors.New("detailed stats already in flight")
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrFeedClosed         = errors.New("market feed closed")
)

var hundred = decimal.NewFromInt(100)

// Feed owns the ticker map. Only the feed's own goroutines write to it;
// everything else reads copies.
type Feed struct {
	sources   []marketTypes.Source
	streamer  marketTypes.Streamer
	endpoints []string
	tickers   cache.Updater[string, Ticker]
	backoff   func(int) time.Duration
	logger    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	// lifeMu orders wg.Add against Close; closed is set under it.
	lifeMu sync.Mutex
	closed bool

	connectOnce sync.Once
	closeOnce   sync.Once

	status atomic.Value

	inflightMu sync.Mutex
	inflight   map[string]struct{}

	// notifyMu serializes delivery so subscribers never see snapshots out
	// of order. subMu only guards the registry.
	notifyMu sync.Mutex
	subMu    sync.Mutex
	subs     map[uint64]func(Snapshot)
	nextSub  uint64
}

type Option func(*Feed)

// WithSources sets the REST sources in fallback order.
func WithSources(sources ...marketTypes.Source) Option {
	return func(f *Feed) {
		f.sources = sources
	}
}

func WithStreamer(s marketTypes.Streamer) Option {
	return func(f *Feed) {
		f.streamer = s
	}
}

// WithEndpoints sets the stream endpoints tried round robin.
func WithEndpoints(endpoints ...string) Option {
	return func(f *Feed) {
		f.endpoints = endpoints
	}
}

func WithCache(c cache.Updater[string, Ticker]) Option {
	return func(f *Feed) {
		f.tickers = c
	}
}

func WithBackoff(fn func(attempt int) time.Duration) Option {
	return func(f *Feed) {
		f.backoff = fn
	}
}

func WithContext(ctx context.Context) Option {
	return func(f *Feed) {
		f.ctx = ctx
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(f *Feed) {
		f.logger = l.With().Str("component", "market_feed").Logger()
	}
}

func (f *Feed) IsValid() error {
	switch {
	case f.ctx == nil:
		return errors.Wrap(ErrInvalidFeedConfig, "ctx cannot be nil")
	case len(f.sources) == 0:
		return errors.Wrap(ErrInvalidFeedConfig, "at least one source is required")
	case f.streamer == nil:
		return errors.Wrap(ErrInvalidFeedConfig, "streamer cannot be nil")
	case len(f.endpoints) == 0:
		return errors.Wrap(ErrInvalidFeedConfig, "at least one stream endpoint is required")
	case f.tickers == nil:
		return errors.Wrap(ErrInvalidFeedConfig, "cache cannot be nil")
	case f.backoff == nil:
		return errors.Wrap(ErrInvalidFeedConfig, "backoff cannot be nil")
	default:
		return nil
	}
}

func New(opts ...Option) (*Feed, error) {
	f := &Feed{
		endpoints: DefaultStreamEndpoints,
		tickers:   memcache.New[string, Ticker](),
		backoff:   Backoff,
		ctx:       context.Background(),
		logger:    zerolog.Nop(),
		inflight:  make(map[string]struct{}),
		subs:      make(map[uint64]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.IsValid(); err != nil {
		return nil, err
	}

	f.ctx, f.cancel = context.WithCancel(f.ctx)
	f.status.Store(StatusIdle)
	return f, nil
}

// Connect starts the snapshot fetch and the stream loop. Later calls do
// nothing.
func (f *Feed) Connect() {
	f.connectOnce.Do(func() {
		f.spawn(func() { f.loadSnapshot(f.ctx) })
		f.spawn(func() { f.streamLoop(f.ctx) })
	})
}

// spawn runs fn on a goroutine Close waits for. It returns false once the
// feed is closed.
func (f *Feed) spawn(fn func()) bool {
	f.lifeMu.Lock()
	defer f.lifeMu.Unlock()
	if f.closed {
		return false
	}
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		fn()
	}()
	return true
}

// Close stops every feed goroutine and waits for them.
func (f *Feed) Close() {
	f.closeOnce.Do(func() {
		f.lifeMu.Lock()
		f.closed = true
		f.cancel()
		f.lifeMu.Unlock()
		f.wg.Wait()
		f.setStatus(StatusIdle)
	})
}

func (f *Feed) Status() Status {
	return f.status.Load().(Status)
}

func (f *Feed) setStatus(s Status) {
	if prev := f.status.Swap(s); prev != s {
		f.logger.Debug().Str("status", string(s)).Msg("feed status changed")
	}
}

func (f *Feed) Snapshot() Snapshot {
	return Snapshot(f.tickers.Snapshot())
}

func (f *Feed) Ticker(symbol string) (Ticker, bool) {
	return f.tickers.Get(strings.ToUpper(symbol))
}

// Subscribe registers fn for every change. fn immediately receives the
// current snapshot when the map is non-empty. Callbacks run one at a time
// and must not call Subscribe themselves.
func (f *Feed) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	f.notifyMu.Lock()
	defer f.notifyMu.Unlock()

	f.subMu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	f.subMu.Unlock()

	if snap := f.Snapshot(); len(snap) > 0 {
		f.deliver(fn, snap)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.subMu.Lock()
			delete(f.subs, id)
			f.subMu.Unlock()
		})
	}
}

func (f *Feed) notify() {
	f.notifyMu.Lock()
	defer f.notifyMu.Unlock()

	f.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.subMu.Unlock()

	if len(subs) == 0 {
		return
	}

	snap := f.Snapshot()
	for i, fn := range subs {
		if i > 0 {
			snap = maps.Clone(snap)
		}
		f.deliver(fn, snap)
	}
}

func (f *Feed) deliver(fn func(Snapshot), snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error().Interface("panic", r).Msg("subscriber panicked")
		}
	}()
	fn(snap)
}

func (f *Feed) loadSnapshot(ctx context.Context) {
	defer f.notify()

	for _, src := range f.sources {
		tickers, err := src.Snapshot(ctx)
		if err != nil {
			f.logger.Warn().Err(err).Str("source", src.Name()).Msg("snapshot source failed")
			if ctx.Err() != nil {
				return
			}
			continue
		}
		f.mergeBase(tickers)
		f.logger.Info().Str("source", src.Name()).Int("symbols", len(tickers)).Msg("snapshot loaded")
		return
	}
	f.logger.Warn().Msg("all snapshot sources failed")
}

// mergeBase overwrites price, volume and 24h change while keeping any
// enrichment already attached.
func (f *Feed) mergeBase(tickers []Ticker) {
	for _, t := range tickers {
		if t.Symbol == "" {
			continue
		}
		f.tickers.Update(t.Symbol, func(cur Ticker, ok bool) Ticker {
			if !ok {
				return Ticker{Symbol: t.Symbol, Price: t.Price, Volume: t.Volume, Change24h: t.Change24h}
			}
			cur.Price = t.Price
			cur.Volume = t.Volume
			cur.Change24h = t.Change24h
			return cur
		})
	}
}

func (f *Feed) applyBatch(batch []Ticker) {
	if len(batch) == 0 {
		return
	}
	f.mergeBase(batch)
	f.notify()
}

func (f *Feed) streamLoop(ctx context.Context) {
	attempt := 0
	for i := 0; ctx.Err() == nil; i++ {
		endpoint := f.endpoints[i%len(f.endpoints)]

		var opened atomic.Bool
		f.setStatus(StatusConnecting)
		err := f.streamer.Stream(ctx, endpoint, func() {
			opened.Store(true)
			f.setStatus(StatusConnected)
			f.logger.Info().Str("endpoint", endpoint).Msg("stream connected")
		}, f.applyBatch)
		f.setStatus(StatusDisconnected)

		if ctx.Err() != nil {
			return
		}
		if opened.Load() {
			attempt = 0
		}

		delay := f.backoff(attempt)
		attempt++
		f.logger.Warn().Err(err).Str("endpoint", endpoint).Dur("retry_in", delay).Msg("stream closed")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

func (f *Feed) acquire(symbol string) bool {
	f.inflightMu.Lock()
	defer f.inflightMu.Unlock()
	if _, busy := f.inflight[symbol]; busy {
		return false
	}
	f.inflight[symbol] = struct{}{}
	return true
}

func (f *Feed) release(symbol string) {
	f.inflightMu.Lock()
	delete(f.inflight, symbol)
	f.inflightMu.Unlock()
}

// InFlight reports whether symbol is being enriched right now.
func (f *Feed) InFlight(symbol string) bool {
	f.inflightMu.Lock()
	defer f.inflightMu.Unlock()
	_, busy := f.inflight[strings.ToUpper(symbol)]
	return busy
}

// FetchDetailedStats adds 1h/4h/7d/30d changes to symbol. At most one
// call per symbol runs at a time; overlapping calls return
// ErrEnrichmentInFlight and do nothing.
func (f *Feed) FetchDetailedStats(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(symbol)
	if !f.acquire(symbol) {
		return ErrEnrichmentInFlight
	}
	defer f.release(symbol)
	return f.enrich(ctx, symbol)
}

// RequestDetailedStats runs FetchDetailedStats in the background and
// reports whether a fetch was started.
func (f *Feed) RequestDetailedStats(symbol string) bool {
	symbol = strings.ToUpper(symbol)
	if f.ctx.Err() != nil || !f.acquire(symbol) {
		return false
	}

	started := f.spawn(func() {
		defer f.release(symbol)

		ctx, cancel := context.WithTimeout(f.ctx, fetchTimeout)
		defer cancel()
		if err := f.enrich(ctx, symbol); err != nil {
			f.logger.Debug().Err(err).Str("symbol", symbol).Msg("detailed stats failed")
		}
	})
	if !started {
		f.release(symbol)
	}
	return started
}

type detail struct {
	change1h, change4h decimal.NullDecimal
	closes             []decimal.Decimal
}

func (f *Feed) enrich(ctx context.Context, symbol string) error {
	if _, ok := f.tickers.Get(symbol); !ok {
		return errors.Wrap(ErrUnknownSymbol, symbol)
	}

	var lastErr error
	for _, src := range f.sources {
		d, err := fetchDetail(ctx, src, symbol)
		if err != nil {
			lastErr = err
			continue
		}
		if f.mergeDetail(symbol, d) {
			f.notify()
		}
		return nil
	}
	return errors.Wrapf(lastErr, "failed to fetch detailed stats for %s", symbol)
}

// fetchDetail issues the window and kline calls concurrently. Partial
// results are kept; it fails only when every call fails.
func fetchDetail(ctx context.Context, src marketTypes.Source, symbol string) (detail, error) {
	var (
		d                detail
		wg               sync.WaitGroup
		err1, err4, errK error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		var v decimal.Decimal
		if v, err1 = src.WindowChange(ctx, symbol, marketTypes.Window1h); err1 == nil {
			d.change1h = decimal.NewNullDecimal(v)
		}
	}()
	go func() {
		defer wg.Done()
		var v decimal.Decimal
		if v, err4 = src.WindowChange(ctx, symbol, marketTypes.Window4h); err4 == nil {
			d.change4h = decimal.NewNullDecimal(v)
		}
	}()
	go func() {
		defer wg.Done()
		d.closes, errK = src.DailyCloses(ctx, symbol, klineLimit)
	}()
	wg.Wait()

	if err1 != nil && err4 != nil && errK != nil {
		return detail{}, errors.Wrap(errK, src.Name())
	}
	return d, nil
}

// mergeDetail applies d to an existing entry and reports whether it did.
func (f *Feed) mergeDetail(symbol string, d detail) bool {
	return f.tickers.Modify(symbol, func(cur Ticker) Ticker {
		if d.change1h.Valid {
			cur.Change1h = d.change1h
		}
		if d.change4h.Valid {
			cur.Change4h = d.change4h
		}
		if len(d.closes) >= minKlines {
			if v, ok := changeSince(cur.Price, d.closes, lookback7d); ok {
				cur.Change7d = decimal.NewNullDecimal(v)
			}
			if v, ok := changeSince(cur.Price, d.closes, lookback30d); ok {
				cur.Change30d = decimal.NewNullDecimal(v)
			}
		}
		return cur
	})
}

// changeSince compares price with the close n candles before the last.
func changeSince(price decimal.Decimal, closes []decimal.Decimal, n int) (decimal.Decimal, bool) {
	idx := len(closes) - 1 - n
	if idx < 0 {
		return decimal.Decimal{}, false
	}
	past := closes[idx]
	if !past.IsPositive() {
		return decimal.Decimal{}, false
	}
	return price.Sub(past).Div(past).Mul(hundred), true
}
