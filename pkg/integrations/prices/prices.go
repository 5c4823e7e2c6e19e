package prices

import (
	"context"
	"strings"
	"sync"
	"time"

	"pixeltrader/pkg/integrations/prices/coingeckoprices"
	"pixeltrader/pkg/integrations/prices/cryptocompareprices"
	"pixeltrader/pkg/types/prices"

	"github.com/pkg/errors"
)

var (
	_ prices.PriceFetcher = (*PriceService)(nil)

	ErrNoFetchers     = errors.New("no price fetchers configured")
	ErrUnknownSource  = errors.New("unknown price source")
	ErrAllSourcesDown = errors.New("all price sources failed")
)

const defaultTTL = time.Minute

type cachedPrice struct {
	value     float64
	source    string
	timestamp time.Time
}

// simple in-memory cache keyed by symbol
type cache struct {
	mu       sync.RWMutex
	ttl      time.Duration
	bySymbol map[string]cachedPrice
}

func (c *cache) get(symbol string) (cachedPrice, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.bySymbol[symbol]
	if !ok || time.Since(p.timestamp) > c.ttl {
		return cachedPrice{}, false
	}
	return p, true
}

func (c *cache) set(symbol string, value float64, source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bySymbol == nil {
		c.bySymbol = make(map[string]cachedPrice)
	}
	c.bySymbol[symbol] = cachedPrice{value: value, source: source, timestamp: time.Now()}
}

type namedFetcher struct {
	name    string
	fetcher prices.PriceFetcher
}

// PriceService asks each fetcher in order for the prices still missing.
type PriceService struct {
	fetchers []namedFetcher
	cache    cache
}

type Option func(*PriceService)

func WithFetcher(name string, f prices.PriceFetcher) Option {
	return func(p *PriceService) {
		p.fetchers = append(p.fetchers, namedFetcher{name: name, fetcher: f})
	}
}

func WithTTL(d time.Duration) Option {
	return func(p *PriceService) {
		p.cache.ttl = d
	}
}

func NewPriceService(opts ...Option) *PriceService {
	p := &PriceService{cache: cache{ttl: defaultTTL}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ForSource builds the fallback chain that starts with source.
func ForSource(source string) (*PriceService, error) {
	gecko := coingeckoprices.NewPriceFetcher()
	compare := cryptocompareprices.NewPriceFetcher()

	switch strings.ToLower(source) {
	case prices.SourceCoinGecko:
		return NewPriceService(
			WithFetcher(prices.SourceCoinGecko, gecko),
			WithFetcher(prices.SourceCryptoCompare, compare),
		), nil
	case prices.SourceCryptoCompare:
		return NewPriceService(
			WithFetcher(prices.SourceCryptoCompare, compare),
			WithFetcher(prices.SourceCoinGecko, gecko),
		), nil
	default:
		return nil, errors.Wrap(ErrUnknownSource, source)
	}
}

func (p *PriceService) FetchMany(ctx context.Context, ps ...*prices.Price) error {
	if len(p.fetchers) == 0 {
		return ErrNoFetchers
	}

	missing := make([]*prices.Price, 0, len(ps))
	for _, price := range ps {
		if cached, ok := p.cache.get(strings.ToUpper(price.Asset.Symbol)); ok {
			price.Value = cached.value
			price.Source = cached.source
			continue
		}
		missing = append(missing, price)
	}

	var errs []error
	for _, nf := range p.fetchers {
		if len(missing) == 0 {
			break
		}
		if err := nf.fetcher.FetchMany(ctx, missing...); err != nil {
			errs = append(errs, errors.Wrap(err, nf.name))
			continue
		}

		still := missing[:0]
		for _, price := range missing {
			if price.Value > 0 {
				p.cache.set(strings.ToUpper(price.Asset.Symbol), price.Value, price.Source)
				continue
			}
			still = append(still, price)
		}
		missing = still
	}

	if len(errs) == len(p.fetchers) {
		return errors.Wrapf(ErrAllSourcesDown, "%v", errs)
	}
	return nil
}
