package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"pixeltrader/pkg/pairs"
	"pixeltrader/pkg/types/market"
	"pixeltrader/pkg/types/prices"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	DataAPIURL = "https://data-api.binance.vision"
	MainAPIURL = "https://api.binance.com"

	statusTrading = "TRADING"
	closeIndex    = 4
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrMalformedKline   = errors.New("malformed kline")
)

var (
	_ market.Source       = (*Client)(nil)
	_ prices.PriceFetcher = (*Client)(nil)
)

// Client talks to the public spot REST API of one Binance domain.
type Client struct {
	BaseURL string
	Client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Name() string {
	return c.BaseURL
}

type ticker24h struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	QuoteVolume        string `json:"quoteVolume"`
	PriceChangePercent string `json:"priceChangePercent"`
	Count              int64  `json:"count"`
}

type exchangeInfo struct {
	Symbols []struct {
		Symbol string `json:"symbol"`
		Status string `json:"status"`
	} `json:"symbols"`
}

// Snapshot fetches 24h tickers and spot exchange info concurrently and
// keeps symbols that are trading and had at least one trade.
func (c *Client) Snapshot(ctx context.Context) ([]market.Ticker, error) {
	var (
		wg               sync.WaitGroup
		raw              []ticker24h
		info             exchangeInfo
		tickErr, infoErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		tickErr = c.get(ctx, "/api/v3/ticker/24hr", nil, &raw)
	}()
	go func() {
		defer wg.Done()
		infoErr = c.get(ctx, "/api/v3/exchangeInfo", url.Values{"permissions": {"SPOT"}}, &info)
	}()
	wg.Wait()

	if tickErr != nil {
		return nil, errors.Wrap(tickErr, "failed to fetch 24h tickers")
	}
	if infoErr != nil {
		return nil, errors.Wrap(infoErr, "failed to fetch exchange info")
	}

	trading := make(map[string]struct{}, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.Status == statusTrading {
			trading[s.Symbol] = struct{}{}
		}
	}

	tickers := make([]market.Ticker, 0, len(raw))
	for _, r := range raw {
		if _, ok := trading[r.Symbol]; !ok || r.Count == 0 {
			continue
		}
		t, err := parseTicker(r)
		if err != nil {
			continue
		}
		tickers = append(tickers, t)
	}
	return tickers, nil
}

func parseTicker(r ticker24h) (market.Ticker, error) {
	price, err := decimal.NewFromString(r.LastPrice)
	if err != nil {
		return market.Ticker{}, errors.Wrapf(err, "invalid price for %s", r.Symbol)
	}
	volume, err := decimal.NewFromString(r.QuoteVolume)
	if err != nil {
		return market.Ticker{}, errors.Wrapf(err, "invalid volume for %s", r.Symbol)
	}
	change, err := decimal.NewFromString(r.PriceChangePercent)
	if err != nil {
		return market.Ticker{}, errors.Wrapf(err, "invalid change for %s", r.Symbol)
	}
	return market.Ticker{
		Symbol:    r.Symbol,
		Price:     price,
		Volume:    volume,
		Change24h: change,
	}, nil
}

// WindowChange returns the rolling-window price change percent.
func (c *Client) WindowChange(ctx context.Context, symbol string, window market.Window) (decimal.Decimal, error) {
	var result struct {
		PriceChangePercent string `json:"priceChangePercent"`
	}
	q := url.Values{"symbol": {symbol}, "windowSize": {string(window)}}
	if err := c.get(ctx, "/api/v3/ticker", q, &result); err != nil {
		return decimal.Zero, errors.Wrapf(err, "failed to fetch %s window for %s", window, symbol)
	}
	pct, err := decimal.NewFromString(result.PriceChangePercent)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "invalid change percent for %s", symbol)
	}
	return pct, nil
}

// DailyCloses returns close prices of the last limit daily candles, oldest first.
func (c *Client) DailyCloses(ctx context.Context, symbol string, limit int) ([]decimal.Decimal, error) {
	var klines [][]json.RawMessage
	q := url.Values{"symbol": {symbol}, "interval": {"1d"}, "limit": {fmt.Sprint(limit)}}
	if err := c.get(ctx, "/api/v3/klines", q, &klines); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch klines for %s", symbol)
	}

	closes := make([]decimal.Decimal, 0, len(klines))
	for i, k := range klines {
		if len(k) <= closeIndex {
			return nil, errors.Wrapf(ErrMalformedKline, "%s kline %d", symbol, i)
		}
		var raw string
		if err := json.Unmarshal(k[closeIndex], &raw); err != nil {
			return nil, errors.Wrapf(ErrMalformedKline, "%s kline %d close", symbol, i)
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedKline, "%s kline %d close %q", symbol, i, raw)
		}
		closes = append(closes, v)
	}
	return closes, nil
}

// FetchMany prices assets in USD from the spot price list, routing
// through anchor quotes when needed.
func (c *Client) FetchMany(ctx context.Context, ps ...*prices.Price) error {
	var results []struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := c.get(ctx, "/api/v3/ticker/price", nil, &results); err != nil {
		return errors.Wrap(err, "failed to fetch prices")
	}

	priceMap := make(map[string]float64, len(results))
	for _, r := range results {
		v, err := decimal.NewFromString(r.Price)
		if err != nil {
			continue
		}
		priceMap[r.Symbol] = v.InexactFloat64()
	}

	router := pairs.NewRouter(priceMap)
	for _, p := range ps {
		v, err := router.USD(p.Asset.Symbol)
		if err != nil {
			return errors.Wrapf(err, "failed to get price for %s", p.Asset.Symbol)
		}
		p.Value = v
		p.Source = prices.SourceBinance
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(ErrUnexpectedStatus, "%s: %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}
