package cryptocompareprices

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pixeltrader/pkg/types/prices"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

var (
	_ prices.PriceFetcher = (*PriceFetcher)(nil)
)

type PriceFetcher struct {
	BaseURL string
	Client  *http.Client
	APIKey  string
}

func NewPriceFetcher() *PriceFetcher {
	return &PriceFetcher{
		BaseURL: "https://min-api.cryptocompare.com/data",
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func NewPriceFetcherWithKey(apiKey string) *PriceFetcher {
	f := NewPriceFetcher()
	f.APIKey = apiKey
	return f
}

func (c *PriceFetcher) addAuth(req *http.Request) {
	if c.APIKey != "" {
		req.Header.Set("authorization", "Apikey "+c.APIKey)
	}
}

// FetchMany prices assets by ticker symbol through pricemulti.
func (c *PriceFetcher) FetchMany(ctx context.Context, ps ...*prices.Price) error {
	symbols := make([]string, 0, len(ps))
	for _, p := range ps {
		if s := strings.ToUpper(strings.TrimSpace(p.Asset.Symbol)); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("%s/pricemulti?%s", c.BaseURL, url.Values{
		"fsyms": {strings.Join(symbols, ",")},
		"tsyms": {"USD"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	c.addAuth(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to fetch prices")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}

	for _, p := range ps {
		if usd, ok := result[strings.ToUpper(p.Asset.Symbol)]["USD"]; ok && usd > 0 {
			p.Value = usd
			p.Source = prices.SourceCryptoCompare
		}
	}
	return nil
}
