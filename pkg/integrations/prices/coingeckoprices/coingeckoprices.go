package coingeckoprices

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
}

func NewPriceFetcher() *PriceFetcher {
	return &PriceFetcher{
		BaseURL: "https://api.coingecko.com/api/v3",
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchMany looks assets up by ExternalID (coin id). Assets without an id
// or missing from the response keep a zero value.
func (c *PriceFetcher) FetchMany(ctx context.Context, ps ...*prices.Price) error {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		if id := strings.ToLower(strings.TrimSpace(p.Asset.ExternalID)); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("%s/simple/price?%s", c.BaseURL, url.Values{
		"ids":           {strings.Join(ids, ",")},
		"vs_currencies": {"usd"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

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
		if usd, ok := result[strings.ToLower(p.Asset.ExternalID)]["usd"]; ok && usd > 0 {
			p.Value = usd
			p.Source = prices.SourceCoinGecko
		}
	}
	return nil
}
