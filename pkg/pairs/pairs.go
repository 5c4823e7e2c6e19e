package pairs

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrPairNotFound = errors.New("price for pair not found")
	// ordered by pair count desc
	//
	// as fetched from Binance API
	anchor = []string{
		"USDT",
		"USD",
		"BTC",
		"TRY",
		"USDC",
		"BNB",
		"ETH",
		"EUR",
		"IDR",
		"BRL",
		"JPY",
		"RUB",
		"GBP",
		"AUD",
		"USD1",
		"UAH",
		"PLN",
		"ARS",
		"DAI",
		"MXN",
		"RON",
		"DRT",
		"ZAR",
		"EURI",
		"USDP",
		"CZK",
		"NGN",
		"VAI",
		"BVND",
		"XRP",
		"SOL",
		"DOT",
		"COP",
		"DOGE",
		"TRX",
	}

	// priced at exactly one dollar
	pegged = map[string]struct{}{
		"USD":  {},
		"USDT": {},
	}
)

const maxHops = 8

// Router resolves USD prices for base assets from exchange pair prices
// such as BTCUSDT, routing through anchor quotes when no direct USDT
// market exists.
type Router struct {
	prices map[string]float64
}

func NewRouter(prices map[string]float64) *Router {
	return &Router{prices: prices}
}

// USD returns the dollar price of symbol.
func (r *Router) USD(symbol string) (float64, error) {
	symbol = strings.ToUpper(symbol)
	price, ok := r.resolve(symbol, map[string]struct{}{}, 0)
	if !ok {
		return 0, errors.Wrap(ErrPairNotFound, symbol+"USDT")
	}
	return price, nil
}

func (r *Router) resolve(base string, visited map[string]struct{}, depth int) (float64, bool) {
	if _, ok := pegged[base]; ok {
		return 1, true
	}
	if p, ok := r.prices[base+"USDT"]; ok && p > 0 {
		return p, true
	}
	if depth >= maxHops {
		return 0, false
	}

	visited[base] = struct{}{}
	defer delete(visited, base)

	for _, a := range anchor {
		if _, seen := visited[a]; seen || a == base {
			continue
		}
		p, ok := r.prices[base+a]
		if !ok || p <= 0 {
			continue
		}
		if anchorUSD, ok := r.resolve(a, visited, depth+1); ok {
			return p * anchorUSD, true
		}
	}
	return 0, false
}

// GetPriceForPair prices a <BASE>USD pair.
func GetPriceForPair(pair string, prices map[string]float64) (float64, error) {
	if price, exists := prices[pair]; exists {
		return price, nil
	}
	base, quote, ok := Split(pair)
	if !ok || quote != "USD" {
		return 0, errors.Wrap(ErrPairNotFound, pair)
	}
	price, err := NewRouter(prices).USD(base)
	if err != nil {
		return 0, errors.Wrap(ErrPairNotFound, pair)
	}
	return price, nil
}

// Split separates a pair into base and quote using the longest matching
// anchor suffix.
func Split(pair string) (base, quote string, ok bool) {
	for _, a := range anchor {
		if strings.HasSuffix(pair, a) && len(pair) > len(a) && len(a) > len(quote) {
			quote = a
		}
	}
	if quote == "" {
		return "", "", false
	}
	return strings.TrimSuffix(pair, quote), quote, true
}

// USDTPair is the direct dollar market for symbol.
func USDTPair(symbol string) string {
	symbol = strings.ToUpper(symbol)
	if strings.HasSuffix(symbol, "USDT") && symbol != "USDT" {
		return symbol
	}
	return symbol + "USDT"
}
