package market

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

const AllQuotes = "ALL"

// KnownQuotes is matched in order against symbol suffixes.
var KnownQuotes = []string{"USDT", "FDUSD", "USDC", "TUSD", "BUSD", "BTC", "ETH", "BNB", "EUR", "TRY", "BRL", "JPY"}

var quotePriority = []string{"USDT", "FDUSD", "USDC", "BTC", "BNB", "ETH"}

type SortField string

const (
	SortSymbol    SortField = "symbol"
	SortPrice     SortField = "price"
	SortVolume    SortField = "volume"
	SortChange1h  SortField = "change1h"
	SortChange4h  SortField = "change4h"
	SortChange24h SortField = "change24h"
	SortChange7d  SortField = "change7d"
	SortChange30d SortField = "change30d"
)

// missing values sort below any real figure
var missingValue = decimal.NewFromInt(-999999)

type Query struct {
	Quote         string
	Search        string
	FavoritesOnly bool
	Favorites     []string
	Sort          SortField
	Ascending     bool
}

// QuoteAsset returns the first known quote that symbol ends with.
func QuoteAsset(symbol string) (string, bool) {
	for _, q := range KnownQuotes {
		if strings.HasSuffix(symbol, q) && len(symbol) > len(q) {
			return q, true
		}
	}
	return "", false
}

// Screen filters and sorts snap. The default order is volume descending.
func Screen(snap Snapshot, q Query) []Ticker {
	quote := strings.ToUpper(q.Quote)
	search := strings.ToUpper(strings.TrimSpace(q.Search))

	favs := make(map[string]struct{}, len(q.Favorites))
	for _, s := range q.Favorites {
		favs[strings.ToUpper(s)] = struct{}{}
	}

	out := make([]Ticker, 0, len(snap))
	for symbol, t := range snap {
		if quote != "" && quote != AllQuotes {
			if got, ok := QuoteAsset(symbol); !ok || got != quote {
				continue
			}
		}
		if q.FavoritesOnly {
			if _, ok := favs[symbol]; !ok {
				continue
			}
		}
		if search != "" && !strings.Contains(symbol, search) {
			continue
		}
		out = append(out, t)
	}

	field := q.Sort
	if field == "" {
		field = SortVolume
	}

	// map iteration is random; fix the base order so equal keys are stable
	slices.SortFunc(out, func(a, b Ticker) int { return cmp.Compare(a.Symbol, b.Symbol) })
	slices.SortStableFunc(out, func(a, b Ticker) int {
		var c int
		if field == SortSymbol {
			c = cmp.Compare(strings.ToLower(a.Symbol), strings.ToLower(b.Symbol))
		} else {
			c = sortValue(a, field).Cmp(sortValue(b, field))
		}
		if q.Ascending {
			return c
		}
		return -c
	})
	return out
}

func sortValue(t Ticker, field SortField) decimal.Decimal {
	orMissing := func(n decimal.NullDecimal) decimal.Decimal {
		if !n.Valid {
			return missingValue
		}
		return n.Decimal
	}

	switch field {
	case SortPrice:
		return t.Price
	case SortChange1h:
		return orMissing(t.Change1h)
	case SortChange4h:
		return orMissing(t.Change4h)
	case SortChange24h:
		return t.Change24h
	case SortChange7d:
		return orMissing(t.Change7d)
	case SortChange30d:
		return orMissing(t.Change30d)
	default:
		return t.Volume
	}
}

// ParseSortField falls back to volume for unknown names.
func ParseSortField(s string) SortField {
	switch f := SortField(strings.ToLower(s)); f {
	case SortSymbol, SortPrice, SortVolume, SortChange1h, SortChange4h, SortChange24h, SortChange7d, SortChange30d:
		return f
	default:
		return SortVolume
	}
}

// QuoteAssets lists the quotes present in snap, prefixed by ALL.
func QuoteAssets(snap Snapshot) []string {
	present := make(map[string]struct{})
	for symbol := range snap {
		if q, ok := QuoteAsset(symbol); ok {
			present[q] = struct{}{}
		}
	}

	rank := func(q string) int {
		if i := slices.Index(quotePriority, q); i >= 0 {
			return i
		}
		return len(quotePriority)
	}

	quotes := make([]string, 0, len(present))
	for q := range present {
		quotes = append(quotes, q)
	}
	slices.SortFunc(quotes, func(a, b string) int {
		if c := cmp.Compare(rank(a), rank(b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return append([]string{AllQuotes}, quotes...)
}
