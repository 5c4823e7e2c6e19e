package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"pixeltrader/internal/portfolio"
	pricesvc "pixeltrader/pkg/integrations/prices"
	"pixeltrader/pkg/types/prices"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type summaryCmd struct {
	sort   string
	source string
	shock  float64
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display positions and totals at current prices" }
func (*summaryCmd) Usage() string {
	return `ptcli summary [-sort value|pnl|rank|name] [-source coingecko|cryptocompare|none] [-shock <pct>]

  Displays every asset's position valued at current USD prices.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sort, "sort", "value", "Sort order: value, pnl, rank or name")
	f.StringVar(&c.source, "source", prices.SourceCoinGecko, "Price source, or none to skip pricing")
	f.Float64Var(&c.shock, "shock", 0, "Also report the total with non-stable assets moved by this percent")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	mode, err := portfolio.ParseSortMode(c.sort)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	r, closeDB, err := openRepo()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeDB()

	assets, err := r.GetAllAssets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading assets: %v\n", err)
		return subcommands.ExitFailure
	}

	lookup := portfolio.PriceMap{}
	if c.source != "none" && len(assets) > 0 {
		fetcher, err := pricesvc.ForSource(c.source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}

		batch := make([]*prices.Price, len(assets))
		for i, a := range assets {
			batch[i] = &prices.Price{Asset: prices.Asset{Symbol: a.Symbol, ExternalID: a.ExternalID}}
		}
		fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := fetcher.FetchMany(fetchCtx, batch...); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: some prices are missing: %v\n", err)
		}
		for _, p := range batch {
			if p.Value > 0 {
				lookup[p.Asset.Symbol] = decimal.NewFromFloat(p.Value)
			}
		}
	}

	summary := portfolio.Aggregate(assets, lookup)
	summary.Assets = portfolio.Sort(summary.Assets, mode)

	printMarkdown(summaryMarkdown(summary, decimal.NewFromFloat(c.shock)))
	return subcommands.ExitSuccess
}
