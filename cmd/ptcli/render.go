package main

import (
	"fmt"
	"os"
	"strings"

	"pixeltrader/internal/portfolio"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
)

var centsFactor = decimal.NewFromInt(100)

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering markdown: %v\n", err)
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func formatUSD(d decimal.Decimal) string {
	return money.New(d.Mul(centsFactor).Round(0).IntPart(), money.USD).Display()
}

func formatPct(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

// summaryMarkdown renders the positions table and totals.
func summaryMarkdown(s portfolio.Summary, stressPct decimal.Decimal) string {
	var b strings.Builder

	b.WriteString("# Portfolio\n\n")
	b.WriteString("| Symbol | Holdings | Avg cost | Price | Value | Unrealized | Realized | ROI |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, m := range s.Assets {
		price, roi := "n/a", "n/a"
		if m.HasPrice {
			price = formatUSD(m.Price)
		}
		if m.ROI.IsPositive() {
			roi = m.ROI.StringFixed(2) + "x"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			m.Symbol,
			m.CurrentAmount.String(),
			formatUSD(m.AverageCost),
			price,
			formatUSD(m.MarketValue),
			formatUSD(m.UnrealizedPnL),
			formatUSD(m.RealizedPnL),
			roi,
		)
	}

	b.WriteString("\n## Totals\n\n")
	fmt.Fprintf(&b, "- **Value:** %s\n", formatUSD(s.TotalValue))
	fmt.Fprintf(&b, "- **Unrealized P&L:** %s\n", formatUSD(s.TotalUnrealized))
	fmt.Fprintf(&b, "- **Realized P&L:** %s\n", formatUSD(s.TotalRealized))
	fmt.Fprintf(&b, "- **Stablecoins:** %s\n", formatPct(portfolio.StableShare(s.Assets)))
	if !stressPct.IsZero() {
		stressed := portfolio.StressTotal(s.Assets, stressPct)
		fmt.Fprintf(&b, "- **Stress %s:** %s\n", formatPct(stressPct), formatUSD(stressed))
	}
	if portfolio.LowAmmo(s) {
		b.WriteString("\n> LOW AMMO: less than 10% of the portfolio is in stablecoins.\n")
	}
	return b.String()
}
