package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"pixeltrader/internal/importexport"

	"github.com/google/subcommands"
)

type exportCmd struct {
	symbol string
	format string
	out    string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export an asset's transactions as json or markdown" }
func (*exportCmd) Usage() string {
	return `ptcli export -s <symbol> [-f json|md] [-o <file>]

  Writes the transactions of one asset, oldest first. Markdown printed to
  the terminal is rendered.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Asset symbol")
	f.StringVar(&c.format, "f", importexport.FormatJSON, "Output format: json or md")
	f.StringVar(&c.out, "o", "", "Output file, stdout when empty")
}

func (c *exportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: -s is required")
		return subcommands.ExitUsageError
	}
	format := strings.ToLower(c.format)

	r, closeDB, err := openRepo()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeDB()

	asset, err := r.GetAssetBySymbol(c.symbol)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", c.symbol, err)
		return subcommands.ExitFailure
	}

	data, err := importexport.Export(asset.Transactions, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	switch {
	case c.out != "":
		if err := os.WriteFile(c.out, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", c.out, err)
			return subcommands.ExitFailure
		}
	case format == importexport.FormatMarkdown:
		printMarkdown(fmt.Sprintf("# %s\n\n%s", asset.Symbol, data))
	default:
		fmt.Println(string(data))
	}
	return subcommands.ExitSuccess
}
