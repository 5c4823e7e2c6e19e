package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"pixeltrader/internal/importexport"
	"pixeltrader/internal/models"

	"github.com/goccy/go-json"
	"github.com/google/subcommands"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type importCmd struct {
	symbol string
	file   string
	create bool
	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "append transactions from json or delimited text" }
func (*importCmd) Usage() string {
	return `ptcli import -s <symbol> [-f <file>] [-create] [-n]

  Reads a JSON array of {date,type,price,amount} or rows of
  date,type,price,amount from the file (stdin when omitted) and appends
  every valid row to the asset.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Asset symbol")
	f.StringVar(&c.file, "f", "", "Input file, stdin when empty")
	f.BoolVar(&c.create, "create", false, "Create the asset when it does not exist")
	f.BoolVar(&c.dryRun, "n", false, "Parse and report without storing anything")
}

func (c *importCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: -s is required")
		return subcommands.ExitUsageError
	}

	var in io.Reader = os.Stdin
	if c.file != "" {
		fh, err := os.Open(c.file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", c.file, err)
			return subcommands.ExitFailure
		}
		defer fh.Close()
		in = fh
	}
	text, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		return subcommands.ExitFailure
	}

	parsed := importexport.Parse(string(text))
	for _, s := range parsed.Skipped {
		fmt.Fprintf(os.Stderr, "line %d skipped (%s): %s\n", s.Line, s.Reason, s.Text)
	}
	if c.dryRun {
		fmt.Printf("%d rows parsed as %s, %d skipped\n", len(parsed.Rows), parsed.Format, len(parsed.Skipped))
		return subcommands.ExitSuccess
	}

	r, closeDB, err := openRepo()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeDB()

	asset, err := r.GetAssetBySymbol(c.symbol)
	if errors.Is(err, gorm.ErrRecordNotFound) && c.create {
		asset = &models.Asset{Symbol: c.symbol}
		err = r.CreateAsset(asset)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", c.symbol, err)
		return subcommands.ExitFailure
	}

	rows := make([]*models.Transaction, len(parsed.Rows))
	for i := range parsed.Rows {
		rows[i] = &parsed.Rows[i]
	}
	imported, err := r.CreateTransactions(asset.ID, rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error storing transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	log := &models.ImportLog{
		AssetID:      asset.ID,
		Source:       "cli",
		Format:       parsed.Format,
		TotalRows:    imported + len(parsed.Skipped),
		ImportedRows: imported,
		FailedRows:   len(parsed.Skipped),
		Status:       importStatus(imported, len(parsed.Skipped)),
	}
	if len(parsed.Skipped) > 0 {
		if data, err := json.Marshal(parsed.Skipped); err == nil {
			log.FailedData = string(data)
		}
	}
	if err := r.CreateImportLog(log); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: import log not saved: %v\n", err)
	}

	fmt.Printf("%s: %d imported, %d skipped (%s)\n", asset.Symbol, imported, len(parsed.Skipped), log.Status)
	return subcommands.ExitSuccess
}

func importStatus(imported, failed int) string {
	switch {
	case failed == 0:
		return models.ImportStatusCompleted
	case imported == 0:
		return models.ImportStatusFailed
	default:
		return models.ImportStatusPartial
	}
}
