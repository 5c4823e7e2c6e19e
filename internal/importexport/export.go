package importexport

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"pixeltrader/internal/models"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const FormatMarkdown = "md"

var ErrUnknownFormat = errors.New("unknown export format")

type exportRow struct {
	Date     string                 `json:"date"`
	Type     models.TransactionType `json:"type"`
	Price    decimal.Decimal        `json:"price"`
	Amount   decimal.Decimal        `json:"amount"`
	Strategy models.Strategy        `json:"strategy,omitempty"`
}

// Export renders txs oldest first as a JSON array or a markdown table.
func Export(txs []models.Transaction, format string) ([]byte, error) {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b models.Transaction) int {
		return cmp.Compare(a.Date, b.Date)
	})

	switch strings.ToLower(format) {
	case FormatJSON:
		rows := make([]exportRow, 0, len(sorted))
		for _, tx := range sorted {
			rows = append(rows, exportRow{Date: tx.Date, Type: tx.Type, Price: tx.Price, Amount: tx.Amount, Strategy: tx.Strategy})
		}
		b, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode transactions")
		}
		return b, nil

	case FormatMarkdown:
		var sb strings.Builder
		sb.WriteString("| Date | Type | Price | Amount |\n|---|---|---|---|\n")
		for _, tx := range sorted {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", tx.Date, tx.Type, tx.Price.String(), tx.Amount.String())
		}
		return []byte(sb.String()), nil

	default:
		return nil, errors.Wrap(ErrUnknownFormat, format)
	}
}

func ContentType(format string) string {
	if strings.ToLower(format) == FormatMarkdown {
		return "text/markdown; charset=utf-8"
	}
	return "application/json"
}

func FileName(symbol, format string) string {
	return fmt.Sprintf("%s.%s", strings.ToUpper(symbol), strings.ToLower(format))
}
