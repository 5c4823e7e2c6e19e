// Package importexport converts between an asset's transaction log and
// the text formats users paste in or download: JSON, delimited rows,
// markdown tables and receipt text.
package importexport

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"pixeltrader/internal/models"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const minColumns = 4

var (
	columnSplit = regexp.MustCompile(`[,\t;]+`)
	nonNumeric  = regexp.MustCompile(`[^\d.-]`)
)

var dateLayouts = []string{
	models.DateLayout,
	"2006/01/02",
	"2006.01.02",
	"2006-1-2",
	"2006/1/2",
	time.RFC3339,
}

type Skipped struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Rows    []models.Transaction `json:"rows"`
	Skipped []Skipped            `json:"skipped"`
	Format  string               `json:"format"`
}

const (
	FormatJSON      = "json"
	FormatDelimited = "delimited"
)

// Parse reads a JSON array of {date,type,price,amount} records or
// delimited rows (date, type, price, amount). Rows that do not yield a
// valid transaction are reported in Skipped rather than failing the
// whole parse.
func Parse(text string) ImportResult {
	if res, ok := parseJSON(text); ok {
		return res
	}
	return parseDelimited(text)
}

// flexNumber accepts a JSON number or a string holding one.
type flexNumber string

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = flexNumber(s)
		return nil
	}
	*n = flexNumber(b)
	return nil
}

type jsonRow struct {
	Date   string     `json:"date"`
	Type   string     `json:"type"`
	Price  flexNumber `json:"price"`
	Amount flexNumber `json:"amount"`
}

func parseJSON(text string) (ImportResult, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "[") {
		return ImportResult{}, false
	}
	var rows []jsonRow
	if err := json.Unmarshal([]byte(trimmed), &rows); err != nil {
		return ImportResult{}, false
	}

	res := ImportResult{Format: FormatJSON, Rows: []models.Transaction{}, Skipped: []Skipped{}}
	for i, r := range rows {
		typ := models.TransactionBuy
		switch strings.TrimSpace(r.Type) {
		case "卖", "SELL", "sell":
			typ = models.TransactionSell
		}

		tx, reason := buildRow(r.Date, typ, string(r.Price), string(r.Amount))
		if reason != "" {
			res.Skipped = append(res.Skipped, Skipped{Line: i + 1, Text: r.Date, Reason: reason})
			continue
		}
		res.Rows = append(res.Rows, tx)
	}
	return res, true
}

func parseDelimited(text string) ImportResult {
	res := ImportResult{Format: FormatDelimited, Rows: []models.Transaction{}, Skipped: []Skipped{}}

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "date") && strings.Contains(lower, "price") {
			continue
		}

		cols := columnSplit.Split(line, -1)
		if len(cols) < minColumns {
			res.Skipped = append(res.Skipped, Skipped{Line: i + 1, Text: line, Reason: "expected at least 4 columns"})
			continue
		}
		for j := range cols {
			cols[j] = strings.TrimSpace(cols[j])
		}

		typ := models.TransactionBuy
		rawType := strings.ToLower(cols[1])
		if strings.Contains(rawType, "sell") || strings.Contains(rawType, "卖") {
			typ = models.TransactionSell
		}

		tx, reason := buildRow(cols[0], typ, cleanNumber(cols[2]), cleanNumber(cols[3]))
		if reason != "" {
			res.Skipped = append(res.Skipped, Skipped{Line: i + 1, Text: line, Reason: reason})
			continue
		}
		res.Rows = append(res.Rows, tx)
	}
	return res
}

// cleanNumber drops currency signs, thousands separators and the like.
func cleanNumber(s string) string {
	return nonNumeric.ReplaceAllString(s, "")
}

// ParseDate accepts the common day layouts and returns the date as
// YYYY-MM-DD.
func ParseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(models.DateLayout), true
		}
	}
	return "", false
}

func buildRow(date string, typ models.TransactionType, price, amount string) (models.Transaction, string) {
	d, ok := ParseDate(date)
	if !ok {
		return models.Transaction{}, "invalid date"
	}
	p, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return models.Transaction{}, "invalid price"
	}
	a, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return models.Transaction{}, "invalid amount"
	}

	tx := models.Transaction{
		Type:     typ,
		Price:    p,
		Amount:   a,
		Date:     d,
		Strategy: models.StrategyDCA,
	}
	if err := tx.Validate(); err != nil {
		return models.Transaction{}, "price and amount must be positive"
	}
	return tx, ""
}
