package importexport

import (
	"regexp"
	"strings"

	"pixeltrader/internal/models"

	"github.com/shopspring/decimal"
)

var (
	receiptAmount    = regexp.MustCompile(`数量[^\d]*([\d.]+)`)
	receiptPrice     = regexp.MustCompile(`价格[^\d]*([\d.]+)`)
	receiptAvgPrice  = regexp.MustCompile(`成交均价[^\d]*([\d.]+)`)
	receiptDate      = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	receiptSellWords = []string{"卖出", "Sell", "Short"}
)

// Candidate is a transaction being filled in from a form or a receipt.
type Candidate struct {
	Type   models.TransactionType `json:"type"`
	Price  decimal.Decimal        `json:"price"`
	Amount decimal.Decimal        `json:"amount"`
	Date   string                 `json:"date"`
}

// ExtractReceipt reads trade fields out of OCR text. The type is always
// decided from the text; any other field not found keeps its base value.
func ExtractReceipt(text string, base Candidate) Candidate {
	out := base
	out.Type = models.TransactionBuy
	for _, w := range receiptSellWords {
		if strings.Contains(text, w) {
			out.Type = models.TransactionSell
			break
		}
	}

	if v, ok := firstNumber(text, receiptAmount); ok {
		out.Amount = v
	}
	if v, ok := firstNumber(text, receiptPrice); ok {
		out.Price = v
	} else if v, ok := firstNumber(text, receiptAvgPrice); ok {
		out.Price = v
	}
	if m := receiptDate.FindStringSubmatch(text); m != nil {
		if d, ok := ParseDate(m[1]); ok {
			out.Date = d
		}
	}
	return out
}

func firstNumber(text string, re *regexp.Regexp) (decimal.Decimal, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return decimal.Decimal{}, false
	}
	v, err := decimal.NewFromString(strings.TrimRight(m[1], "."))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return v, true
}
