package cloudsync

import (
	"bytes"

	"pixeltrader/internal/importexport"
	"pixeltrader/internal/models"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrInvalidAssets = errors.New("invalid asset document")

type wireTransaction struct {
	ID       string                 `json:"id"`
	Type     models.TransactionType `json:"type"`
	Price    decimal.Decimal        `json:"price"`
	Amount   decimal.Decimal        `json:"amount"`
	Date     string                 `json:"date"`
	Strategy models.Strategy        `json:"strategy,omitempty"`
}

type wireAsset struct {
	ID           string            `json:"id"`
	Symbol       string            `json:"symbol"`
	ExternalID   string            `json:"cgId,omitempty"`
	Name         string            `json:"name,omitempty"`
	Transactions []wireTransaction `json:"transactions"`
}

// EncodeAssets renders assets in the stable document form: no timestamps,
// transactions in log order. Equal content always yields equal bytes.
func EncodeAssets(assets []models.Asset) (json.RawMessage, error) {
	out := make([]wireAsset, 0, len(assets))
	for _, a := range assets {
		w := wireAsset{
			ID:           a.ID,
			Symbol:       a.Symbol,
			ExternalID:   a.ExternalID,
			Name:         a.Name,
			Transactions: make([]wireTransaction, 0, len(a.Transactions)),
		}
		for _, tx := range a.Transactions {
			w.Transactions = append(w.Transactions, wireTransaction{
				ID:       tx.ID,
				Type:     tx.Type,
				Price:    tx.Price,
				Amount:   tx.Amount,
				Date:     tx.Date,
				Strategy: tx.Strategy,
			})
		}
		out = append(out, w)
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode assets")
	}
	return b, nil
}

// DecodeAssets accepts a bare asset array or an object with an "assets"
// field, the two shapes found in exported backups.
func DecodeAssets(raw []byte) ([]models.Asset, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []models.Asset{}, nil
	}

	var wire []wireAsset
	if raw[0] == '{' {
		var wrapped struct {
			Assets []wireAsset `json:"assets"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, errors.Wrap(ErrInvalidAssets, err.Error())
		}
		wire = wrapped.Assets
	} else if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, errors.Wrap(ErrInvalidAssets, err.Error())
	}

	assets := make([]models.Asset, 0, len(wire))
	for _, w := range wire {
		if models.NormalizeSymbol(w.Symbol) == "" {
			return nil, errors.Wrap(ErrInvalidAssets, "asset without symbol")
		}
		a := models.Asset{
			ID:           w.ID,
			Symbol:       models.NormalizeSymbol(w.Symbol),
			ExternalID:   w.ExternalID,
			Name:         w.Name,
			Transactions: make([]models.Transaction, 0, len(w.Transactions)),
		}
		for _, t := range w.Transactions {
			// positions sort dates as strings, so only YYYY-MM-DD may enter
			date, ok := importexport.ParseDate(t.Date)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidAssets, "transaction %s has invalid date %q", t.ID, t.Date)
			}
			a.Transactions = append(a.Transactions, models.Transaction{
				ID:       t.ID,
				AssetID:  w.ID,
				Type:     t.Type,
				Price:    t.Price,
				Amount:   t.Amount,
				Date:     date,
				Strategy: t.Strategy,
			})
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// sameContent compares two encoded documents after a normalizing round
// trip, so formatting differences from other writers do not count.
func sameContent(a, b []byte) bool {
	da, errA := DecodeAssets(a)
	db, errB := DecodeAssets(b)
	if errA != nil || errB != nil {
		return false
	}
	ea, errA := EncodeAssets(da)
	eb, errB := EncodeAssets(db)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}
