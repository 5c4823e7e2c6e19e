package repo

import (
	"pixeltrader/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func preloadTransactions(db *gorm.DB) *gorm.DB {
	return db.Order("seq ASC")
}

// CreateAsset inserts a new asset. Nested transactions are stored in
// slice order.
func (r *Repository) CreateAsset(asset *models.Asset) error {
	asset.Symbol = models.NormalizeSymbol(asset.Symbol)

	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Asset{}).Where("symbol = ?", asset.Symbol).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.Wrap(ErrDuplicateSymbol, asset.Symbol)
		}
		for i := range asset.Transactions {
			asset.Transactions[i].Seq = int64(i + 1)
		}
		return tx.Create(asset).Error
	})
}

func (r *Repository) GetAssetByID(id string) (*models.Asset, error) {
	var asset models.Asset
	if err := r.db.Preload("Transactions", preloadTransactions).First(&asset, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *Repository) GetAssetBySymbol(symbol string) (*models.Asset, error) {
	var asset models.Asset
	err := r.db.Preload("Transactions", preloadTransactions).
		Where("symbol = ?", models.NormalizeSymbol(symbol)).
		First(&asset).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetAllAssets returns assets in creation order with their transactions.
func (r *Repository) GetAllAssets() ([]models.Asset, error) {
	var assets []models.Asset
	if err := r.db.Preload("Transactions", preloadTransactions).Order("created_at ASC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *Repository) UpdateAssetMeta(id, name, externalID string) error {
	res := r.db.Model(&models.Asset{}).Where("id = ?", id).Updates(map[string]any{
		"name":        name,
		"external_id": externalID,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAsset removes the asset and all its transactions.
func (r *Repository) DeleteAsset(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("asset_id = ?", id).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Asset{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ReplaceAssets swaps the whole asset list atomically, keeping ids.
func (r *Repository) ReplaceAssets(assets []models.Asset) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Transaction{}).Error; err != nil {
			return errors.Wrap(err, "failed to clear transactions")
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Asset{}).Error; err != nil {
			return errors.Wrap(err, "failed to clear assets")
		}

		seen := make(map[string]struct{}, len(assets))
		for i := range assets {
			a := assets[i]
			a.Symbol = models.NormalizeSymbol(a.Symbol)
			if _, dup := seen[a.Symbol]; dup {
				return errors.Wrap(ErrDuplicateSymbol, a.Symbol)
			}
			seen[a.Symbol] = struct{}{}

			txs := a.Transactions
			a.Transactions = nil
			if err := tx.Create(&a).Error; err != nil {
				return errors.Wrapf(err, "failed to create asset %s", a.Symbol)
			}
			for j := range txs {
				txs[j].AssetID = a.ID
				txs[j].Seq = int64(j + 1)
			}
			if len(txs) > 0 {
				if err := tx.Create(&txs).Error; err != nil {
					return errors.Wrapf(err, "failed to create transactions for %s", a.Symbol)
				}
			}
		}
		return nil
	})
}

func (r *Repository) GetUniqueSymbols() ([]string, error) {
	var symbols []string
	if err := r.db.Model(&models.Asset{}).Order("symbol ASC").Pluck("symbol", &symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

func (r *Repository) CountAssets() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Asset{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
