package repo

import (
	"pixeltrader/internal/models"

	"gorm.io/gorm"
)

type TransactionFilter struct {
	AssetID   string
	Type      models.TransactionType
	StartDate string
	EndDate   string
	Limit     int
	Offset    int
}

type TransactionListResult struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int64                `json:"total"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
}

// CreateTransaction appends tx to its asset's log.
func (r *Repository) CreateTransaction(tx *models.Transaction) error {
	_, err := r.CreateTransactions(tx.AssetID, []*models.Transaction{tx})
	return err
}

// CreateTransactions appends txs in order and returns how many were stored.
func (r *Repository) CreateTransactions(assetID string, txs []*models.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	err := r.db.Transaction(func(db *gorm.DB) error {
		var asset models.Asset
		if err := db.Select("id").First(&asset, "id = ?", assetID).Error; err != nil {
			return err
		}

		var maxSeq int64
		if err := db.Model(&models.Transaction{}).
			Where("asset_id = ?", assetID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error; err != nil {
			return err
		}

		for i, tx := range txs {
			tx.AssetID = assetID
			tx.Seq = maxSeq + int64(i) + 1
		}
		return db.Create(txs).Error
	})
	if err != nil {
		return 0, err
	}
	return len(txs), nil
}

func (r *Repository) GetTransactionByID(id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.First(&tx, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetTransactionsByAssetID returns the log in insertion order.
func (r *Repository) GetTransactionsByAssetID(assetID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("asset_id = ?", assetID).Order("seq ASC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *Repository) DeleteTransaction(assetID, id string) error {
	res := r.db.Where("asset_id = ? AND id = ?", assetID, id).Delete(&models.Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) ListTransactions(filter TransactionFilter) (*TransactionListResult, error) {
	query := r.db.Model(&models.Transaction{})

	if filter.AssetID != "" {
		query = query.Where("asset_id = ?", filter.AssetID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.StartDate != "" {
		query = query.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		query = query.Where("date <= ?", filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	limit, offset := clampPage(filter.Limit, filter.Offset)

	var transactions []models.Transaction
	if err := query.Order("date DESC").Order("seq DESC").Limit(limit).Offset(offset).Find(&transactions).Error; err != nil {
		return nil, err
	}

	return &TransactionListResult{
		Transactions: transactions,
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	}, nil
}

func (r *Repository) CountTransactions() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Transaction{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
