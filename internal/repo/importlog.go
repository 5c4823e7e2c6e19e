package repo

import (
	"pixeltrader/internal/models"
)

func (r *Repository) CreateImportLog(log *models.ImportLog) error {
	return r.db.Create(log).Error
}

func (r *Repository) GetImportLogByID(id int64) (*models.ImportLog, error) {
	var log models.ImportLog
	if err := r.db.First(&log, id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// ListImportLogs returns newest first, optionally for a single asset.
func (r *Repository) ListImportLogs(assetID string) ([]models.ImportLog, error) {
	query := r.db.Order("created_at DESC").Order("id DESC")
	if assetID != "" {
		query = query.Where("asset_id = ?", assetID)
	}

	var logs []models.ImportLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *Repository) DeleteImportLog(id int64) error {
	return r.db.Delete(&models.ImportLog{}, id).Error
}

func (r *Repository) UpdateImportLog(log *models.ImportLog) error {
	return r.db.Save(log).Error
}
