package repo

import (
	"pixeltrader/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) ListFavorites() ([]string, error) {
	var symbols []string
	if err := r.db.Model(&models.Favorite{}).Order("created_at ASC").Pluck("symbol", &symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

func (r *Repository) AddFavorite(symbol string) error {
	fav := models.Favorite{Symbol: models.NormalizeSymbol(symbol)}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error
}

func (r *Repository) RemoveFavorite(symbol string) error {
	res := r.db.Delete(&models.Favorite{}, "symbol = ?", models.NormalizeSymbol(symbol))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
