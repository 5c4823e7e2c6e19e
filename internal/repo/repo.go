package repo

import (
	"pixeltrader/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNilDatabase     = errors.New("database cannot be nil")
	ErrDuplicateSymbol = errors.New("asset symbol already exists")
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(
		&models.Asset{},
		&models.Transaction{},
		&models.Favorite{},
		&models.ImportLog{},
	)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
