package repo

import (
	"pixeltrader/internal/models"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Asset{},
		&models.Transaction{},
		&models.Favorite{},
		&models.ImportLog{},
	))
	return db
}

func setupRepo(t *testing.T) *Repository {
	repository, err := New(setupTestDB(t))
	require.NoError(t, err)
	return repository
}

func TestNew_NilDatabase(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrNilDatabase)
}

func TestRepository_Migrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repository, err := New(db)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate())

	for _, table := range []string{"assets", "transactions", "favorites", "import_logs"} {
		require.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name                 string
		limit, offset        int
		wantLimit, wantOffet int
	}{
		{"defaults", 0, 0, 20, 0},
		{"max limit", 500, 3, 100, 3},
		{"negative offset", 10, -1, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, o := clampPage(tt.limit, tt.offset)
			require.Equal(t, tt.wantLimit, l)
			require.Equal(t, tt.wantOffet, o)
		})
	}
}
