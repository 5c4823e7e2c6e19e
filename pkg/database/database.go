package database

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const DefaultPath = "./data/pixeltrader.db"

var ErrNotInitialized = errors.New("database not initialized")

// Database holds the GORM database instance
type Database struct {
	conn   *gorm.DB
	logger zerolog.Logger
}

// Option is the functional options pattern for Database
type Option func(*Database) error

// New creates a new Database instance with options
func New(opts ...Option) (*Database, error) {
	db := &Database{logger: zerolog.Nop()}
	for _, opt := range opts {
		if err := opt(db); err != nil {
			return nil, err
		}
	}
	if db.conn == nil {
		return nil, ErrNotInitialized
	}
	return db, nil
}

// WithLogger must precede WithPath to log the connection.
func WithLogger(l zerolog.Logger) Option {
	return func(db *Database) error {
		db.logger = l.With().Str("component", "database").Logger()
		return nil
	}
}

// WithPath opens the SQLite database at path, creating its directory.
func WithPath(path string) Option {
	return func(db *Database) error {
		if path == "" {
			path = DefaultPath
		}

		if !isMemory(path) {
			if err := ensureWritableDir(filepath.Dir(path)); err != nil {
				return err
			}
		}

		conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return errors.Wrapf(err, "failed to connect to database (path: %s)", path)
		}

		if isMemory(path) {
			// each pooled connection would otherwise see its own empty database
			sqlDB, err := conn.DB()
			if err != nil {
				return errors.Wrap(err, "failed to access connection pool")
			}
			sqlDB.SetMaxOpenConns(1)
		}

		db.conn = conn
		db.logger.Info().Str("path", path).Msg("database connected")
		return nil
	}
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory") || strings.HasPrefix(path, "file::memory:")
}

func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create data directory %s", dir)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, "failed to stat data directory %s", dir)
	}
	if !info.IsDir() {
		return errors.Errorf("data path %s is not a directory", dir)
	}

	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("test"), 0o644); err != nil {
		return errors.Wrapf(err, "data directory %s is not writable", dir)
	}
	return os.Remove(probe)
}

// Get returns the underlying GORM database instance
func (d *Database) Get() *gorm.DB {
	return d.conn
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.conn == nil {
		return nil
	}
	sqlDB, err := d.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
