package store

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/shadowbane/home-flood-report/pkg/config"
	"github.com/shadowbane/home-flood-report/pkg/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Columns is the fixed column order of the persisted report file.
var Columns = []string{"lat", "lon", "address", "type", "severity", "image_path"}

// Store persists the full collection of flood reports.
// There is no partial update and no locking; callers serialize writes.
type Store interface {
	// Load returns every stored report in insertion order. A store that
	// has never been written to yields an empty result, not an error.
	Load(ctx context.Context) ([]models.FloodReport, error)
	// Save replaces the stored collection with reports.
	Save(ctx context.Context, reports []models.FloodReport) error
	// Append adds one report without rewriting the rest.
	Append(ctx context.Context, report models.FloodReport) error
}

// New returns the store selected by cfg. The *gorm.DB is nil for the CSV driver.
func New(cfg *config.Config) (Store, *gorm.DB, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverCSV:
		zap.S().Infof("Using CSV record store at %s", cfg.CSVPath)
		return NewCSVStore(cfg.CSVPath), nil, nil
	case config.StoreDriverSQLite, config.StoreDriverMySQL:
		db, err := OpenDB(cfg.StoreDriver, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		s, err := NewGormStore(db)
		if err != nil {
			return nil, nil, err
		}
		zap.S().Infof("Using %s record store", cfg.StoreDriver)
		return s, db, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// OpenDB connects GORM to the given driver.
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.StoreDriverSQLite:
		dialector = sqlite.Open(dsn)
	case config.StoreDriverMySQL:
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s database: %w", driver, err)
	}
	return db, nil
}
