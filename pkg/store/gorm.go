package store

import (
	"context"
	"fmt"

	"github.com/shadowbane/home-flood-report/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormStore keeps reports in a SQL table. Position preserves insertion order.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the reports table and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	zap.S().Debug("Running report store migrations")
	if err := db.AutoMigrate(&models.FloodReport{}); err != nil {
		return nil, fmt.Errorf("failed to migrate flood reports: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load(ctx context.Context) ([]models.FloodReport, error) {
	reports := make([]models.FloodReport, 0)
	result := s.db.WithContext(ctx).
		Order("position ASC").
		Order("created_at ASC").
		Find(&reports)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load flood reports: %w", result.Error)
	}
	return reports, nil
}

// Save replaces every row inside a single transaction.
func (s *GormStore) Save(ctx context.Context, reports []models.FloodReport) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.FloodReport{}).Error; err != nil {
			return fmt.Errorf("failed to delete existing flood reports: %w", err)
		}

		for i := range reports {
			report := reports[i]
			report.Position = i
			if err := tx.Create(&report).Error; err != nil {
				return fmt.Errorf("failed to insert flood report: %w", err)
			}
		}
		return nil
	})
}

func (s *GormStore) Append(ctx context.Context, report models.FloodReport) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int64
		if err := tx.Model(&models.FloodReport{}).
			Select("COALESCE(MAX(position) + 1, 0)").
			Scan(&next).Error; err != nil {
			return fmt.Errorf("failed to read report position: %w", err)
		}

		report.Position = int(next)
		if err := tx.Create(&report).Error; err != nil {
			return fmt.Errorf("failed to insert flood report: %w", err)
		}
		return nil
	})
}
