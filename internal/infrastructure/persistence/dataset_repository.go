package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/retailops/analytics/internal/domain/sales"
	"github.com/retailops/analytics/internal/infrastructure/persistence/models"
)

const insertBatchSize = 500

// GormDatasetRepository implements sales.DatasetRepository. Each Replace
// method swaps the previous table contents for the new rows inside one
// transaction, so a failed load leaves the table untouched.
type GormDatasetRepository struct {
	db *gorm.DB
}

// NewGormDatasetRepository creates a new GormDatasetRepository.
func NewGormDatasetRepository(db *gorm.DB) *GormDatasetRepository {
	return &GormDatasetRepository{db: db}
}

// ReplaceOrderLines swaps the order_lines table for the given rows.
func (r *GormDatasetRepository) ReplaceOrderLines(ctx context.Context, lines []sales.OrderLine) error {
	rows := make([]models.OrderLine, len(lines))
	for i := range lines {
		rows[i] = models.OrderLineFromDomain(&lines[i])
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
}

// ReplacePeople swaps the people table for the given rows.
func (r *GormDatasetRepository) ReplacePeople(ctx context.Context, people []sales.Person) error {
	rows := make([]models.Person, len(people))
	for i := range people {
		rows[i] = models.PersonFromDomain(&people[i])
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Person{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
}

// ReplaceReturns swaps the returns table for the given rows.
func (r *GormDatasetRepository) ReplaceReturns(ctx context.Context, returns []sales.Return) error {
	rows := make([]models.Return, len(returns))
	for i := range returns {
		rows[i] = models.ReturnFromDomain(&returns[i])
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Return{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
}

// CountOrderLines returns the number of loaded order lines.
func (r *GormDatasetRepository) CountOrderLines(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.OrderLine{}).Count(&n).Error
	return n, err
}

// CountPeople returns the number of loaded manager rows.
func (r *GormDatasetRepository) CountPeople(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Person{}).Count(&n).Error
	return n, err
}

// CountReturns returns the number of loaded return rows.
func (r *GormDatasetRepository) CountReturns(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Return{}).Count(&n).Error
	return n, err
}
