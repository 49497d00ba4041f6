package analyses

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/killallgit/rgain-analyzer/internal/models"
)

// repository implements AnalysisRepository
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new analysis history repository
func NewRepository(db *gorm.DB) AnalysisRepository {
	return &repository{db: db}
}

// Create stores a new record
func (r *repository) Create(ctx context.Context, record *models.AnalysisRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByUUID retrieves a record by its public ID
func (r *repository) GetByUUID(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	err := r.db.WithContext(ctx).
		Where("uuid = ?", id).
		First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, err
	}

	return &record, nil
}

// List returns a page of records matching opts and the unpaged total
func (r *repository) List(ctx context.Context, opts ListOptions) ([]models.AnalysisRecord, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		if opts.Status != "" {
			db = db.Where("status = ?", opts.Status)
		}
		if opts.FilePath != "" {
			db = db.Where("file_path = ?", opts.FilePath)
		}
		return db
	}

	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.AnalysisRecord{}).
		Scopes(filter).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Scopes(filter).Order("created_at DESC, id DESC")
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var records []models.AnalysisRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// DeleteByUUID removes a record by its public ID
func (r *repository) DeleteByUUID(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("uuid = ?", id).
		Delete(&models.AnalysisRecord{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrAnalysisNotFound
	}

	return nil
}

// DeleteOlderThan permanently removes records created before cutoff
func (r *repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&models.AnalysisRecord{})

	return result.RowsAffected, result.Error
}
