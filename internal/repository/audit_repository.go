package repository

import (
	"context"
	"time"

	"github.com/proyecthub/proyecthub-api/internal/models"
	"gorm.io/gorm"
)

// AuditRepository defines the interface for audit log data access
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	FindByID(ctx context.Context, id uint) (*models.AuditLog, error)
	List(ctx context.Context) ([]models.AuditLog, error)
	MarkRestored(ctx context.Context, id uint, at time.Time, by *uint) error
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *auditRepository) FindByID(ctx context.Context, id uint) (*models.AuditLog, error) {
	var entry models.AuditLog
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

// List returns every entry, newest first.
func (r *auditRepository) List(ctx context.Context) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Order("id DESC").
		Find(&entries).Error
	return entries, err
}

// MarkRestored sets the terminal restore flag. The update only matches an
// entry that is still active, so a concurrent second restore gets ErrConflict.
func (r *auditRepository) MarkRestored(ctx context.Context, id uint, at time.Time, by *uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("id = ? AND restored_at IS NULL", id).
		Updates(map[string]interface{}{
			"restored_at": at,
			"revoked_by":  by,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}
