package repository

import (
	"context"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"gorm.io/gorm"
)

// AuditRepository defines the interface for audit log data access. Logs are
// append-only.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	FindByEntity(ctx context.Context, orgID uint, entity string, entityID uint, query *ListQuery) ([]models.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) FindByEntity(ctx context.Context, orgID uint, entity string, entityID uint, query *ListQuery) ([]models.AuditLog, int64, error) {
	var entries []models.AuditLog
	var total int64

	db := r.db.WithContext(ctx).Model(&models.AuditLog{}).
		Where("organization_id = ? AND entity = ? AND entity_id = ?", orgID, entity, entityID)

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Order("created_at DESC").
		Offset((query.Page - 1) * query.PerPage).
		Limit(query.PerPage).
		Find(&entries).Error

	return entries, total, err
}
