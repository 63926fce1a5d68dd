package services

import (
	"context"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/repository"
)

type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log records an audit entry
func (s *AuditService) Log(ctx context.Context, orgID, actorID uint, action, entity string, entityID uint, details, ip, userAgent string) error {
	entry := &models.AuditLog{
		OrganizationID: orgID,
		ActorID:        actorID,
		Action:         action,
		Entity:         entity,
		EntityID:       entityID,
		Details:        details,
		IPAddress:      ip,
		UserAgent:      userAgent,
	}
	return s.repo.Create(ctx, entry)
}

// History retrieves the audit trail for one record
func (s *AuditService) History(ctx context.Context, orgID uint, entity string, entityID uint, query *repository.ListQuery) ([]models.AuditLog, int64, error) {
	return s.repo.FindByEntity(ctx, orgID, entity, entityID, query)
}
