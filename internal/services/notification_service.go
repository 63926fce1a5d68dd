package services

import (
	"context"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/repository"
)

type NotificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) FindByTenant(ctx context.Context, orgID, tenantID uint, query *repository.ListQuery) ([]models.Notification, int64, error) {
	return s.repo.FindByTenant(ctx, orgID, tenantID, query)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, orgID, id uint) error {
	return s.repo.MarkAsRead(ctx, orgID, id)
}

func (s *NotificationService) CountUnread(ctx context.Context, orgID, tenantID uint) (int64, error) {
	return s.repo.CountUnread(ctx, orgID, tenantID)
}

func (s *NotificationService) NotifyTenant(ctx context.Context, orgID, tenantID uint, title, message, notifType string) error {
	notification := &models.Notification{
		OrganizationID:   orgID,
		TenantID:         tenantID,
		Title:            title,
		Message:          message,
		NotificationType: &notifType,
	}
	return s.repo.Create(ctx, notification)
}
