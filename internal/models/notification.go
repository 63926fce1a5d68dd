package models

import (
	"time"
)

// Notification represents an in-app notification for a tenant
type Notification struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	OrganizationID   uint       `gorm:"not null;index" json:"organization_id"`
	TenantID         uint       `gorm:"not null;index" json:"tenant_id"`
	Title            string     `gorm:"not null" json:"title"`
	Message          string     `gorm:"not null" json:"message"`
	NotificationType *string    `gorm:"index" json:"notification_type"`
	ReadAt           *time.Time `gorm:"index" json:"read_at"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Associations
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// Notification type constants
const (
	NotificationTypeInvoiceIssued   = "invoice_issued"
	NotificationTypeInvoiceOverdue  = "invoice_overdue"
	NotificationTypePaymentReceived = "payment_received"
	NotificationTypeLeaseActivated  = "lease_activated"
	NotificationTypeLeaseTerminated = "lease_terminated"
	NotificationTypeLeaseExpired    = "lease_expired"
)

// MarkAsRead stamps the notification as read now
func (n *Notification) MarkAsRead() {
	now := time.Now()
	n.ReadAt = &now
}

// IsRead returns true if the notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
