package models

import (
	"time"
)

// AuditLog records who did what to which billing record
type AuditLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	ActorID        uint      `gorm:"index" json:"actor_id"`
	Action         string    `gorm:"not null;index" json:"action"`
	Entity         string    `gorm:"not null;index" json:"entity"`
	EntityID       uint      `gorm:"index" json:"entity_id"`
	Details        string    `gorm:"type:text" json:"details"`
	IPAddress      string    `json:"ip_address"`
	UserAgent      string    `json:"user_agent"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
