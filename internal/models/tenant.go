package models

import (
	"time"
)

// Tenant represents a person renting a unit
type Tenant struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	FullName       string    `gorm:"not null" json:"full_name"`
	Email          string    `gorm:"not null;index" json:"email"`
	Phone          *string   `json:"phone"`
	Identity       *string   `json:"identity"`
	Occupation     *string   `json:"occupation"`
	Note           *string   `gorm:"type:text" json:"note"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	Leases []Lease `gorm:"foreignKey:TenantID" json:"leases,omitempty"`
}

// TableName specifies the table name for Tenant
func (Tenant) TableName() string {
	return "tenants"
}

// MaskedIdentity masks the tenant identity string for display
func (t *Tenant) MaskedIdentity() string {
	if t.Identity == nil {
		return ""
	}
	identity := *t.Identity
	if len(identity) <= 4 {
		masked := ""
		for range identity {
			masked += "*"
		}
		return masked
	}
	masked := identity[:2]
	for i := 2; i < len(identity)-2; i++ {
		masked += "*"
	}
	return masked + identity[len(identity)-2:]
}
