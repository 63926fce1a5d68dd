package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Organization represents a property-management company. Every other record
// is scoped to exactly one organization.
type Organization struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	Name                 string          `gorm:"not null" json:"name"`
	Email                *string         `json:"email"`
	Phone                *string         `json:"phone"`
	Address              *string         `gorm:"type:text" json:"address"`
	ManagementFeePercent decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0.10" json:"management_fee_percent"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Organization
func (Organization) TableName() string {
	return "organizations"
}

// Owner represents a property owner managed on behalf of by the organization.
type Owner struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	FullName       string    `gorm:"not null" json:"full_name"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	Address        *string   `gorm:"type:text" json:"address"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	Properties []Property `gorm:"foreignKey:OwnerID" json:"properties,omitempty"`
}

// TableName specifies the table name for Owner
func (Owner) TableName() string {
	return "owners"
}
