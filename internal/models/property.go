package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property represents a building or estate holding one or more rentable units
type Property struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	OwnerID        uint      `gorm:"not null;index" json:"owner_id"`
	Name           string    `gorm:"not null" json:"name"`
	Address        string    `gorm:"type:text;not null" json:"address"`
	PropertyType   *string   `json:"property_type"`
	Description    *string   `gorm:"type:text" json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	Owner Owner  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Units []Unit `gorm:"foreignKey:PropertyID" json:"units,omitempty"`
}

// TableName specifies the table name for Property
func (Property) TableName() string {
	return "properties"
}

// Unit represents a single rentable unit within a property
type Unit struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrganizationID uint            `gorm:"not null;index" json:"organization_id"`
	PropertyID     uint            `gorm:"not null;index" json:"property_id"`
	Label          string          `gorm:"not null" json:"label"`
	Status         string          `gorm:"default:vacant;index" json:"status"`
	RentAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"rent_amount"`
	Bedrooms       *int            `json:"bedrooms"`
	Bathrooms      *int            `json:"bathrooms"`
	Note           *string         `gorm:"type:text" json:"note"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Associations
	Property Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Leases   []Lease  `gorm:"foreignKey:UnitID" json:"leases,omitempty"`
}

// TableName specifies the table name for Unit
func (Unit) TableName() string {
	return "units"
}

// Unit status constants
const (
	UnitStatusVacant   = "vacant"
	UnitStatusReserved = "reserved"
	UnitStatusOccupied = "occupied"
)

// IsVacant returns true if the unit has no lease holding it
func (u *Unit) IsVacant() bool {
	return u.Status == UnitStatusVacant
}
