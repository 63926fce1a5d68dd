package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lease represents one tenancy agreement for one unit/tenant pair.
// Renewal never mutates the period of an existing lease; it spawns a new row
// linked back through PreviousLeaseID.
type Lease struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	OrganizationID    uint            `gorm:"not null;index" json:"organization_id"`
	PropertyID        uint            `gorm:"not null;index" json:"property_id"`
	UnitID            uint            `gorm:"not null;index" json:"unit_id"`
	TenantID          uint            `gorm:"not null;index" json:"tenant_id"`
	PreviousLeaseID   *uint           `gorm:"index" json:"previous_lease_id"`
	StartDate         time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate           time.Time       `gorm:"type:date;not null" json:"end_date"`
	RentAmount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"rent_amount"`
	BillingCycle      string          `gorm:"default:annually;not null" json:"billing_cycle"`
	CautionDeposit    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"caution_deposit"`
	AgencyFee         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"agency_fee"`
	LegalFee          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"legal_fee"`
	Status            string          `gorm:"default:pending;not null;index" json:"status"`
	TerminationDate   *time.Time      `gorm:"type:date" json:"termination_date"`
	TerminationReason *string         `gorm:"type:text" json:"termination_reason"`
	AgreementPath     *string         `json:"-"`
	Notes             *string         `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// Associations
	Unit     Unit      `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Tenant   Tenant    `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Invoices []Invoice `gorm:"foreignKey:LeaseID" json:"invoices,omitempty"`
}

// TableName specifies the table name for Lease
func (Lease) TableName() string {
	return "leases"
}

// Lease status constants
const (
	LeaseStatusDraft      = "draft"
	LeaseStatusPending    = "pending"
	LeaseStatusActive     = "active"
	LeaseStatusTerminated = "terminated"
	LeaseStatusExpired    = "expired"
)

// Billing cycle constants
const (
	BillingCycleMonthly    = "monthly"
	BillingCycleQuarterly  = "quarterly"
	BillingCycleBiannually = "biannually"
	BillingCycleAnnually   = "annually"
)

// CycleMonths returns the number of calendar months covered by one billing
// period, or 0 for an unknown cycle.
func CycleMonths(cycle string) int {
	switch cycle {
	case BillingCycleMonthly:
		return 1
	case BillingCycleQuarterly:
		return 3
	case BillingCycleBiannually:
		return 6
	case BillingCycleAnnually:
		return 12
	default:
		return 0
	}
}

// ValidBillingCycle returns true for a recognized billing cycle value
func ValidBillingCycle(cycle string) bool {
	return CycleMonths(cycle) > 0
}

// MaySubmit returns true if the lease can move from draft to pending
func (l *Lease) MaySubmit() bool {
	return l.Status == LeaseStatusDraft && l.UnitID != 0 && l.TenantID != 0
}

// MayActivate returns true if the lease can transition to active
func (l *Lease) MayActivate() bool {
	return l.Status == LeaseStatusPending
}

// MayTerminate returns true if the lease can be terminated
func (l *Lease) MayTerminate() bool {
	return l.Status == LeaseStatusActive
}

// MayRenew returns true if the lease can be used as the source of a renewal
func (l *Lease) MayRenew() bool {
	return l.Status == LeaseStatusActive
}

// MayExpire returns true if the expiry scan can retire the lease as of now
func (l *Lease) MayExpire(now time.Time) bool {
	return l.Status == LeaseStatusActive && l.EndDate.Before(now)
}

// LeaseResponse is the JSON response format for leases
type LeaseResponse struct {
	ID                uint            `json:"id"`
	OrganizationID    uint            `json:"organization_id"`
	PropertyID        uint            `json:"property_id"`
	UnitID            uint            `json:"unit_id"`
	TenantID          uint            `json:"tenant_id"`
	PreviousLeaseID   *uint           `json:"previous_lease_id,omitempty"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	RentAmount        decimal.Decimal `json:"rent_amount"`
	BillingCycle      string          `json:"billing_cycle"`
	CautionDeposit    decimal.Decimal `json:"caution_deposit"`
	AgencyFee         decimal.Decimal `json:"agency_fee"`
	LegalFee          decimal.Decimal `json:"legal_fee"`
	Status            string          `json:"status"`
	TerminationDate   *time.Time      `json:"termination_date,omitempty"`
	TerminationReason *string         `json:"termination_reason,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
	HasAgreement      bool            `json:"has_agreement"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	UnitLabel  string            `json:"unit_label,omitempty"`
	TenantName string            `json:"tenant_name,omitempty"`
	Invoices   []InvoiceResponse `json:"invoices,omitempty"`
}

// ToResponse converts Lease to LeaseResponse
func (l *Lease) ToResponse() LeaseResponse {
	resp := LeaseResponse{
		ID:                l.ID,
		OrganizationID:    l.OrganizationID,
		PropertyID:        l.PropertyID,
		UnitID:            l.UnitID,
		TenantID:          l.TenantID,
		PreviousLeaseID:   l.PreviousLeaseID,
		StartDate:         l.StartDate,
		EndDate:           l.EndDate,
		RentAmount:        l.RentAmount,
		BillingCycle:      l.BillingCycle,
		CautionDeposit:    l.CautionDeposit,
		AgencyFee:         l.AgencyFee,
		LegalFee:          l.LegalFee,
		Status:            l.Status,
		TerminationDate:   l.TerminationDate,
		TerminationReason: l.TerminationReason,
		Notes:             l.Notes,
		HasAgreement:      l.AgreementPath != nil && *l.AgreementPath != "",
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}

	if l.Unit.ID != 0 {
		resp.UnitLabel = l.Unit.Label
	}
	if l.Tenant.ID != 0 {
		resp.TenantName = l.Tenant.FullName
	}
	for _, inv := range l.Invoices {
		resp.Invoices = append(resp.Invoices, inv.ToResponse())
	}

	return resp
}
