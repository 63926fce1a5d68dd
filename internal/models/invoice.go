package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents one bill owed by a tenant for a lease period or a
// one-off charge. AmountPaid is a running total reconciled against the
// invoice's transactions; Status is always derived, never hand-transitioned.
type Invoice struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrganizationID uint            `gorm:"not null;index" json:"organization_id"`
	LeaseID        uint            `gorm:"not null;index" json:"lease_id"`
	TenantID       uint            `gorm:"not null;index" json:"tenant_id"`
	UnitID         uint            `gorm:"not null;index" json:"unit_id"`
	InvoiceType    string          `gorm:"default:rent;not null" json:"invoice_type"`
	Description    *string         `gorm:"type:text" json:"description"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	AmountPaid     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"amount_paid"`
	PeriodStart    time.Time       `gorm:"type:date;not null" json:"period_start"`
	PeriodEnd      time.Time       `gorm:"type:date;not null" json:"period_end"`
	DueDate        time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	Status         string          `gorm:"default:pending;not null;index" json:"status"`
	ReminderSentAt *time.Time      `gorm:"column:reminder_sent_at" json:"-"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Associations
	Lease        Lease         `gorm:"foreignKey:LeaseID" json:"lease,omitempty"`
	Tenant       Tenant        `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:InvoiceID" json:"transactions,omitempty"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// Invoice status constants
const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusPartial = "partial"
	InvoiceStatusOverdue = "overdue"
	InvoiceStatusVoid    = "void"
)

// Invoice type constants
const (
	InvoiceTypeRent    = "rent"
	InvoiceTypeDeposit = "deposit"
	InvoiceTypeFee     = "fee"
)

// DeriveInvoiceStatus computes an invoice's status from its amounts and due
// date as of the given instant. Precedence: void, paid, partial, draft
// (preserved until the invoice is issued), overdue, pending. The same four
// value inputs always produce the same result, which keeps overdue detection
// a read-time concern instead of a stored transition.
func DeriveInvoiceStatus(current string, amount, amountPaid decimal.Decimal, dueDate, now time.Time) string {
	switch {
	case current == InvoiceStatusVoid:
		return InvoiceStatusVoid
	case amountPaid.GreaterThanOrEqual(amount):
		return InvoiceStatusPaid
	case amountPaid.IsPositive():
		return InvoiceStatusPartial
	case current == InvoiceStatusDraft:
		return InvoiceStatusDraft
	case now.After(dueDate):
		return InvoiceStatusOverdue
	default:
		return InvoiceStatusPending
	}
}

// StatusAsOf returns the invoice's derived status at the given instant
func (i *Invoice) StatusAsOf(now time.Time) string {
	return DeriveInvoiceStatus(i.Status, i.Amount, i.AmountPaid, i.DueDate, now)
}

// Balance returns the outstanding amount still owed on the invoice
func (i *Invoice) Balance() decimal.Decimal {
	return i.Amount.Sub(i.AmountPaid)
}

// IsSettled returns true once the invoice is fully paid
func (i *Invoice) IsSettled() bool {
	return i.AmountPaid.GreaterThanOrEqual(i.Amount)
}

// MayVoid returns true if the invoice can be voided. An invoice with money
// recorded against it must be corrected through payments first.
func (i *Invoice) MayVoid() bool {
	return i.Status != InvoiceStatusVoid && !i.AmountPaid.IsPositive()
}

// MayDelete returns true if the invoice can be hard-deleted
func (i *Invoice) MayDelete() bool {
	return !i.AmountPaid.IsPositive() && len(i.Transactions) == 0
}

// IsOverdue returns true when a balance remains past the due date
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.StatusAsOf(now) == InvoiceStatusOverdue
}

// OverdueDays returns the number of whole days past due
func (i *Invoice) OverdueDays(now time.Time) int {
	if !i.IsOverdue(now) {
		return 0
	}
	return int(now.Sub(i.DueDate).Hours() / 24)
}

// InvoiceResponse is the JSON response format for invoices
type InvoiceResponse struct {
	ID             uint                  `json:"id"`
	OrganizationID uint                  `json:"organization_id"`
	LeaseID        uint                  `json:"lease_id"`
	TenantID       uint                  `json:"tenant_id"`
	UnitID         uint                  `json:"unit_id"`
	InvoiceType    string                `json:"invoice_type"`
	Description    *string               `json:"description,omitempty"`
	Amount         decimal.Decimal       `json:"amount"`
	AmountPaid     decimal.Decimal       `json:"amount_paid"`
	Balance        decimal.Decimal       `json:"balance"`
	PeriodStart    time.Time             `json:"period_start"`
	PeriodEnd      time.Time             `json:"period_end"`
	DueDate        time.Time             `json:"due_date"`
	Status         string                `json:"status"`
	OverdueDays    int                   `json:"overdue_days"`
	CreatedAt      time.Time             `json:"created_at"`
	TenantName     string                `json:"tenant_name,omitempty"`
	Transactions   []TransactionResponse `json:"transactions,omitempty"`
}

// ToResponse converts Invoice to InvoiceResponse, deriving status as of now
func (i *Invoice) ToResponse() InvoiceResponse {
	now := time.Now()
	resp := InvoiceResponse{
		ID:             i.ID,
		OrganizationID: i.OrganizationID,
		LeaseID:        i.LeaseID,
		TenantID:       i.TenantID,
		UnitID:         i.UnitID,
		InvoiceType:    i.InvoiceType,
		Description:    i.Description,
		Amount:         i.Amount,
		AmountPaid:     i.AmountPaid,
		Balance:        i.Balance(),
		PeriodStart:    i.PeriodStart,
		PeriodEnd:      i.PeriodEnd,
		DueDate:        i.DueDate,
		Status:         i.StatusAsOf(now),
		OverdueDays:    i.OverdueDays(now),
		CreatedAt:      i.CreatedAt,
	}

	if i.Tenant.ID != 0 {
		resp.TenantName = i.Tenant.FullName
	}
	for _, txn := range i.Transactions {
		resp.Transactions = append(resp.Transactions, txn.ToResponse())
	}

	return resp
}
