package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one settlement event recorded against an invoice.
// Rows are immutable once created; corrections are recorded as new
// transactions, never edits, so the invoice's amount_paid always equals the
// sum of its transaction amounts.
type Transaction struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrganizationID uint            `gorm:"not null;index" json:"organization_id"`
	InvoiceID      uint            `gorm:"not null;index" json:"invoice_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method         string          `gorm:"not null" json:"method"`
	PaidAt         time.Time       `gorm:"not null;index" json:"paid_at"`
	Reference      string          `gorm:"not null;index" json:"reference"`
	BankName       *string         `json:"bank_name"`
	AccountNumber  *string         `json:"account_number"`
	ReceiptPath    *string         `json:"-"`
	CreatedAt      time.Time       `json:"created_at"`

	// Associations
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// Payment method constants
const (
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCash         = "cash"
	PaymentMethodCheque       = "cheque"
	PaymentMethodPOS          = "pos"
	PaymentMethodOnline       = "online"
)

// ValidPaymentMethod returns true for a recognized settlement method
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodCheque,
		PaymentMethodPOS, PaymentMethodOnline:
		return true
	}
	return false
}

// TransactionResponse is the JSON response format for transactions
type TransactionResponse struct {
	ID            uint            `json:"id"`
	InvoiceID     uint            `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	PaidAt        time.Time       `json:"paid_at"`
	Reference     string          `json:"reference"`
	BankName      *string         `json:"bank_name,omitempty"`
	AccountNumber *string         `json:"account_number,omitempty"`
	HasReceipt    bool            `json:"has_receipt"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToResponse converts Transaction to TransactionResponse
func (t *Transaction) ToResponse() TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		InvoiceID:     t.InvoiceID,
		Amount:        t.Amount,
		Method:        t.Method,
		PaidAt:        t.PaidAt,
		Reference:     t.Reference,
		BankName:      t.BankName,
		AccountNumber: t.AccountNumber,
		HasReceipt:    t.ReceiptPath != nil && *t.ReceiptPath != "",
		CreatedAt:     t.CreatedAt,
	}
}
