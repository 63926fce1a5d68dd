package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrInvoiceVoid is returned when a payment targets a voided invoice.
	ErrInvoiceVoid = errors.New("invoice is void and accepts no payments")

	// ErrPaymentExceedsBalance is returned when a payment would push
	// amount_paid beyond the invoice amount and overpayment is not allowed.
	ErrPaymentExceedsBalance = errors.New("payment exceeds invoice balance")
)

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	FindByID(ctx context.Context, orgID, id uint) (*models.Invoice, error)
	FindByIDWithTransactions(ctx context.Context, orgID, id uint) (*models.Invoice, error)
	FindByLease(ctx context.Context, orgID, leaseID uint) ([]models.Invoice, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, orgID uint, query *ListQuery) ([]models.Invoice, int64, error)
	ApplyPaymentAtomic(ctx context.Context, orgID, invoiceID uint, txn *models.Transaction, allowOverpayment bool, now time.Time) (*models.Invoice, error)
	FindOverdue(ctx context.Context, asOf time.Time) ([]models.Invoice, error)
	MarkReminderSent(ctx context.Context, invoiceIDs []uint) error
	FindPaidByOwner(ctx context.Context, orgID, ownerID uint) ([]models.Invoice, error)
	LatestRentInvoice(ctx context.Context, leaseID uint) (*models.Invoice, error)
	ExistsForPeriod(ctx context.Context, leaseID uint, periodStart time.Time) (bool, error)
	GetMonthlyStats(ctx context.Context, orgID uint) (*InvoiceStats, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByIDWithTransactions(ctx context.Context, orgID, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Preload("Tenant").
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("paid_at ASC, id ASC")
		}).
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByLease(ctx context.Context, orgID, leaseID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND lease_id = ?", orgID, leaseID).
		Order("due_date ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Invoice{}, id).Error
}

func (r *invoiceRepository) List(ctx context.Context, orgID uint, query *ListQuery) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("invoices.organization_id = ?", orgID)

	if status := query.Filters["status"]; status != "" {
		if status == models.InvoiceStatusOverdue {
			// Virtual filter: unpaid invoices past due, whatever is stored
			db = db.Where("invoices.status NOT IN ? AND invoices.amount_paid < invoices.amount AND invoices.due_date < CURRENT_DATE",
				[]string{models.InvoiceStatusVoid, models.InvoiceStatusDraft})
		} else if strings.Contains(status, ",") {
			db = db.Where("invoices.status IN ?", strings.Split(status, ","))
		} else {
			db = db.Where("invoices.status = ?", status)
		}
	}
	if leaseID := query.Filters["lease_id"]; leaseID != "" {
		db = db.Where("invoices.lease_id = ?", leaseID)
	}
	if tenantID := query.Filters["tenant_id"]; tenantID != "" {
		db = db.Where("invoices.tenant_id = ?", tenantID)
	}
	if val := query.Filters["due_from"]; val != "" {
		db = db.Where("invoices.due_date >= ?", val)
	}
	if val := query.Filters["due_to"]; val != "" {
		db = db.Where("invoices.due_date <= ?", val)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN tenants ON tenants.id = invoices.tenant_id").
			Where("tenants.full_name ILIKE ? OR tenants.email ILIKE ? OR COALESCE(invoices.description, '') ILIKE ?",
				search, search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := "invoices." + query.SortBy
		if strings.ToLower(query.SortDir) == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("invoices.due_date ASC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Select("invoices.*").
		Preload("Tenant").
		Find(&invoices).Error

	return invoices, total, err
}

// ApplyPaymentAtomic inserts the transaction row and applies it to the
// invoice balance in one database transaction. The balance update is a
// guarded server-side increment, so two concurrent payments can never both
// read a stale amount_paid, and a crash can never leave the transaction sum
// and amount_paid out of step.
func (r *invoiceRepository) ApplyPaymentAtomic(ctx context.Context, orgID, invoiceID uint, txn *models.Transaction, allowOverpayment bool, now time.Time) (*models.Invoice, error) {
	var updated models.Invoice

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.Where("organization_id = ?", orgID).First(&invoice, invoiceID).Error; err != nil {
			return err
		}
		if invoice.Status == models.InvoiceStatusVoid {
			return ErrInvoiceVoid
		}

		update := tx.Model(&models.Invoice{}).
			Where("id = ? AND status <> ?", invoice.ID, models.InvoiceStatusVoid)
		if !allowOverpayment {
			update = update.Where("amount_paid + ? <= amount", txn.Amount)
		}
		res := update.UpdateColumn("amount_paid", gorm.Expr("amount_paid + ?", txn.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPaymentExceedsBalance
		}

		txn.OrganizationID = invoice.OrganizationID
		txn.InvoiceID = invoice.ID
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		// Re-read the incremented balance and persist the derived status
		if err := tx.First(&updated, invoice.ID).Error; err != nil {
			return err
		}
		status := models.DeriveInvoiceStatus(updated.Status, updated.Amount, updated.AmountPaid, updated.DueDate, now)
		if status != updated.Status {
			if err := tx.Model(&models.Invoice{}).Where("id = ?", updated.ID).
				UpdateColumn("status", status).Error; err != nil {
				return err
			}
			updated.Status = status
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// FindOverdue returns unpaid, unvoided invoices past due as of the given
// instant. The explicit timestamp keeps the scan deterministic and re-runnable.
func (r *invoiceRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("status NOT IN ?", []string{models.InvoiceStatusVoid, models.InvoiceStatusDraft}).
		Where("amount_paid < amount AND due_date < ?", asOf).
		Where("reminder_sent_at IS NULL OR reminder_sent_at < ?", asOf.AddDate(0, 0, -7)).
		Preload("Tenant").
		Preload("Lease").
		Order("due_date ASC").
		Find(&invoices).Error
	return invoices, err
}

// MarkReminderSent stamps reminder_sent_at for the given invoice IDs
func (r *invoiceRepository) MarkReminderSent(ctx context.Context, invoiceIDs []uint) error {
	if len(invoiceIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("id IN ?", invoiceIDs).
		Update("reminder_sent_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// FindPaidByOwner returns fully paid invoices across all units of the
// owner's properties. Partially paid invoices are excluded; they do not
// count as realized revenue until settled.
func (r *invoiceRepository) FindPaidByOwner(ctx context.Context, orgID, ownerID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Joins("JOIN units ON units.id = invoices.unit_id").
		Joins("JOIN properties ON properties.id = units.property_id AND properties.owner_id = ?", ownerID).
		Where("invoices.organization_id = ? AND invoices.status = ?", orgID, models.InvoiceStatusPaid).
		Order("invoices.due_date ASC").
		Find(&invoices).Error
	return invoices, err
}

// LatestRentInvoice returns the rent invoice with the latest period end for
// a lease, used to anchor the next recurring period.
func (r *invoiceRepository) LatestRentInvoice(ctx context.Context, leaseID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Where("lease_id = ? AND invoice_type = ? AND status <> ?",
			leaseID, models.InvoiceTypeRent, models.InvoiceStatusVoid).
		Order("period_end DESC").
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) ExistsForPeriod(ctx context.Context, leaseID uint, periodStart time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("lease_id = ? AND period_start = ? AND status <> ?",
			leaseID, periodStart, models.InvoiceStatusVoid).
		Count(&count).Error
	return count > 0, err
}

// InvoiceStats holds monthly billing statistics
type InvoiceStats struct {
	PendingThisMonth   decimal.Decimal `json:"pending_this_month"`
	CollectedThisMonth decimal.Decimal `json:"collected_this_month"`
	TotalOverdue       decimal.Decimal `json:"total_overdue"`
}

func (r *invoiceRepository) GetMonthlyStats(ctx context.Context, orgID uint) (*InvoiceStats, error) {
	stats := &InvoiceStats{}

	var pending, collected, overdue decimal.Decimal

	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select("COALESCE(SUM(amount - amount_paid), 0)").
		Where("organization_id = ? AND status IN ?", orgID,
			[]string{models.InvoiceStatusPending, models.InvoiceStatusPartial}).
		Where("EXTRACT(MONTH FROM due_date) = EXTRACT(MONTH FROM CURRENT_DATE) AND EXTRACT(YEAR FROM due_date) = EXTRACT(YEAR FROM CURRENT_DATE)").
		Scan(&pending).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("organization_id = ?", orgID).
		Where("EXTRACT(MONTH FROM paid_at) = EXTRACT(MONTH FROM CURRENT_DATE) AND EXTRACT(YEAR FROM paid_at) = EXTRACT(YEAR FROM CURRENT_DATE)").
		Scan(&collected).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select("COALESCE(SUM(amount - amount_paid), 0)").
		Where("organization_id = ? AND status NOT IN ?", orgID,
			[]string{models.InvoiceStatusVoid, models.InvoiceStatusDraft}).
		Where("amount_paid < amount AND due_date < CURRENT_DATE").
		Scan(&overdue).Error
	if err != nil {
		return nil, err
	}

	stats.PendingThisMonth = pending
	stats.CollectedThisMonth = collected
	stats.TotalOverdue = overdue

	return stats, nil
}

// TransactionRepository defines the interface for payment transaction data
// access. Transactions are append-only.
type TransactionRepository interface {
	FindByID(ctx context.Context, orgID, id uint) (*models.Transaction, error)
	FindByInvoice(ctx context.Context, invoiceID uint) ([]models.Transaction, error)
	SumByInvoice(ctx context.Context, invoiceID uint) (decimal.Decimal, error)
	UpdateReceiptPath(ctx context.Context, id uint, path string) error
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Preload("Invoice.Tenant").
		First(&txn, id).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) FindByInvoice(ctx context.Context, invoiceID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("paid_at ASC, id ASC").
		Find(&txns).Error
	return txns, err
}

func (r *transactionRepository) SumByInvoice(ctx context.Context, invoiceID uint) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("invoice_id = ?", invoiceID).
		Scan(&sum).Error
	return sum, err
}

func (r *transactionRepository) UpdateReceiptPath(ctx context.Context, id uint, path string) error {
	return r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("receipt_path", path).Error
}
