package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/config"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/jobs"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/repository"
	"github.com/OsatohanmwenT/estate-prop-sub002/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentService struct {
	invoiceRepo     repository.InvoiceRepository
	transactionRepo repository.TransactionRepository
	leaseRepo       repository.LeaseRepository
	tenantRepo      repository.TenantRepository
	leaseSvc        *LeaseService
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	worker          *jobs.Worker
	cfg             *config.Config
}

func NewPaymentService(
	invoiceRepo repository.InvoiceRepository,
	transactionRepo repository.TransactionRepository,
	leaseRepo repository.LeaseRepository,
	tenantRepo repository.TenantRepository,
	leaseSvc *LeaseService,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	worker *jobs.Worker,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		invoiceRepo:     invoiceRepo,
		transactionRepo: transactionRepo,
		leaseRepo:       leaseRepo,
		tenantRepo:      tenantRepo,
		leaseSvc:        leaseSvc,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		worker:          worker,
		cfg:             cfg,
	}
}

// RecordPaymentInput carries the fields of one settlement event
type RecordPaymentInput struct {
	Amount        decimal.Decimal
	Method        string
	PaidAt        time.Time
	Reference     string
	BankName      *string
	AccountNumber *string
}

func (in *RecordPaymentInput) validate() error {
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !models.ValidPaymentMethod(in.Method) {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, in.Method)
	}
	return nil
}

// RecordPayment applies a payment to an invoice. The transaction row and the
// invoice balance update commit together; if the invoice settles and its
// lease was pending, the lease activates.
func (s *PaymentService) RecordPayment(ctx context.Context, orgID, invoiceID uint, input *RecordPaymentInput, actorID uint, ip, userAgent string) (*models.Invoice, *models.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}
	reference := input.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	txn := &models.Transaction{
		Amount:        input.Amount,
		Method:        input.Method,
		PaidAt:        paidAt,
		Reference:     reference,
		BankName:      input.BankName,
		AccountNumber: input.AccountNumber,
	}

	invoice, err := s.invoiceRepo.ApplyPaymentAtomic(ctx, orgID, invoiceID, txn, s.cfg.AllowOverpayment, now)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, nil, ErrNotFound
		case errors.Is(err, repository.ErrInvoiceVoid):
			return nil, nil, fmt.Errorf("%w: invoice is void", ErrInvalidState)
		case errors.Is(err, repository.ErrPaymentExceedsBalance):
			return nil, nil, ErrOverpayment
		default:
			return nil, nil, err
		}
	}

	s.auditSvc.Log(ctx, orgID, actorID, "payment", "invoice", invoice.ID,
		fmt.Sprintf("payment of %s recorded, ref %s", txn.Amount, txn.Reference), ip, userAgent)

	if invoice.IsSettled() && invoice.LeaseID != 0 {
		lease, err := s.leaseRepo.FindByID(ctx, orgID, invoice.LeaseID)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to load lease %d after settlement: %v", invoice.LeaseID, err))
		} else if err := s.leaseSvc.OnInvoiceSettled(ctx, lease); err != nil {
			logger.Error(fmt.Sprintf("failed to activate lease %d: %v", lease.ID, err))
		}
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		tenant, err := s.tenantRepo.FindByID(ctx, orgID, invoice.TenantID)
		if err != nil {
			return err
		}
		if err := s.notificationSvc.NotifyTenant(ctx, orgID, tenant.ID,
			"Payment received",
			fmt.Sprintf("Your payment of %s has been recorded. Reference: %s", txn.Amount, txn.Reference),
			models.NotificationTypePaymentReceived); err != nil {
			return err
		}
		return s.emailSvc.SendPaymentReceived(ctx, tenant, invoice, txn)
	})

	return invoice, txn, nil
}

func (s *PaymentService) FindTransaction(ctx context.Context, orgID, id uint) (*models.Transaction, error) {
	txn, err := s.transactionRepo.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return txn, nil
}

func (s *PaymentService) FindByInvoice(ctx context.Context, orgID, invoiceID uint) ([]models.Transaction, error) {
	if _, err := s.invoiceRepo.FindByID(ctx, orgID, invoiceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.transactionRepo.FindByInvoice(ctx, invoiceID)
}

// CheckOverdueInvoices scans for unpaid invoices past due as of the given
// instant and sends reminders. Invoices reminded within the last week are
// skipped, so the scan can run daily without spamming tenants.
func (s *PaymentService) CheckOverdueInvoices(ctx context.Context, asOf time.Time) (int, error) {
	invoices, err := s.invoiceRepo.FindOverdue(ctx, asOf)
	if err != nil {
		return 0, err
	}

	var reminded []uint
	for i := range invoices {
		invoice := &invoices[i]
		tenant := invoice.Tenant
		if tenant.ID == 0 {
			continue
		}

		if err := s.notificationSvc.NotifyTenant(ctx, invoice.OrganizationID, tenant.ID,
			"Invoice overdue",
			fmt.Sprintf("Your invoice of %s was due on %s. Outstanding balance: %s.",
				invoice.Amount, invoice.DueDate.Format("02 Jan 2006"), invoice.Balance()),
			models.NotificationTypeInvoiceOverdue); err != nil {
			logger.Error(fmt.Sprintf("failed to notify tenant %d: %v", tenant.ID, err))
			continue
		}

		if err := s.emailSvc.SendInvoiceOverdue(ctx, &tenant, invoice, asOf); err != nil {
			logger.Error(fmt.Sprintf("failed to email tenant %d: %v", tenant.ID, err))
		}

		reminded = append(reminded, invoice.ID)
	}

	if err := s.invoiceRepo.MarkReminderSent(ctx, reminded); err != nil {
		return len(reminded), err
	}

	if len(reminded) > 0 {
		logger.Info(fmt.Sprintf("sent %d overdue reminder(s) as of %s", len(reminded), asOf.Format("2006-01-02")))
	}
	return len(reminded), nil
}
