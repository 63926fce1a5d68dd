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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceService struct {
	repo            repository.InvoiceRepository
	leaseRepo       repository.LeaseRepository
	tenantRepo      repository.TenantRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	worker          *jobs.Worker
	cfg             *config.Config
}

func NewInvoiceService(
	repo repository.InvoiceRepository,
	leaseRepo repository.LeaseRepository,
	tenantRepo repository.TenantRepository,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	worker *jobs.Worker,
	cfg *config.Config,
) *InvoiceService {
	return &InvoiceService{
		repo:            repo,
		leaseRepo:       leaseRepo,
		tenantRepo:      tenantRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		worker:          worker,
		cfg:             cfg,
	}
}

func (s *InvoiceService) FindByID(ctx context.Context, orgID, id uint) (*models.Invoice, error) {
	invoice, err := s.repo.FindByIDWithTransactions(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) FindByLease(ctx context.Context, orgID, leaseID uint) ([]models.Invoice, error) {
	return s.repo.FindByLease(ctx, orgID, leaseID)
}

func (s *InvoiceService) List(ctx context.Context, orgID uint, query *repository.ListQuery) ([]models.Invoice, int64, error) {
	return s.repo.List(ctx, orgID, query)
}

func (s *InvoiceService) GetStats(ctx context.Context, orgID uint) (*repository.InvoiceStats, error) {
	return s.repo.GetMonthlyStats(ctx, orgID)
}

// UpdateInvoiceInput carries the editable fields of an unpaid invoice
type UpdateInvoiceInput struct {
	Amount      *decimal.Decimal
	DueDate     *time.Time
	Description *string
}

// Update edits an invoice's amount, due date or description. Invoices with
// money recorded against them are locked; corrections go through payments.
func (s *InvoiceService) Update(ctx context.Context, orgID, id uint, input *UpdateInvoiceInput, actorID uint, ip, userAgent string) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if invoice.Status == models.InvoiceStatusVoid {
		return nil, fmt.Errorf("%w: invoice is void", ErrInvalidState)
	}
	if invoice.AmountPaid.IsPositive() {
		return nil, fmt.Errorf("%w: invoice has recorded payments", ErrInvalidState)
	}

	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
		}
		invoice.Amount = *input.Amount
	}
	if input.DueDate != nil {
		invoice.DueDate = *input.DueDate
	}
	if input.Description != nil {
		invoice.Description = input.Description
	}

	invoice.Status = invoice.StatusAsOf(time.Now())

	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, orgID, actorID, "update", "invoice", invoice.ID, "invoice edited", ip, userAgent)
	return invoice, nil
}

// MarkVoid cancels an invoice. Only invoices with no payments can be voided.
func (s *InvoiceService) MarkVoid(ctx context.Context, orgID, id uint, actorID uint, ip, userAgent string) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !invoice.MayVoid() {
		return nil, fmt.Errorf("%w: invoice cannot be voided", ErrInvalidState)
	}

	invoice.Status = models.InvoiceStatusVoid
	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, orgID, actorID, "void", "invoice", invoice.ID, "invoice voided", ip, userAgent)
	return invoice, nil
}

// Delete hard-deletes an invoice. Only invoices that never saw money can be
// deleted; anything else should be voided to keep the trail.
func (s *InvoiceService) Delete(ctx context.Context, orgID, id uint, actorID uint, ip, userAgent string) error {
	invoice, err := s.repo.FindByIDWithTransactions(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !invoice.MayDelete() {
		return fmt.Errorf("%w: invoice has recorded payments", ErrInvalidState)
	}

	if err := s.repo.Delete(ctx, invoice.ID); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, orgID, actorID, "delete", "invoice", id, "invoice deleted", ip, userAgent)
	return nil
}

// GenerateNextInvoice issues the rent invoice for the billing period after
// the latest one on the lease. Calling it twice for the same period is a
// no-op; the period check makes it idempotent.
func (s *InvoiceService) GenerateNextInvoice(ctx context.Context, orgID, leaseID uint, actorID uint, ip, userAgent string) (*models.Invoice, error) {
	lease, err := s.leaseRepo.FindByID(ctx, orgID, leaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if lease.Status != models.LeaseStatusActive {
		return nil, fmt.Errorf("%w: invoices can only be generated for active leases", ErrInvalidState)
	}

	latest, err := s.repo.LatestRentInvoice(ctx, lease.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var periodStart time.Time
	if latest == nil {
		periodStart = lease.StartDate
	} else {
		periodStart = NextPeriodStart(latest.PeriodStart, lease.BillingCycle)
	}

	if periodStart.After(lease.EndDate) {
		return nil, fmt.Errorf("%w: lease is fully billed through %s", ErrInvalidState, lease.EndDate.Format("2006-01-02"))
	}

	exists, err := s.repo.ExistsForPeriod(ctx, lease.ID, periodStart)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: invoice for period starting %s already exists", ErrDuplicate, periodStart.Format("2006-01-02"))
	}

	invoice := &models.Invoice{
		OrganizationID: orgID,
		LeaseID:        lease.ID,
		TenantID:       lease.TenantID,
		UnitID:         lease.UnitID,
		InvoiceType:    models.InvoiceTypeRent,
		Amount:         RecurringInvoiceAmount(lease),
		PeriodStart:    periodStart,
		PeriodEnd:      PeriodEnd(periodStart, lease.BillingCycle),
		DueDate:        InvoiceDueDate(periodStart, s.cfg.InvoiceGraceDays),
		Status:         models.InvoiceStatusPending,
	}

	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, orgID, actorID, "generate", "invoice", invoice.ID,
		fmt.Sprintf("rent invoice for period starting %s", periodStart.Format("2006-01-02")), ip, userAgent)

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		tenant, err := s.tenantRepo.FindByID(ctx, orgID, lease.TenantID)
		if err != nil {
			return err
		}
		if err := s.notificationSvc.NotifyTenant(ctx, orgID, tenant.ID,
			"New invoice",
			fmt.Sprintf("An invoice of %s is due on %s.", invoice.Amount, invoice.DueDate.Format("02 Jan 2006")),
			models.NotificationTypeInvoiceIssued); err != nil {
			return err
		}
		return s.emailSvc.SendInvoiceIssued(ctx, tenant, invoice, "")
	})

	return invoice, nil
}

// GenerateDueInvoices issues the next rent invoice for every active lease
// whose current billing period ends within the lookahead window. Used by the
// scheduled generation job; skips leases that are already billed ahead.
func (s *InvoiceService) GenerateDueInvoices(ctx context.Context, asOf time.Time, lookaheadDays int) (int, error) {
	leases, err := s.leaseRepo.FindActive(ctx)
	if err != nil {
		return 0, err
	}

	generated := 0

	horizon := asOf.AddDate(0, 0, lookaheadDays)
	for i := range leases {
		lease := &leases[i]

		latest, err := s.repo.LatestRentInvoice(ctx, lease.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			logger.Error(fmt.Sprintf("lease %d: %v", lease.ID, err))
			continue
		}

		next := NextPeriodStart(latest.PeriodStart, lease.BillingCycle)
		if next.After(lease.EndDate) || next.After(horizon) {
			continue
		}

		if _, err := s.GenerateNextInvoice(ctx, lease.OrganizationID, lease.ID, 0, "", "scheduler"); err != nil {
			if !errors.Is(err, ErrDuplicate) && !errors.Is(err, ErrInvalidState) {
				logger.Error(fmt.Sprintf("lease %d: %v", lease.ID, err))
			}
			continue
		}
		generated++
	}

	if generated > 0 {
		logger.Info(fmt.Sprintf("generated %d rent invoice(s)", generated))
	}
	return generated, nil
}
