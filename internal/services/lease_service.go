package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/config"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/jobs"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/repository"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/statemachine"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/storage"
	"github.com/OsatohanmwenT/estate-prop-sub002/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LeaseService struct {
	repo            repository.LeaseRepository
	unitRepo        repository.UnitRepository
	tenantRepo      repository.TenantRepository
	invoiceRepo     repository.InvoiceRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	storage         *storage.LocalStorage
	worker          *jobs.Worker
	cfg             *config.Config
}

func NewLeaseService(
	repo repository.LeaseRepository,
	unitRepo repository.UnitRepository,
	tenantRepo repository.TenantRepository,
	invoiceRepo repository.InvoiceRepository,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	storage *storage.LocalStorage,
	worker *jobs.Worker,
	cfg *config.Config,
) *LeaseService {
	return &LeaseService{
		repo:            repo,
		unitRepo:        unitRepo,
		tenantRepo:      tenantRepo,
		invoiceRepo:     invoiceRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		storage:         storage,
		worker:          worker,
		cfg:             cfg,
	}
}

// CreateLeaseInput carries the fields needed to open a new lease
type CreateLeaseInput struct {
	UnitID         uint
	TenantID       uint
	StartDate      time.Time
	EndDate        time.Time
	RentAmount     decimal.Decimal
	BillingCycle   string
	CautionDeposit decimal.Decimal
	AgencyFee      decimal.Decimal
	LegalFee       decimal.Decimal
	Notes          *string
}

func (in *CreateLeaseInput) validate() error {
	if !in.EndDate.After(in.StartDate) {
		return fmt.Errorf("%w: end_date must be after start_date", ErrValidation)
	}
	if !in.RentAmount.IsPositive() {
		return fmt.Errorf("%w: rent_amount must be positive", ErrValidation)
	}
	if !models.ValidBillingCycle(in.BillingCycle) {
		return fmt.Errorf("%w: unknown billing cycle %q", ErrValidation, in.BillingCycle)
	}
	if in.CautionDeposit.IsNegative() || in.AgencyFee.IsNegative() || in.LegalFee.IsNegative() {
		return fmt.Errorf("%w: one-off charges cannot be negative", ErrValidation)
	}
	return nil
}

func (s *LeaseService) FindByID(ctx context.Context, orgID, id uint) (*models.Lease, error) {
	lease, err := s.repo.FindByIDWithDetails(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return lease, nil
}

func (s *LeaseService) List(ctx context.Context, orgID uint, query *repository.ListQuery) ([]models.Lease, int64, error) {
	return s.repo.List(ctx, orgID, query)
}

func (s *LeaseService) GetStats(ctx context.Context, orgID uint) (*repository.LeaseStats, error) {
	return s.repo.GetStats(ctx, orgID)
}

// Create opens a new lease together with its move-in invoice. Both rows are
// written in one transaction, and the unit overlap check runs inside that
// transaction, so a half-created lease can never be observed and two racing
// creations cannot both claim the unit. A lease created without a unit or
// tenant stays a draft: no unit hold and no invoice until it is submitted.
func (s *LeaseService) Create(ctx context.Context, orgID uint, input *CreateLeaseInput, actorID uint, ip, userAgent string) (*models.Lease, *models.Invoice, error) {
	if err := input.validate(); err != nil {
		return nil, nil, err
	}

	if input.UnitID == 0 || input.TenantID == 0 {
		return s.createDraft(ctx, orgID, input, actorID, ip, userAgent)
	}

	unit, err := s.unitRepo.FindByID(ctx, orgID, input.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: unit %d", ErrNotFound, input.UnitID)
		}
		return nil, nil, err
	}
	tenant, err := s.tenantRepo.FindByID(ctx, orgID, input.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: tenant %d", ErrNotFound, input.TenantID)
		}
		return nil, nil, err
	}

	lease := &models.Lease{
		OrganizationID: orgID,
		PropertyID:     unit.PropertyID,
		UnitID:         unit.ID,
		TenantID:       tenant.ID,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		RentAmount:     input.RentAmount,
		BillingCycle:   input.BillingCycle,
		CautionDeposit: input.CautionDeposit,
		AgencyFee:      input.AgencyFee,
		LegalFee:       input.LegalFee,
		Status:         models.LeaseStatusDraft,
		Notes:          input.Notes,
	}

	lfsm := statemachine.NewLeaseFSM(lease)
	if err := lfsm.Submit(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	invoice := s.buildFirstInvoice(lease, tenant.ID)

	if err := s.repo.CreateWithInvoice(ctx, lease, invoice); err != nil {
		if errors.Is(err, repository.ErrUnitOccupied) {
			return nil, nil, ErrUnitConflict
		}
		return nil, nil, err
	}

	if err := s.unitRepo.UpdateStatus(ctx, unit.ID, models.UnitStatusReserved); err != nil {
		logger.Error(fmt.Sprintf("failed to reserve unit %d: %v", unit.ID, err))
	}

	s.auditSvc.Log(ctx, orgID, actorID, "create", "lease", lease.ID,
		fmt.Sprintf("lease created for unit %d, tenant %d", unit.ID, tenant.ID), ip, userAgent)

	s.notifyInvoiceIssued(orgID, tenant, invoice, unit.Label)

	return lease, invoice, nil
}

func (s *LeaseService) createDraft(ctx context.Context, orgID uint, input *CreateLeaseInput, actorID uint, ip, userAgent string) (*models.Lease, *models.Invoice, error) {
	lease := &models.Lease{
		OrganizationID: orgID,
		UnitID:         input.UnitID,
		TenantID:       input.TenantID,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		RentAmount:     input.RentAmount,
		BillingCycle:   input.BillingCycle,
		CautionDeposit: input.CautionDeposit,
		AgencyFee:      input.AgencyFee,
		LegalFee:       input.LegalFee,
		Status:         models.LeaseStatusDraft,
		Notes:          input.Notes,
	}

	if input.UnitID != 0 {
		unit, err := s.unitRepo.FindByID(ctx, orgID, input.UnitID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, fmt.Errorf("%w: unit %d", ErrNotFound, input.UnitID)
			}
			return nil, nil, err
		}
		lease.PropertyID = unit.PropertyID
	}
	if input.TenantID != 0 {
		if _, err := s.tenantRepo.FindByID(ctx, orgID, input.TenantID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, fmt.Errorf("%w: tenant %d", ErrNotFound, input.TenantID)
			}
			return nil, nil, err
		}
	}

	if err := s.repo.Create(ctx, lease); err != nil {
		return nil, nil, err
	}

	s.auditSvc.Log(ctx, orgID, actorID, "create", "lease", lease.ID,
		"draft lease created", ip, userAgent)

	return lease, nil, nil
}

// SubmitLeaseInput assigns the parties a draft was created without
type SubmitLeaseInput struct {
	UnitID   uint
	TenantID uint
}

// Submit moves a draft lease to pending: assigns any missing unit/tenant,
// re-checks unit availability and issues the move-in invoice.
func (s *LeaseService) Submit(ctx context.Context, orgID, id uint, input *SubmitLeaseInput, actorID uint, ip, userAgent string) (*models.Lease, *models.Invoice, error) {
	lease, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if lease.Status != models.LeaseStatusDraft {
		return nil, nil, fmt.Errorf("%w: only draft leases can be submitted", ErrInvalidState)
	}

	if input != nil {
		if input.UnitID != 0 {
			lease.UnitID = input.UnitID
		}
		if input.TenantID != 0 {
			lease.TenantID = input.TenantID
		}
	}
	if lease.UnitID == 0 || lease.TenantID == 0 {
		return nil, nil, fmt.Errorf("%w: unit_id and tenant_id are required to submit", ErrValidation)
	}

	unit, err := s.unitRepo.FindByID(ctx, orgID, lease.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: unit %d", ErrNotFound, lease.UnitID)
		}
		return nil, nil, err
	}
	tenant, err := s.tenantRepo.FindByID(ctx, orgID, lease.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: tenant %d", ErrNotFound, lease.TenantID)
		}
		return nil, nil, err
	}
	lease.PropertyID = unit.PropertyID

	lfsm := statemachine.NewLeaseFSM(lease)
	if err := lfsm.Submit(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	invoice := s.buildFirstInvoice(lease, tenant.ID)

	if err := s.repo.SaveWithInvoice(ctx, lease, invoice); err != nil {
		if errors.Is(err, repository.ErrUnitOccupied) {
			return nil, nil, ErrUnitConflict
		}
		return nil, nil, err
	}

	if err := s.unitRepo.UpdateStatus(ctx, unit.ID, models.UnitStatusReserved); err != nil {
		logger.Error(fmt.Sprintf("failed to reserve unit %d: %v", unit.ID, err))
	}

	s.auditSvc.Log(ctx, orgID, actorID, "submit", "lease", lease.ID,
		fmt.Sprintf("lease submitted for unit %d, tenant %d", unit.ID, tenant.ID), ip, userAgent)

	s.notifyInvoiceIssued(orgID, tenant, invoice, unit.Label)

	return lease, invoice, nil
}

// RenewLeaseInput carries the optional overrides for a renewal. Zero values
// fall back to the source lease's terms, except the one-off fees, which
// default to none rather than repeating the move-in charges.
type RenewLeaseInput struct {
	EndDate        time.Time
	RentAmount     decimal.Decimal
	BillingCycle   string
	CautionDeposit decimal.Decimal
	AgencyFee      decimal.Decimal
	LegalFee       decimal.Decimal
	Notes          *string
}

// Renew spawns a fresh lease starting the day after the source lease ends,
// linked back through PreviousLeaseID. The source lease's dates are never
// touched.
func (s *LeaseService) Renew(ctx context.Context, orgID, leaseID uint, input *RenewLeaseInput, actorID uint, ip, userAgent string) (*models.Lease, *models.Invoice, error) {
	source, err := s.repo.FindByID(ctx, orgID, leaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if !source.MayRenew() {
		return nil, nil, fmt.Errorf("%w: only active leases can be renewed", ErrInvalidState)
	}
	if exists, err := s.repo.HasSuccessor(ctx, source.ID); err != nil {
		return nil, nil, err
	} else if exists {
		return nil, nil, fmt.Errorf("%w: lease already renewed", ErrDuplicate)
	}

	rent := input.RentAmount
	if rent.IsZero() {
		rent = source.RentAmount
	}
	if rent.IsNegative() {
		return nil, nil, fmt.Errorf("%w: rent_amount must be positive", ErrValidation)
	}
	cycle := input.BillingCycle
	if cycle == "" {
		cycle = source.BillingCycle
	}
	if !models.ValidBillingCycle(cycle) {
		return nil, nil, fmt.Errorf("%w: unknown billing cycle %q", ErrValidation, cycle)
	}
	if input.CautionDeposit.IsNegative() || input.AgencyFee.IsNegative() || input.LegalFee.IsNegative() {
		return nil, nil, fmt.Errorf("%w: one-off charges cannot be negative", ErrValidation)
	}

	start := source.EndDate.AddDate(0, 0, 1)
	end := input.EndDate
	if end.IsZero() {
		end = AddMonthsClamped(start, LeaseDurationMonths(source.StartDate, source.EndDate)).AddDate(0, 0, -1)
	}
	if !end.After(start) {
		return nil, nil, fmt.Errorf("%w: end_date must be after the renewal start %s", ErrValidation, start.Format("2006-01-02"))
	}

	renewal := &models.Lease{
		OrganizationID:  orgID,
		PropertyID:      source.PropertyID,
		UnitID:          source.UnitID,
		TenantID:        source.TenantID,
		PreviousLeaseID: &source.ID,
		StartDate:       start,
		EndDate:         end,
		RentAmount:      rent,
		BillingCycle:    cycle,
		CautionDeposit:  input.CautionDeposit,
		AgencyFee:       input.AgencyFee,
		LegalFee:        input.LegalFee,
		Status:          models.LeaseStatusDraft,
		Notes:           input.Notes,
	}

	lfsm := statemachine.NewLeaseFSM(renewal)
	if err := lfsm.Submit(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	// First period of rent plus whatever one-off charges the renewal carries
	invoice := &models.Invoice{
		OrganizationID: orgID,
		TenantID:       renewal.TenantID,
		UnitID:         renewal.UnitID,
		InvoiceType:    models.InvoiceTypeRent,
		Amount:         FirstInvoiceAmount(renewal),
		PeriodStart:    start,
		PeriodEnd:      PeriodEnd(start, cycle),
		DueDate:        InvoiceDueDate(start, s.cfg.InvoiceGraceDays),
		Status:         models.InvoiceStatusPending,
	}

	if err := s.repo.CreateWithInvoice(ctx, renewal, invoice); err != nil {
		if errors.Is(err, repository.ErrUnitOccupied) {
			return nil, nil, ErrUnitConflict
		}
		return nil, nil, err
	}

	if s.cfg.RenewalTerminatesPredecessor {
		reason := "renewed"
		if err := s.Terminate(ctx, orgID, source.ID, start.AddDate(0, 0, -1), &reason, actorID, ip, userAgent); err != nil {
			logger.Error(fmt.Sprintf("failed to terminate predecessor lease %d: %v", source.ID, err))
		}
	}

	s.auditSvc.Log(ctx, orgID, actorID, "renew", "lease", renewal.ID,
		fmt.Sprintf("renewal of lease %d", source.ID), ip, userAgent)

	return renewal, invoice, nil
}

// Terminate ends an active lease early and frees its unit
func (s *LeaseService) Terminate(ctx context.Context, orgID, id uint, date time.Time, reason *string, actorID uint, ip, userAgent string) error {
	lease, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	lfsm := statemachine.NewLeaseFSM(lease)
	if err := lfsm.Terminate(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if date.IsZero() {
		date = time.Now()
	}
	lease.TerminationDate = &date
	lease.TerminationReason = reason

	if err := s.repo.Update(ctx, lease); err != nil {
		return err
	}

	if err := s.releaseUnit(ctx, lease); err != nil {
		logger.Error(fmt.Sprintf("failed to release unit %d: %v", lease.UnitID, err))
	}

	s.auditSvc.Log(ctx, orgID, actorID, "terminate", "lease", lease.ID,
		fmt.Sprintf("terminated effective %s", date.Format("2006-01-02")), ip, userAgent)

	s.notificationSvc.NotifyTenant(ctx, orgID, lease.TenantID,
		"Lease terminated",
		fmt.Sprintf("Your lease has been terminated effective %s.", date.Format("02 Jan 2006")),
		models.NotificationTypeLeaseTerminated)

	return nil
}

// OnInvoiceSettled activates a pending lease once its opening invoice is
// fully paid. Safe to call more than once; an already active lease is left
// alone.
func (s *LeaseService) OnInvoiceSettled(ctx context.Context, lease *models.Lease) error {
	if lease.Status != models.LeaseStatusPending {
		return nil
	}

	lfsm := statemachine.NewLeaseFSM(lease)
	if err := lfsm.Activate(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repo.Update(ctx, lease); err != nil {
		return err
	}

	if err := s.unitRepo.UpdateStatus(ctx, lease.UnitID, models.UnitStatusOccupied); err != nil {
		logger.Error(fmt.Sprintf("failed to mark unit %d occupied: %v", lease.UnitID, err))
	}

	s.notificationSvc.NotifyTenant(ctx, lease.OrganizationID, lease.TenantID,
		"Lease activated",
		"Your payment has been received and your lease is now active. Welcome!",
		models.NotificationTypeLeaseActivated)

	logger.Info(fmt.Sprintf("lease %d activated", lease.ID))
	return nil
}

// ExpireLeases retires every active lease whose end date has passed as of
// the given instant and which has no successor renewal. The explicit
// timestamp makes the scan deterministic and safe to re-run.
func (s *LeaseService) ExpireLeases(ctx context.Context, asOf time.Time) (int, error) {
	candidates, err := s.repo.FindExpiryCandidates(ctx, asOf)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range candidates {
		lease := &candidates[i]

		// A lease with a lined-up renewal is handed over, not expired
		hasSuccessor, err := s.repo.HasSuccessor(ctx, lease.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("skipping lease %d: %v", lease.ID, err))
			continue
		}
		if hasSuccessor {
			continue
		}

		lfsm := statemachine.NewLeaseFSM(lease)
		if err := lfsm.Expire(ctx, asOf); err != nil {
			logger.Error(fmt.Sprintf("skipping lease %d: %v", lease.ID, err))
			continue
		}
		if err := s.repo.Update(ctx, lease); err != nil {
			logger.Error(fmt.Sprintf("failed to expire lease %d: %v", lease.ID, err))
			continue
		}
		expired++

		if err := s.releaseUnit(ctx, lease); err != nil {
			logger.Error(fmt.Sprintf("failed to release unit %d: %v", lease.UnitID, err))
		}

		s.notificationSvc.NotifyTenant(ctx, lease.OrganizationID, lease.TenantID,
			"Lease expired",
			fmt.Sprintf("Your lease ended on %s.", lease.EndDate.Format("02 Jan 2006")),
			models.NotificationTypeLeaseExpired)
	}

	if expired > 0 {
		logger.Info(fmt.Sprintf("expired %d lease(s) as of %s", expired, asOf.Format("2006-01-02")))
	}
	return expired, nil
}

// UploadAgreement stores the signed lease agreement document
func (s *LeaseService) UploadAgreement(ctx context.Context, orgID, id uint, file multipart.File, header *multipart.FileHeader) (*models.Lease, error) {
	lease, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !storage.IsValidContentType(header.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("%w: unsupported file type", ErrValidation)
	}
	if header.Size > storage.MaxFileSize() {
		return nil, fmt.Errorf("%w: file too large", ErrValidation)
	}

	path, err := s.storage.Upload(file, header, storage.SubDirAgreements)
	if err != nil {
		return nil, err
	}

	if lease.AgreementPath != nil && *lease.AgreementPath != "" {
		s.storage.Delete(*lease.AgreementPath)
	}
	lease.AgreementPath = &path

	if err := s.repo.Update(ctx, lease); err != nil {
		return nil, err
	}
	return lease, nil
}

// AgreementPath returns the stored path of the lease agreement, if any
func (s *LeaseService) AgreementPath(ctx context.Context, orgID, id uint) (string, error) {
	lease, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if lease.AgreementPath == nil || *lease.AgreementPath == "" {
		return "", ErrNotFound
	}
	return s.storage.GetFullPath(*lease.AgreementPath), nil
}

func (s *LeaseService) buildFirstInvoice(lease *models.Lease, tenantID uint) *models.Invoice {
	desc := "Move-in invoice: first period rent plus one-off charges"
	return &models.Invoice{
		OrganizationID: lease.OrganizationID,
		TenantID:       tenantID,
		UnitID:         lease.UnitID,
		InvoiceType:    models.InvoiceTypeRent,
		Description:    &desc,
		Amount:         FirstInvoiceAmount(lease),
		PeriodStart:    lease.StartDate,
		PeriodEnd:      PeriodEnd(lease.StartDate, lease.BillingCycle),
		DueDate:        InvoiceDueDate(lease.StartDate, s.cfg.InvoiceGraceDays),
		Status:         models.InvoiceStatusPending,
	}
}

func (s *LeaseService) releaseUnit(ctx context.Context, lease *models.Lease) error {
	return s.unitRepo.UpdateStatus(ctx, lease.UnitID, models.UnitStatusVacant)
}

func (s *LeaseService) notifyInvoiceIssued(orgID uint, tenant *models.Tenant, invoice *models.Invoice, unitLabel string) {
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		if err := s.notificationSvc.NotifyTenant(ctx, orgID, tenant.ID,
			"New invoice",
			fmt.Sprintf("An invoice of %s is due on %s.", invoice.Amount, invoice.DueDate.Format("02 Jan 2006")),
			models.NotificationTypeInvoiceIssued); err != nil {
			return err
		}
		return s.emailSvc.SendInvoiceIssued(ctx, tenant, invoice, unitLabel)
	})
}
