package services

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/config"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/jobs"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/repository"
)

// Mock repositories embed the real interface so each test only fills in the
// methods it exercises.

type mockLeaseRepository struct {
	repository.LeaseRepository
	mockFindByID             func(ctx context.Context, orgID, id uint) (*models.Lease, error)
	mockFindByIDWithDetails  func(ctx context.Context, orgID, id uint) (*models.Lease, error)
	mockCreate               func(ctx context.Context, lease *models.Lease) error
	mockCreateWithInvoice    func(ctx context.Context, lease *models.Lease, invoice *models.Invoice) error
	mockSaveWithInvoice      func(ctx context.Context, lease *models.Lease, invoice *models.Invoice) error
	mockUpdate               func(ctx context.Context, lease *models.Lease) error
	mockFindExpiryCandidates func(ctx context.Context, asOf time.Time) ([]models.Lease, error)
	mockFindActive           func(ctx context.Context) ([]models.Lease, error)
	mockHasSuccessor         func(ctx context.Context, leaseID uint) (bool, error)
}

func (m *mockLeaseRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Lease, error) {
	if m.mockFindByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockFindByID(ctx, orgID, id)
}

func (m *mockLeaseRepository) FindByIDWithDetails(ctx context.Context, orgID, id uint) (*models.Lease, error) {
	if m.mockFindByIDWithDetails == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockFindByIDWithDetails(ctx, orgID, id)
}

func (m *mockLeaseRepository) Create(ctx context.Context, lease *models.Lease) error {
	if m.mockCreate == nil {
		return nil
	}
	return m.mockCreate(ctx, lease)
}

func (m *mockLeaseRepository) CreateWithInvoice(ctx context.Context, lease *models.Lease, invoice *models.Invoice) error {
	if m.mockCreateWithInvoice == nil {
		return nil
	}
	return m.mockCreateWithInvoice(ctx, lease, invoice)
}

func (m *mockLeaseRepository) SaveWithInvoice(ctx context.Context, lease *models.Lease, invoice *models.Invoice) error {
	if m.mockSaveWithInvoice == nil {
		return nil
	}
	return m.mockSaveWithInvoice(ctx, lease, invoice)
}

func (m *mockLeaseRepository) Update(ctx context.Context, lease *models.Lease) error {
	if m.mockUpdate == nil {
		return nil
	}
	return m.mockUpdate(ctx, lease)
}

func (m *mockLeaseRepository) FindExpiryCandidates(ctx context.Context, asOf time.Time) ([]models.Lease, error) {
	if m.mockFindExpiryCandidates == nil {
		return nil, nil
	}
	return m.mockFindExpiryCandidates(ctx, asOf)
}

func (m *mockLeaseRepository) FindActive(ctx context.Context) ([]models.Lease, error) {
	if m.mockFindActive == nil {
		return nil, nil
	}
	return m.mockFindActive(ctx)
}

func (m *mockLeaseRepository) HasSuccessor(ctx context.Context, leaseID uint) (bool, error) {
	if m.mockHasSuccessor == nil {
		return false, nil
	}
	return m.mockHasSuccessor(ctx, leaseID)
}

type mockUnitRepository struct {
	repository.UnitRepository
	mockFindByID     func(ctx context.Context, orgID, id uint) (*models.Unit, error)
	mockCreate       func(ctx context.Context, unit *models.Unit) error
	mockUpdateStatus func(ctx context.Context, id uint, status string) error
}

func (m *mockUnitRepository) Create(ctx context.Context, unit *models.Unit) error {
	if m.mockCreate == nil {
		return nil
	}
	return m.mockCreate(ctx, unit)
}

func (m *mockUnitRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Unit, error) {
	if m.mockFindByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockFindByID(ctx, orgID, id)
}

func (m *mockUnitRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	if m.mockUpdateStatus == nil {
		return nil
	}
	return m.mockUpdateStatus(ctx, id, status)
}

type mockTenantRepository struct {
	repository.TenantRepository
	mockFindByID    func(ctx context.Context, orgID, id uint) (*models.Tenant, error)
	mockFindByEmail func(ctx context.Context, orgID uint, email string) (*models.Tenant, error)
	mockCreate      func(ctx context.Context, tenant *models.Tenant) error
}

func (m *mockTenantRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Tenant, error) {
	if m.mockFindByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockFindByID(ctx, orgID, id)
}

func (m *mockTenantRepository) FindByEmail(ctx context.Context, orgID uint, email string) (*models.Tenant, error) {
	if m.mockFindByEmail == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockFindByEmail(ctx, orgID, email)
}

func (m *mockTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	if m.mockCreate == nil {
		return nil
	}
	return m.mockCreate(ctx, tenant)
}

type mockInvoiceRepository struct {
	repository.InvoiceRepository
	mockFindByID                 func(ctx context.Context, orgID, id uint) (*models.Invoice, error)
	mockFindByIDWithTransactions func(ctx context.Context, orgID, id uint) (*models.Invoice, error)
	mockCreate                   func(ctx context.Context, invoice *models.Invoice) error
	mockUpdate                   func(ctx context.Context, invoice *models.Invoice) error
	mockDelete                   func(ctx context.Context, id uint) error
	mockApplyPaymentAtomic       func(ctx context.Context, orgID, invoiceID uint, txn *models.Transaction, allowOverpayment bool, now time.Time) (*models.Invoice, error)
	mockFindOverdue              func(ctx context.Context, asOf time.Time) ([]models.Invoice, error)
	mockMarkReminderSent         func(ctx context.Context, invoiceIDs []uint) error
	mockFindPaidByOwner          func(ctx context.Context, orgID, ownerID uint) ([]models.Invoice, error)
	mockLatestRentInvoice        func(ctx context.Context, leaseID uint) (*models.Invoice, error)
	mockExistsForPeriod          func(ctx context.Context, leaseID uint, periodStart time.Time) (bool, error)
}

func (m *mockInvoiceRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Invoice, error) {
	if m.mockFindByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockFindByID(ctx, orgID, id)
}

func (m *mockInvoiceRepository) FindByIDWithTransactions(ctx context.Context, orgID, id uint) (*models.Invoice, error) {
	if m.mockFindByIDWithTransactions == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockFindByIDWithTransactions(ctx, orgID, id)
}

func (m *mockInvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	if m.mockCreate == nil {
		return nil
	}
	return m.mockCreate(ctx, invoice)
}

func (m *mockInvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	if m.mockUpdate == nil {
		return nil
	}
	return m.mockUpdate(ctx, invoice)
}

func (m *mockInvoiceRepository) Delete(ctx context.Context, id uint) error {
	if m.mockDelete == nil {
		return nil
	}
	return m.mockDelete(ctx, id)
}

func (m *mockInvoiceRepository) ApplyPaymentAtomic(ctx context.Context, orgID, invoiceID uint, txn *models.Transaction, allowOverpayment bool, now time.Time) (*models.Invoice, error) {
	if m.mockApplyPaymentAtomic == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockApplyPaymentAtomic(ctx, orgID, invoiceID, txn, allowOverpayment, now)
}

func (m *mockInvoiceRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]models.Invoice, error) {
	if m.mockFindOverdue == nil {
		return nil, nil
	}
	return m.mockFindOverdue(ctx, asOf)
}

func (m *mockInvoiceRepository) MarkReminderSent(ctx context.Context, invoiceIDs []uint) error {
	if m.mockMarkReminderSent == nil {
		return nil
	}
	return m.mockMarkReminderSent(ctx, invoiceIDs)
}

func (m *mockInvoiceRepository) FindPaidByOwner(ctx context.Context, orgID, ownerID uint) ([]models.Invoice, error) {
	if m.mockFindPaidByOwner == nil {
		return nil, nil
	}
	return m.mockFindPaidByOwner(ctx, orgID, ownerID)
}

func (m *mockInvoiceRepository) LatestRentInvoice(ctx context.Context, leaseID uint) (*models.Invoice, error) {
	if m.mockLatestRentInvoice == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockLatestRentInvoice(ctx, leaseID)
}

func (m *mockInvoiceRepository) ExistsForPeriod(ctx context.Context, leaseID uint, periodStart time.Time) (bool, error) {
	if m.mockExistsForPeriod == nil {
		return false, nil
	}
	return m.mockExistsForPeriod(ctx, leaseID, periodStart)
}

type mockTransactionRepository struct {
	repository.TransactionRepository
	mockFindByID      func(ctx context.Context, orgID, id uint) (*models.Transaction, error)
	mockFindByInvoice func(ctx context.Context, invoiceID uint) ([]models.Transaction, error)
	mockSumByInvoice  func(ctx context.Context, invoiceID uint) (decimal.Decimal, error)
}

func (m *mockTransactionRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Transaction, error) {
	if m.mockFindByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockFindByID(ctx, orgID, id)
}

func (m *mockTransactionRepository) FindByInvoice(ctx context.Context, invoiceID uint) ([]models.Transaction, error) {
	if m.mockFindByInvoice == nil {
		return nil, nil
	}
	return m.mockFindByInvoice(ctx, invoiceID)
}

func (m *mockTransactionRepository) SumByInvoice(ctx context.Context, invoiceID uint) (decimal.Decimal, error) {
	if m.mockSumByInvoice == nil {
		return decimal.Zero, nil
	}
	return m.mockSumByInvoice(ctx, invoiceID)
}

// mockNotificationRepository records every notification it is asked to create
// so tests can assert on what tenants would have seen.
type mockNotificationRepository struct {
	repository.NotificationRepository
	mu      sync.Mutex
	created []models.Notification
}

func (m *mockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, *notification)
	return nil
}

func (m *mockNotificationRepository) all() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Notification, len(m.created))
	copy(out, m.created)
	return out
}

type mockAuditRepository struct {
	repository.AuditRepository
	mu      sync.Mutex
	entries []models.AuditLog
}

func (m *mockAuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

type mockOwnerRepository struct {
	repository.OwnerRepository
	mockFindByID               func(ctx context.Context, orgID, id uint) (*models.Owner, error)
	mockFindByIDWithProperties func(ctx context.Context, orgID, id uint) (*models.Owner, error)
	mockDelete                 func(ctx context.Context, id uint) error
}

func (m *mockOwnerRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Owner, error) {
	if m.mockFindByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockFindByID(ctx, orgID, id)
}

func (m *mockOwnerRepository) FindByIDWithProperties(ctx context.Context, orgID, id uint) (*models.Owner, error) {
	if m.mockFindByIDWithProperties == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockFindByIDWithProperties(ctx, orgID, id)
}

func (m *mockOwnerRepository) Delete(ctx context.Context, id uint) error {
	if m.mockDelete == nil {
		return nil
	}
	return m.mockDelete(ctx, id)
}

type mockPropertyRepository struct {
	repository.PropertyRepository
	mockFindByID func(ctx context.Context, orgID, id uint) (*models.Property, error)
	mockCreate   func(ctx context.Context, property *models.Property) error
}

func (m *mockPropertyRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Property, error) {
	if m.mockFindByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockFindByID(ctx, orgID, id)
}

func (m *mockPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	if m.mockCreate == nil {
		return nil
	}
	return m.mockCreate(ctx, property)
}

type mockOrganizationRepository struct {
	repository.OrganizationRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Organization, error)
	mockUpdate   func(ctx context.Context, org *models.Organization) error
}

func (m *mockOrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	if m.mockUpdate == nil {
		return nil
	}
	return m.mockUpdate(ctx, org)
}

func (m *mockOrganizationRepository) FindByID(ctx context.Context, id uint) (*models.Organization, error) {
	if m.mockFindByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockFindByID(ctx, id)
}

// testDeps bundles the side-effect services every billing service needs
type testDeps struct {
	notificationRepo *mockNotificationRepository
	auditRepo        *mockAuditRepository
	notificationSvc  *NotificationService
	emailSvc         *EmailService
	auditSvc         *AuditService
	worker           *jobs.Worker
	cfg              *config.Config
}

func newTestDeps() *testDeps {
	cfg := &config.Config{
		InvoiceGraceDays: 7,
	}
	notificationRepo := &mockNotificationRepository{}
	auditRepo := &mockAuditRepository{}
	return &testDeps{
		notificationRepo: notificationRepo,
		auditRepo:        auditRepo,
		notificationSvc:  NewNotificationService(notificationRepo),
		emailSvc:         NewEmailService(cfg),
		auditSvc:         NewAuditService(auditRepo),
		worker:           jobs.NewWorker(1),
		cfg:              cfg,
	}
}
