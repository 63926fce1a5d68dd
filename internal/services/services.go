package services

import (
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/config"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/jobs"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/repository"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/storage"
)

// Services holds all service instances
type Services struct {
	Organization *OrganizationService
	Owner        *OwnerService
	Property     *PropertyService
	Unit         *UnitService
	Tenant       *TenantService
	Lease        *LeaseService
	Invoice      *InvoiceService
	Payment      *PaymentService
	Report       *ReportService
	Receipt      *ReceiptService
	Notification *NotificationService
	Email        *EmailService
	Audit        *AuditService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store *storage.LocalStorage, cfg *config.Config) *Services {
	notificationSvc := NewNotificationService(repos.Notification)
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(repos.Audit)

	leaseSvc := NewLeaseService(repos.Lease, repos.Unit, repos.Tenant, repos.Invoice,
		notificationSvc, emailSvc, auditSvc, store, worker, cfg)

	return &Services{
		Organization: NewOrganizationService(repos.Organization),
		Owner:        NewOwnerService(repos.Owner),
		Property:     NewPropertyService(repos.Property, repos.Owner),
		Unit:         NewUnitService(repos.Unit, repos.Property, repos.Lease),
		Tenant:       NewTenantService(repos.Tenant),
		Lease:        leaseSvc,
		Invoice: NewInvoiceService(repos.Invoice, repos.Lease, repos.Tenant,
			notificationSvc, emailSvc, auditSvc, worker, cfg),
		Payment: NewPaymentService(repos.Invoice, repos.Transaction, repos.Lease, repos.Tenant,
			leaseSvc, notificationSvc, emailSvc, auditSvc, worker, cfg),
		Report:       NewReportService(repos.Owner, repos.Organization, repos.Invoice),
		Receipt:      NewReceiptService(repos.Transaction, repos.Organization, store),
		Notification: notificationSvc,
		Email:        emailSvc,
		Audit:        auditSvc,
	}
}
