package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Organization OrganizationRepository
	Owner        OwnerRepository
	Property     PropertyRepository
	Unit         UnitRepository
	Tenant       TenantRepository
	Lease        LeaseRepository
	Invoice      InvoiceRepository
	Transaction  TransactionRepository
	Notification NotificationRepository
	Audit        AuditRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Organization: NewOrganizationRepository(db),
		Owner:        NewOwnerRepository(db),
		Property:     NewPropertyRepository(db),
		Unit:         NewUnitRepository(db),
		Tenant:       NewTenantRepository(db),
		Lease:        NewLeaseRepository(db),
		Invoice:      NewInvoiceRepository(db),
		Transaction:  NewTransactionRepository(db),
		Notification: NewNotificationRepository(db),
		Audit:        NewAuditRepository(db),
	}
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}
