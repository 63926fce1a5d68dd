package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"gorm.io/gorm"
)

// ErrUnitOccupied is returned when a unit already holds a live lease for an
// overlapping period. The check runs inside the same transaction as the
// insert so two concurrent creations cannot both pass it.
var ErrUnitOccupied = errors.New("unit already has a lease for an overlapping period")

// LeaseRepository defines the interface for lease data access
type LeaseRepository interface {
	FindByID(ctx context.Context, orgID, id uint) (*models.Lease, error)
	FindByIDWithDetails(ctx context.Context, orgID, id uint) (*models.Lease, error)
	FindByUnit(ctx context.Context, orgID, unitID uint) ([]models.Lease, error)
	Create(ctx context.Context, lease *models.Lease) error
	CreateWithInvoice(ctx context.Context, lease *models.Lease, invoice *models.Invoice) error
	SaveWithInvoice(ctx context.Context, lease *models.Lease, invoice *models.Invoice) error
	Update(ctx context.Context, lease *models.Lease) error
	List(ctx context.Context, orgID uint, query *ListQuery) ([]models.Lease, int64, error)
	HasOverlappingLease(ctx context.Context, unitID uint, start, end time.Time, excludeID uint) (bool, error)
	FindExpiryCandidates(ctx context.Context, asOf time.Time) ([]models.Lease, error)
	FindActive(ctx context.Context) ([]models.Lease, error)
	HasSuccessor(ctx context.Context, leaseID uint) (bool, error)
	GetStats(ctx context.Context, orgID uint) (*LeaseStats, error)
}

type leaseRepository struct {
	db *gorm.DB
}

// NewLeaseRepository creates a new lease repository
func NewLeaseRepository(db *gorm.DB) LeaseRepository {
	return &leaseRepository{db: db}
}

func (r *leaseRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&lease, id).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

func (r *leaseRepository) FindByIDWithDetails(ctx context.Context, orgID, id uint) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Preload("Unit").
		Preload("Tenant").
		Preload("Invoices", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date ASC")
		}).
		First(&lease, id).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

func (r *leaseRepository) FindByUnit(ctx context.Context, orgID, unitID uint) ([]models.Lease, error) {
	var leases []models.Lease
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND unit_id = ?", orgID, unitID).
		Preload("Tenant").
		Order("start_date DESC").
		Find(&leases).Error
	return leases, err
}

func (r *leaseRepository) Create(ctx context.Context, lease *models.Lease) error {
	return r.db.WithContext(ctx).Create(lease).Error
}

// CreateWithInvoice inserts the lease and its activating invoice as one unit.
// The unit-overlap check is redone inside the transaction so the guarantee is
// structural rather than a convention callers must remember.
func (r *leaseRepository) CreateWithInvoice(ctx context.Context, lease *models.Lease, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if lease.UnitID != 0 {
			occupied, err := hasOverlap(tx, lease.UnitID, lease.StartDate, lease.EndDate, 0)
			if err != nil {
				return err
			}
			if occupied {
				return ErrUnitOccupied
			}
		}

		if err := tx.Create(lease).Error; err != nil {
			return err
		}

		invoice.LeaseID = lease.ID
		return tx.Create(invoice).Error
	})
}

// SaveWithInvoice persists an existing lease together with a freshly issued
// invoice, re-checking unit availability in the same transaction. Used when a
// draft is submitted.
func (r *leaseRepository) SaveWithInvoice(ctx context.Context, lease *models.Lease, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		occupied, err := hasOverlap(tx, lease.UnitID, lease.StartDate, lease.EndDate, lease.ID)
		if err != nil {
			return err
		}
		if occupied {
			return ErrUnitOccupied
		}

		if err := tx.Save(lease).Error; err != nil {
			return err
		}

		invoice.LeaseID = lease.ID
		return tx.Create(invoice).Error
	})
}

func (r *leaseRepository) Update(ctx context.Context, lease *models.Lease) error {
	return r.db.WithContext(ctx).Save(lease).Error
}

func (r *leaseRepository) List(ctx context.Context, orgID uint, query *ListQuery) ([]models.Lease, int64, error) {
	var leases []models.Lease
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Lease{}).
		Where("leases.organization_id = ?", orgID)

	if status := query.Filters["status"]; status != "" {
		if strings.Contains(status, ",") {
			statuses := strings.Split(status, ",")
			for i, s := range statuses {
				statuses[i] = strings.TrimSpace(s)
			}
			db = db.Where("leases.status IN ?", statuses)
		} else {
			db = db.Where("leases.status = ?", status)
		}
	}
	if unitID := query.Filters["unit_id"]; unitID != "" {
		db = db.Where("leases.unit_id = ?", unitID)
	}
	if propertyID := query.Filters["property_id"]; propertyID != "" {
		db = db.Where("leases.property_id = ?", propertyID)
	}
	if tenantID := query.Filters["tenant_id"]; tenantID != "" {
		db = db.Where("leases.tenant_id = ?", tenantID)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN tenants ON tenants.id = leases.tenant_id").
			Joins("LEFT JOIN units ON units.id = leases.unit_id").
			Where("tenants.full_name ILIKE ? OR tenants.email ILIKE ? OR units.label ILIKE ?",
				search, search, search)
	}

	// Count on a separate session so Count() does not alter the main query
	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := "leases." + query.SortBy
		if strings.ToLower(query.SortDir) == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("leases.created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Select("leases.*").
		Preload("Unit").
		Preload("Tenant").
		Find(&leases).Error

	return leases, total, err
}

func (r *leaseRepository) HasOverlappingLease(ctx context.Context, unitID uint, start, end time.Time, excludeID uint) (bool, error) {
	return hasOverlap(r.db.WithContext(ctx), unitID, start, end, excludeID)
}

// hasOverlap reports whether the unit holds a pending or active lease whose
// period intersects [start, end].
func hasOverlap(db *gorm.DB, unitID uint, start, end time.Time, excludeID uint) (bool, error) {
	var count int64
	q := db.Model(&models.Lease{}).
		Where("unit_id = ?", unitID).
		Where("status IN ?", []string{models.LeaseStatusPending, models.LeaseStatusActive}).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// FindExpiryCandidates returns active leases whose end date passed before the
// given instant, across all organizations. The caller filters out leases with
// a successor renewal.
func (r *leaseRepository) FindExpiryCandidates(ctx context.Context, asOf time.Time) ([]models.Lease, error) {
	var leases []models.Lease
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", models.LeaseStatusActive, asOf).
		Preload("Tenant").
		Order("end_date ASC").
		Find(&leases).Error
	return leases, err
}

// FindActive returns every active lease across all organizations, for
// system-level scans that run outside any request.
func (r *leaseRepository) FindActive(ctx context.Context) ([]models.Lease, error) {
	var leases []models.Lease
	err := r.db.WithContext(ctx).
		Where("status = ?", models.LeaseStatusActive).
		Order("id ASC").
		Find(&leases).Error
	return leases, err
}

func (r *leaseRepository) HasSuccessor(ctx context.Context, leaseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Lease{}).
		Where("previous_lease_id = ?", leaseID).
		Count(&count).Error
	return count > 0, err
}

// LeaseStats holds the count of leases by status
type LeaseStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	Active     int64 `json:"active"`
	Terminated int64 `json:"terminated"`
	Expired    int64 `json:"expired"`
}

func (r *leaseRepository) GetStats(ctx context.Context, orgID uint) (*LeaseStats, error) {
	stats := &LeaseStats{}

	rows, err := r.db.WithContext(ctx).
		Model(&models.Lease{}).
		Select("status, count(*) as count").
		Where("organization_id = ?", orgID).
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var total int64
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		total += count
		switch status {
		case models.LeaseStatusPending:
			stats.Pending = count
		case models.LeaseStatusActive:
			stats.Active = count
		case models.LeaseStatusTerminated:
			stats.Terminated = count
		case models.LeaseStatusExpired:
			stats.Expired = count
		}
	}
	stats.Total = total

	return stats, nil
}
