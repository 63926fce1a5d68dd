package repository

import (
	"context"
	"strings"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"gorm.io/gorm"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Organization, error)
	Create(ctx context.Context, org *models.Organization) error
	Update(ctx context.Context, org *models.Organization) error
}

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) FindByID(ctx context.Context, id uint) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) Create(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *organizationRepository) Update(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

// OwnerRepository defines the interface for property owner data access
type OwnerRepository interface {
	FindByID(ctx context.Context, orgID, id uint) (*models.Owner, error)
	FindByIDWithProperties(ctx context.Context, orgID, id uint) (*models.Owner, error)
	Create(ctx context.Context, owner *models.Owner) error
	Update(ctx context.Context, owner *models.Owner) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, orgID uint, query *ListQuery) ([]models.Owner, int64, error)
}

type ownerRepository struct {
	db *gorm.DB
}

// NewOwnerRepository creates a new owner repository
func NewOwnerRepository(db *gorm.DB) OwnerRepository {
	return &ownerRepository{db: db}
}

func (r *ownerRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Owner, error) {
	var owner models.Owner
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&owner, id).Error
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *ownerRepository) FindByIDWithProperties(ctx context.Context, orgID, id uint) (*models.Owner, error) {
	var owner models.Owner
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Preload("Properties.Units").
		First(&owner, id).Error
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *ownerRepository) Create(ctx context.Context, owner *models.Owner) error {
	return r.db.WithContext(ctx).Create(owner).Error
}

func (r *ownerRepository) Update(ctx context.Context, owner *models.Owner) error {
	return r.db.WithContext(ctx).Save(owner).Error
}

func (r *ownerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Owner{}, id).Error
}

func (r *ownerRepository) List(ctx context.Context, orgID uint, query *ListQuery) ([]models.Owner, int64, error) {
	var owners []models.Owner
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Owner{}).
		Where("organization_id = ?", orgID)

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("full_name ILIKE ? OR COALESCE(email, '') ILIKE ?", search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Order("full_name ASC").
		Offset((query.Page - 1) * query.PerPage).
		Limit(query.PerPage).
		Find(&owners).Error

	return owners, total, err
}

// PropertyRepository defines the interface for property data access
type PropertyRepository interface {
	FindByID(ctx context.Context, orgID, id uint) (*models.Property, error)
	FindByIDWithUnits(ctx context.Context, orgID, id uint) (*models.Property, error)
	Create(ctx context.Context, property *models.Property) error
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, orgID uint, query *ListQuery) ([]models.Property, int64, error)
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) FindByIDWithUnits(ctx context.Context, orgID, id uint) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Preload("Owner").
		Preload("Units", func(db *gorm.DB) *gorm.DB {
			return db.Order("label ASC")
		}).
		First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *propertyRepository) Update(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

func (r *propertyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Property{}, id).Error
}

func (r *propertyRepository) List(ctx context.Context, orgID uint, query *ListQuery) ([]models.Property, int64, error) {
	var properties []models.Property
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Property{}).
		Where("organization_id = ?", orgID)

	if ownerID := query.Filters["owner_id"]; ownerID != "" {
		db = db.Where("owner_id = ?", ownerID)
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR address ILIKE ?", search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Preload("Owner").
		Order("name ASC").
		Offset((query.Page - 1) * query.PerPage).
		Limit(query.PerPage).
		Find(&properties).Error

	return properties, total, err
}

// UnitRepository defines the interface for unit data access
type UnitRepository interface {
	FindByID(ctx context.Context, orgID, id uint) (*models.Unit, error)
	Create(ctx context.Context, unit *models.Unit) error
	Update(ctx context.Context, unit *models.Unit) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, orgID uint, query *ListQuery) ([]models.Unit, int64, error)
}

type unitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new unit repository
func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Unit, error) {
	var unit models.Unit
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Preload("Property").
		First(&unit, id).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) Create(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *unitRepository) Update(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *unitRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Unit{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *unitRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Unit{}, id).Error
}

func (r *unitRepository) List(ctx context.Context, orgID uint, query *ListQuery) ([]models.Unit, int64, error) {
	var units []models.Unit
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Unit{}).
		Where("units.organization_id = ?", orgID)

	if propertyID := query.Filters["property_id"]; propertyID != "" {
		db = db.Where("units.property_id = ?", propertyID)
	}
	if status := query.Filters["status"]; status != "" {
		db = db.Where("units.status = ?", status)
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN properties ON properties.id = units.property_id").
			Where("units.label ILIKE ? OR properties.name ILIKE ?", search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Select("units.*").
		Preload("Property").
		Order("units.label ASC").
		Offset((query.Page - 1) * query.PerPage).
		Limit(query.PerPage).
		Find(&units).Error

	return units, total, err
}

// TenantRepository defines the interface for tenant data access
type TenantRepository interface {
	FindByID(ctx context.Context, orgID, id uint) (*models.Tenant, error)
	FindByEmail(ctx context.Context, orgID uint, email string) (*models.Tenant, error)
	Create(ctx context.Context, tenant *models.Tenant) error
	Update(ctx context.Context, tenant *models.Tenant) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, orgID uint, query *ListQuery) ([]models.Tenant, int64, error)
}

type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&tenant, id).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) FindByEmail(ctx context.Context, orgID uint, email string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND LOWER(email) = ?", orgID, strings.ToLower(email)).
		First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}

func (r *tenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	return r.db.WithContext(ctx).Save(tenant).Error
}

func (r *tenantRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Tenant{}, id).Error
}

func (r *tenantRepository) List(ctx context.Context, orgID uint, query *ListQuery) ([]models.Tenant, int64, error) {
	var tenants []models.Tenant
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Tenant{}).
		Where("organization_id = ?", orgID)

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("full_name ILIKE ? OR email ILIKE ? OR COALESCE(phone, '') ILIKE ?",
			search, search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Order("full_name ASC").
		Offset((query.Page - 1) * query.PerPage).
		Limit(query.PerPage).
		Find(&tenants).Error

	return tenants, total, err
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByTenant(ctx context.Context, orgID, tenantID uint, query *ListQuery) ([]models.Notification, int64, error)
	MarkAsRead(ctx context.Context, orgID, id uint) error
	CountUnread(ctx context.Context, orgID, tenantID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) FindByTenant(ctx context.Context, orgID, tenantID uint, query *ListQuery) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("organization_id = ? AND tenant_id = ?", orgID, tenantID)

	if unread := query.Filters["unread"]; unread == "true" {
		db = db.Where("read_at IS NULL")
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Order("created_at DESC").
		Offset((query.Page - 1) * query.PerPage).
		Limit(query.PerPage).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, orgID, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("organization_id = ? AND id = ? AND read_at IS NULL", orgID, id).
		Update("read_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, orgID, tenantID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("organization_id = ? AND tenant_id = ? AND read_at IS NULL", orgID, tenantID).
		Count(&count).Error
	return count, err
}
