package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/repository"
	"gorm.io/gorm"
)

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type OrganizationService struct {
	repo repository.OrganizationRepository
}

func NewOrganizationService(repo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{repo: repo}
}

func (s *OrganizationService) FindByID(ctx context.Context, id uint) (*models.Organization, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return org, nil
}

func (s *OrganizationService) Update(ctx context.Context, org *models.Organization) error {
	if org.ManagementFeePercent.IsNegative() || org.ManagementFeePercent.GreaterThan(decimalOne) {
		return fmt.Errorf("%w: management_fee_percent must be between 0 and 1", ErrValidation)
	}
	return s.repo.Update(ctx, org)
}

type OwnerService struct {
	repo repository.OwnerRepository
}

func NewOwnerService(repo repository.OwnerRepository) *OwnerService {
	return &OwnerService{repo: repo}
}

func (s *OwnerService) FindByID(ctx context.Context, orgID, id uint) (*models.Owner, error) {
	owner, err := s.repo.FindByIDWithProperties(ctx, orgID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return owner, nil
}

func (s *OwnerService) Create(ctx context.Context, owner *models.Owner) error {
	if owner.FullName == "" {
		return fmt.Errorf("%w: full_name is required", ErrValidation)
	}
	return s.repo.Create(ctx, owner)
}

func (s *OwnerService) Update(ctx context.Context, owner *models.Owner) error {
	return s.repo.Update(ctx, owner)
}

func (s *OwnerService) Delete(ctx context.Context, orgID, id uint) error {
	owner, err := s.repo.FindByIDWithProperties(ctx, orgID, id)
	if err != nil {
		return mapNotFound(err)
	}
	if len(owner.Properties) > 0 {
		return fmt.Errorf("%w: owner still has properties", ErrInvalidState)
	}
	return s.repo.Delete(ctx, id)
}

func (s *OwnerService) List(ctx context.Context, orgID uint, query *repository.ListQuery) ([]models.Owner, int64, error) {
	return s.repo.List(ctx, orgID, query)
}

type PropertyService struct {
	repo      repository.PropertyRepository
	ownerRepo repository.OwnerRepository
}

func NewPropertyService(repo repository.PropertyRepository, ownerRepo repository.OwnerRepository) *PropertyService {
	return &PropertyService{repo: repo, ownerRepo: ownerRepo}
}

func (s *PropertyService) FindByID(ctx context.Context, orgID, id uint) (*models.Property, error) {
	property, err := s.repo.FindByIDWithUnits(ctx, orgID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return property, nil
}

func (s *PropertyService) Create(ctx context.Context, property *models.Property) error {
	if property.Name == "" || property.Address == "" {
		return fmt.Errorf("%w: name and address are required", ErrValidation)
	}
	if _, err := s.ownerRepo.FindByID(ctx, property.OrganizationID, property.OwnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: owner %d", ErrNotFound, property.OwnerID)
		}
		return err
	}
	return s.repo.Create(ctx, property)
}

func (s *PropertyService) Update(ctx context.Context, property *models.Property) error {
	return s.repo.Update(ctx, property)
}

func (s *PropertyService) Delete(ctx context.Context, orgID, id uint) error {
	property, err := s.repo.FindByIDWithUnits(ctx, orgID, id)
	if err != nil {
		return mapNotFound(err)
	}
	if len(property.Units) > 0 {
		return fmt.Errorf("%w: property still has units", ErrInvalidState)
	}
	return s.repo.Delete(ctx, id)
}

func (s *PropertyService) List(ctx context.Context, orgID uint, query *repository.ListQuery) ([]models.Property, int64, error) {
	return s.repo.List(ctx, orgID, query)
}

type UnitService struct {
	repo         repository.UnitRepository
	propertyRepo repository.PropertyRepository
	leaseRepo    repository.LeaseRepository
}

func NewUnitService(repo repository.UnitRepository, propertyRepo repository.PropertyRepository, leaseRepo repository.LeaseRepository) *UnitService {
	return &UnitService{repo: repo, propertyRepo: propertyRepo, leaseRepo: leaseRepo}
}

func (s *UnitService) FindByID(ctx context.Context, orgID, id uint) (*models.Unit, error) {
	unit, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return unit, nil
}

func (s *UnitService) Create(ctx context.Context, unit *models.Unit) error {
	if unit.Label == "" {
		return fmt.Errorf("%w: label is required", ErrValidation)
	}
	if unit.RentAmount.IsNegative() {
		return fmt.Errorf("%w: rent_amount cannot be negative", ErrValidation)
	}
	if _, err := s.propertyRepo.FindByID(ctx, unit.OrganizationID, unit.PropertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: property %d", ErrNotFound, unit.PropertyID)
		}
		return err
	}
	unit.Status = models.UnitStatusVacant
	return s.repo.Create(ctx, unit)
}

func (s *UnitService) Update(ctx context.Context, unit *models.Unit) error {
	return s.repo.Update(ctx, unit)
}

func (s *UnitService) Delete(ctx context.Context, orgID, id uint) error {
	if _, err := s.repo.FindByID(ctx, orgID, id); err != nil {
		return mapNotFound(err)
	}
	leases, err := s.leaseRepo.FindByUnit(ctx, orgID, id)
	if err != nil {
		return err
	}
	if len(leases) > 0 {
		return fmt.Errorf("%w: unit has lease history", ErrInvalidState)
	}
	return s.repo.Delete(ctx, id)
}

func (s *UnitService) List(ctx context.Context, orgID uint, query *repository.ListQuery) ([]models.Unit, int64, error) {
	return s.repo.List(ctx, orgID, query)
}

type TenantService struct {
	repo repository.TenantRepository
}

func NewTenantService(repo repository.TenantRepository) *TenantService {
	return &TenantService{repo: repo}
}

func (s *TenantService) FindByID(ctx context.Context, orgID, id uint) (*models.Tenant, error) {
	tenant, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return tenant, nil
}

func (s *TenantService) Create(ctx context.Context, tenant *models.Tenant) error {
	if tenant.FullName == "" || tenant.Email == "" {
		return fmt.Errorf("%w: full_name and email are required", ErrValidation)
	}
	if existing, err := s.repo.FindByEmail(ctx, tenant.OrganizationID, tenant.Email); err == nil && existing != nil {
		return fmt.Errorf("%w: tenant with email %s already exists", ErrDuplicate, tenant.Email)
	}
	return s.repo.Create(ctx, tenant)
}

func (s *TenantService) Update(ctx context.Context, tenant *models.Tenant) error {
	return s.repo.Update(ctx, tenant)
}

func (s *TenantService) Delete(ctx context.Context, orgID, id uint) error {
	if _, err := s.repo.FindByID(ctx, orgID, id); err != nil {
		return mapNotFound(err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *TenantService) List(ctx context.Context, orgID uint, query *repository.ListQuery) ([]models.Tenant, int64, error) {
	return s.repo.List(ctx, orgID, query)
}
