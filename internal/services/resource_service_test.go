package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
)

func TestOrganizationUpdateFeeValidation(t *testing.T) {
	svc := NewOrganizationService(&mockOrganizationRepository{})

	err := svc.Update(context.Background(), &models.Organization{
		ManagementFeePercent: decimal.NewFromFloat(1.5),
	})
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.Update(context.Background(), &models.Organization{
		ManagementFeePercent: decimal.NewFromFloat(-0.1),
	})
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.Update(context.Background(), &models.Organization{
		ManagementFeePercent: decimal.NewFromFloat(0.10),
	})
	assert.NoError(t, err)
}

func TestOwnerDeleteWithProperties(t *testing.T) {
	ownerRepo := &mockOwnerRepository{
		mockFindByIDWithProperties: func(ctx context.Context, orgID, id uint) (*models.Owner, error) {
			return &models.Owner{ID: id, Properties: []models.Property{{ID: 1}}}, nil
		},
	}
	svc := NewOwnerService(ownerRepo)

	err := svc.Delete(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestOwnerDelete(t *testing.T) {
	var deleted uint
	ownerRepo := &mockOwnerRepository{
		mockFindByIDWithProperties: func(ctx context.Context, orgID, id uint) (*models.Owner, error) {
			return &models.Owner{ID: id}, nil
		},
		mockDelete: func(ctx context.Context, id uint) error {
			deleted = id
			return nil
		},
	}
	svc := NewOwnerService(ownerRepo)

	assert.NoError(t, svc.Delete(context.Background(), 1, 3))
	assert.Equal(t, uint(3), deleted)
}

func TestUnitCreateForcesVacant(t *testing.T) {
	var created *models.Unit
	unitRepo := &mockUnitRepository{
		mockCreate: func(ctx context.Context, unit *models.Unit) error {
			created = unit
			return nil
		},
	}
	propertyRepo := &mockPropertyRepository{
		mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Property, error) {
			return &models.Property{ID: id}, nil
		},
	}
	svc := NewUnitService(unitRepo, propertyRepo, &mockLeaseRepository{})

	err := svc.Create(context.Background(), &models.Unit{
		OrganizationID: 1,
		PropertyID:     1,
		Label:          "B2",
		Status:         models.UnitStatusOccupied,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.UnitStatusVacant, created.Status, "occupancy only changes through the lease lifecycle")
}

func TestUnitCreateUnknownProperty(t *testing.T) {
	svc := NewUnitService(&mockUnitRepository{}, &mockPropertyRepository{}, &mockLeaseRepository{})

	err := svc.Create(context.Background(), &models.Unit{PropertyID: 404, Label: "B2"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTenantCreateDuplicateEmail(t *testing.T) {
	tenantRepo := &mockTenantRepository{
		mockFindByEmail: func(ctx context.Context, orgID uint, email string) (*models.Tenant, error) {
			return &models.Tenant{ID: 1, Email: email}, nil
		},
	}
	svc := NewTenantService(tenantRepo)

	err := svc.Create(context.Background(), &models.Tenant{
		OrganizationID: 1,
		FullName:       "Ada Obi",
		Email:          "ada@example.com",
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestTenantCreate(t *testing.T) {
	var created *models.Tenant
	tenantRepo := &mockTenantRepository{
		mockCreate: func(ctx context.Context, tenant *models.Tenant) error {
			created = tenant
			return nil
		},
	}
	svc := NewTenantService(tenantRepo)

	err := svc.Create(context.Background(), &models.Tenant{
		OrganizationID: 1,
		FullName:       "Ada Obi",
		Email:          "ada@example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Ada Obi", created.FullName)

	err = svc.Create(context.Background(), &models.Tenant{OrganizationID: 1})
	assert.ErrorIs(t, err, ErrValidation)
}
