package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/repository"
)

func newTestLeaseService(deps *testDeps, leaseRepo *mockLeaseRepository, unitRepo *mockUnitRepository, tenantRepo *mockTenantRepository, invoiceRepo *mockInvoiceRepository) *LeaseService {
	return NewLeaseService(leaseRepo, unitRepo, tenantRepo, invoiceRepo,
		deps.notificationSvc, deps.emailSvc, deps.auditSvc, nil, deps.worker, deps.cfg)
}

func validCreateInput() *CreateLeaseInput {
	return &CreateLeaseInput{
		UnitID:         10,
		TenantID:       20,
		StartDate:      date(2026, 1, 1),
		EndDate:        date(2026, 12, 31),
		RentAmount:     decimal.NewFromInt(1000000),
		BillingCycle:   models.BillingCycleAnnually,
		CautionDeposit: decimal.NewFromInt(50000),
		AgencyFee:      decimal.NewFromInt(30000),
		LegalFee:       decimal.NewFromInt(20000),
	}
}

func TestCreateLease(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	var reservedUnit uint
	leaseRepo := &mockLeaseRepository{
		mockCreateWithInvoice: func(ctx context.Context, lease *models.Lease, invoice *models.Invoice) error {
			lease.ID = 1
			invoice.ID = 1
			invoice.LeaseID = lease.ID
			return nil
		},
	}
	unitRepo := &mockUnitRepository{
		mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Unit, error) {
			return &models.Unit{ID: id, PropertyID: 5, Label: "A1", Status: models.UnitStatusVacant}, nil
		},
		mockUpdateStatus: func(ctx context.Context, id uint, status string) error {
			reservedUnit = id
			assert.Equal(t, models.UnitStatusReserved, status)
			return nil
		},
	}
	tenantRepo := &mockTenantRepository{
		mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Tenant, error) {
			return &models.Tenant{ID: id, FullName: "Ada Obi", Email: "ada@example.com"}, nil
		},
	}

	svc := newTestLeaseService(deps, leaseRepo, unitRepo, tenantRepo, &mockInvoiceRepository{})

	lease, invoice, err := svc.Create(context.Background(), 1, validCreateInput(), 99, "127.0.0.1", "test")
	assert.NoError(t, err)
	assert.NotNil(t, lease)
	assert.NotNil(t, invoice)
	assert.Equal(t, models.LeaseStatusPending, lease.Status)
	assert.Equal(t, uint(5), lease.PropertyID)
	assert.Equal(t, uint(10), reservedUnit)
}

func TestCreateLeaseDraft(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	leaseRepo := &mockLeaseRepository{
		mockCreate: func(ctx context.Context, lease *models.Lease) error {
			lease.ID = 1
			return nil
		},
		mockCreateWithInvoice: func(ctx context.Context, lease *models.Lease, invoice *models.Invoice) error {
			t.Fatal("a draft must not issue an invoice")
			return nil
		},
	}
	unitRepo := &mockUnitRepository{
		mockUpdateStatus: func(ctx context.Context, id uint, status string) error {
			t.Fatal("a draft must not hold the unit")
			return nil
		},
	}

	svc := newTestLeaseService(deps, leaseRepo, unitRepo, &mockTenantRepository{}, &mockInvoiceRepository{})

	input := validCreateInput()
	input.UnitID = 0
	input.TenantID = 0

	lease, invoice, err := svc.Create(context.Background(), 1, input, 0, "", "")
	assert.NoError(t, err)
	assert.Nil(t, invoice)
	assert.Equal(t, models.LeaseStatusDraft, lease.Status)
}

func TestSubmitLease(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	draft := activeLease()
	draft.Status = models.LeaseStatusDraft
	draft.UnitID = 0
	draft.TenantID = 0
	draft.PropertyID = 0

	var reservedUnit uint
	leaseRepo := &mockLeaseRepository{
		mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Lease, error) {
			return draft, nil
		},
	}
	unitRepo := &mockUnitRepository{
		mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Unit, error) {
			return &models.Unit{ID: id, PropertyID: 5, Label: "A1", Status: models.UnitStatusVacant}, nil
		},
		mockUpdateStatus: func(ctx context.Context, id uint, status string) error {
			reservedUnit = id
			assert.Equal(t, models.UnitStatusReserved, status)
			return nil
		},
	}
	tenantRepo := &mockTenantRepository{
		mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Tenant, error) {
			return &models.Tenant{ID: id, FullName: "Ada Obi"}, nil
		},
	}

	svc := newTestLeaseService(deps, leaseRepo, unitRepo, tenantRepo, &mockInvoiceRepository{})

	lease, invoice, err := svc.Submit(context.Background(), 1, 1,
		&SubmitLeaseInput{UnitID: 10, TenantID: 20}, 0, "", "")
	assert.NoError(t, err)
	assert.Equal(t, models.LeaseStatusPending, lease.Status)
	assert.Equal(t, uint(5), lease.PropertyID)
	assert.Equal(t, uint(10), reservedUnit)

	// Submission issues the move-in invoice: rent plus one-off charges
	assert.NotNil(t, invoice)
	assert.True(t, invoice.Amount.Equal(decimal.NewFromInt(1000000)))
	assert.Equal(t, models.InvoiceStatusPending, invoice.Status)
}

func TestSubmitLeaseGuards(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	t.Run("only drafts submit", func(t *testing.T) {
		leaseRepo := &mockLeaseRepository{
			mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Lease, error) {
				return activeLease(), nil
			},
		}
		svc := newTestLeaseService(deps, leaseRepo, &mockUnitRepository{}, &mockTenantRepository{}, &mockInvoiceRepository{})
		_, _, err := svc.Submit(context.Background(), 1, 1, nil, 0, "", "")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("parties required", func(t *testing.T) {
		draft := activeLease()
		draft.Status = models.LeaseStatusDraft
		draft.UnitID = 0
		draft.TenantID = 0
		leaseRepo := &mockLeaseRepository{
			mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Lease, error) {
				return draft, nil
			},
		}
		svc := newTestLeaseService(deps, leaseRepo, &mockUnitRepository{}, &mockTenantRepository{}, &mockInvoiceRepository{})
		_, _, err := svc.Submit(context.Background(), 1, 1, &SubmitLeaseInput{TenantID: 20}, 0, "", "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unit conflict on submission", func(t *testing.T) {
		draft := activeLease()
		draft.Status = models.LeaseStatusDraft
		leaseRepo := &mockLeaseRepository{
			mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Lease, error) {
				return draft, nil
			},
			mockSaveWithInvoice: func(ctx context.Context, lease *models.Lease, invoice *models.Invoice) error {
				return repository.ErrUnitOccupied
			},
		}
		unitRepo := &mockUnitRepository{
			mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Unit, error) {
				return &models.Unit{ID: id, PropertyID: 5}, nil
			},
		}
		tenantRepo := &mockTenantRepository{
			mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Tenant, error) {
				return &models.Tenant{ID: id}, nil
			},
		}
		svc := newTestLeaseService(deps, leaseRepo, unitRepo, tenantRepo, &mockInvoiceRepository{})
		_, _, err := svc.Submit(context.Background(), 1, 1, nil, 0, "", "")
		assert.ErrorIs(t, err, ErrUnitConflict)
	})
}

func TestCreateLeaseMoveInInvoice(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	var captured *models.Invoice
	leaseRepo := &mockLeaseRepository{
		mockCreateWithInvoice: func(ctx context.Context, lease *models.Lease, invoice *models.Invoice) error {
			captured = invoice
			return nil
		},
	}
	unitRepo := &mockUnitRepository{
		mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Unit, error) {
			return &models.Unit{ID: id, PropertyID: 5, Status: models.UnitStatusVacant}, nil
		},
	}
	tenantRepo := &mockTenantRepository{
		mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Tenant, error) {
			return &models.Tenant{ID: id}, nil
		},
	}

	svc := newTestLeaseService(deps, leaseRepo, unitRepo, tenantRepo, &mockInvoiceRepository{})

	_, returned, err := svc.Create(context.Background(), 1, validCreateInput(), 0, "", "")
	assert.NoError(t, err)
	assert.NotNil(t, captured)
	assert.Equal(t, captured, returned)

	// First invoice: one period of rent plus all one-off charges
	assert.True(t, captured.Amount.Equal(decimal.NewFromInt(1100000)))
	assert.Equal(t, date(2026, 1, 1), captured.PeriodStart)
	assert.Equal(t, date(2026, 12, 31), captured.PeriodEnd)
	assert.Equal(t, date(2026, 1, 8), captured.DueDate, "due date is period start plus the grace window")
	assert.Equal(t, models.InvoiceStatusPending, captured.Status)
}

func TestCreateLeaseValidation(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()
	svc := newTestLeaseService(deps, &mockLeaseRepository{}, &mockUnitRepository{}, &mockTenantRepository{}, &mockInvoiceRepository{})

	tests := []struct {
		name   string
		mutate func(in *CreateLeaseInput)
	}{
		{"end before start", func(in *CreateLeaseInput) { in.EndDate = in.StartDate.AddDate(0, 0, -1) }},
		{"end equals start", func(in *CreateLeaseInput) { in.EndDate = in.StartDate }},
		{"zero rent", func(in *CreateLeaseInput) { in.RentAmount = decimal.Zero }},
		{"negative rent", func(in *CreateLeaseInput) { in.RentAmount = decimal.NewFromInt(-100) }},
		{"bad billing cycle", func(in *CreateLeaseInput) { in.BillingCycle = "weekly" }},
		{"negative deposit", func(in *CreateLeaseInput) { in.CautionDeposit = decimal.NewFromInt(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCreateInput()
			tt.mutate(input)
			_, _, err := svc.Create(context.Background(), 1, input, 0, "", "")
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateLeaseUnitConflict(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	leaseRepo := &mockLeaseRepository{
		mockCreateWithInvoice: func(ctx context.Context, lease *models.Lease, invoice *models.Invoice) error {
			return repository.ErrUnitOccupied
		},
	}
	unitRepo := &mockUnitRepository{
		mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Unit, error) {
			return &models.Unit{ID: id, PropertyID: 5, Status: models.UnitStatusVacant}, nil
		},
	}
	tenantRepo := &mockTenantRepository{
		mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Tenant, error) {
			return &models.Tenant{ID: id}, nil
		},
	}

	svc := newTestLeaseService(deps, leaseRepo, unitRepo, tenantRepo, &mockInvoiceRepository{})

	_, _, err := svc.Create(context.Background(), 1, validCreateInput(), 0, "", "")
	assert.ErrorIs(t, err, ErrUnitConflict)
}

func TestCreateLeaseUnknownUnit(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()
	svc := newTestLeaseService(deps, &mockLeaseRepository{}, &mockUnitRepository{}, &mockTenantRepository{}, &mockInvoiceRepository{})

	_, _, err := svc.Create(context.Background(), 1, validCreateInput(), 0, "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func activeLease() *models.Lease {
	return &models.Lease{
		ID:             1,
		OrganizationID: 1,
		PropertyID:     5,
		UnitID:         10,
		TenantID:       20,
		StartDate:      date(2026, 1, 1),
		EndDate:        date(2026, 12, 31),
		RentAmount:     decimal.NewFromInt(1000000),
		BillingCycle:   models.BillingCycleAnnually,
		Status:         models.LeaseStatusActive,
	}
}

func TestRenewLease(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	var renewal *models.Lease
	var invoice *models.Invoice
	leaseRepo := &mockLeaseRepository{
		mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Lease, error) {
			return activeLease(), nil
		},
		mockCreateWithInvoice: func(ctx context.Context, lease *models.Lease, inv *models.Invoice) error {
			lease.ID = 2
			renewal = lease
			invoice = inv
			return nil
		},
	}

	svc := newTestLeaseService(deps, leaseRepo, &mockUnitRepository{}, &mockTenantRepository{}, &mockInvoiceRepository{})

	got, returned, err := svc.Renew(context.Background(), 1, 1, &RenewLeaseInput{}, 0, "", "")
	assert.NoError(t, err)
	assert.Equal(t, renewal, got)
	assert.Equal(t, invoice, returned)

	// Starts the day after the source ends and replays its duration
	assert.Equal(t, date(2027, 1, 1), got.StartDate)
	assert.Equal(t, date(2027, 12, 31), got.EndDate)
	assert.Equal(t, models.LeaseStatusPending, got.Status)
	assert.NotNil(t, got.PreviousLeaseID)
	assert.Equal(t, uint(1), *got.PreviousLeaseID)
	assert.True(t, got.RentAmount.Equal(decimal.NewFromInt(1000000)))

	// Renewal invoice carries rent only, no move-in charges
	assert.NotNil(t, invoice)
	assert.True(t, invoice.Amount.Equal(decimal.NewFromInt(1000000)))
	assert.Equal(t, date(2027, 1, 1), invoice.PeriodStart)
}

func TestRenewLeaseWithOverrides(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	leaseRepo := &mockLeaseRepository{
		mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Lease, error) {
			return activeLease(), nil
		},
	}

	svc := newTestLeaseService(deps, leaseRepo, &mockUnitRepository{}, &mockTenantRepository{}, &mockInvoiceRepository{})

	got, _, err := svc.Renew(context.Background(), 1, 1, &RenewLeaseInput{
		EndDate:    date(2027, 6, 30),
		RentAmount: decimal.NewFromInt(1200000),
	}, 0, "", "")
	assert.NoError(t, err)
	assert.Equal(t, date(2027, 6, 30), got.EndDate)
	assert.True(t, got.RentAmount.Equal(decimal.NewFromInt(1200000)))
}

func TestRenewLeaseWithFees(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	leaseRepo := &mockLeaseRepository{
		mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Lease, error) {
			return activeLease(), nil
		},
	}

	svc := newTestLeaseService(deps, leaseRepo, &mockUnitRepository{}, &mockTenantRepository{}, &mockInvoiceRepository{})

	got, invoice, err := svc.Renew(context.Background(), 1, 1, &RenewLeaseInput{
		AgencyFee: decimal.NewFromInt(30000),
		LegalFee:  decimal.NewFromInt(20000),
	}, 0, "", "")
	assert.NoError(t, err)
	assert.True(t, got.AgencyFee.Equal(decimal.NewFromInt(30000)))

	// One-off charges ride along on the renewal's activating invoice
	assert.True(t, invoice.Amount.Equal(decimal.NewFromInt(1050000)))

	_, _, err = svc.Renew(context.Background(), 1, 1, &RenewLeaseInput{
		LegalFee: decimal.NewFromInt(-1),
	}, 0, "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRenewLeaseGuards(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	t.Run("only active leases renew", func(t *testing.T) {
		leaseRepo := &mockLeaseRepository{
			mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Lease, error) {
				lease := activeLease()
				lease.Status = models.LeaseStatusTerminated
				return lease, nil
			},
		}
		svc := newTestLeaseService(deps, leaseRepo, &mockUnitRepository{}, &mockTenantRepository{}, &mockInvoiceRepository{})
		_, _, err := svc.Renew(context.Background(), 1, 1, &RenewLeaseInput{}, 0, "", "")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("second renewal rejected", func(t *testing.T) {
		leaseRepo := &mockLeaseRepository{
			mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Lease, error) {
				return activeLease(), nil
			},
			mockHasSuccessor: func(ctx context.Context, leaseID uint) (bool, error) {
				return true, nil
			},
		}
		svc := newTestLeaseService(deps, leaseRepo, &mockUnitRepository{}, &mockTenantRepository{}, &mockInvoiceRepository{})
		_, _, err := svc.Renew(context.Background(), 1, 1, &RenewLeaseInput{}, 0, "", "")
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("missing lease", func(t *testing.T) {
		svc := newTestLeaseService(deps, &mockLeaseRepository{}, &mockUnitRepository{}, &mockTenantRepository{}, &mockInvoiceRepository{})
		_, _, err := svc.Renew(context.Background(), 1, 404, &RenewLeaseInput{}, 0, "", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTerminateLease(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	lease := activeLease()
	var updated *models.Lease
	var releasedStatus string
	leaseRepo := &mockLeaseRepository{
		mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Lease, error) {
			return lease, nil
		},
		mockUpdate: func(ctx context.Context, l *models.Lease) error {
			updated = l
			return nil
		},
	}
	unitRepo := &mockUnitRepository{
		mockUpdateStatus: func(ctx context.Context, id uint, status string) error {
			releasedStatus = status
			return nil
		},
	}

	svc := newTestLeaseService(deps, leaseRepo, unitRepo, &mockTenantRepository{}, &mockInvoiceRepository{})

	reason := "tenant relocating"
	err := svc.Terminate(context.Background(), 1, 1, date(2026, 6, 30), &reason, 0, "", "")
	assert.NoError(t, err)
	assert.Equal(t, models.LeaseStatusTerminated, updated.Status)
	assert.Equal(t, date(2026, 6, 30), *updated.TerminationDate)
	assert.Equal(t, "tenant relocating", *updated.TerminationReason)
	assert.Equal(t, models.UnitStatusVacant, releasedStatus)

	notifications := deps.notificationRepo.all()
	assert.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeLeaseTerminated, *notifications[0].NotificationType)
}

func TestTerminateLeaseGuards(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	leaseRepo := &mockLeaseRepository{
		mockFindByID: func(ctx context.Context, orgID, id uint) (*models.Lease, error) {
			lease := activeLease()
			lease.Status = models.LeaseStatusPending
			return lease, nil
		},
	}
	svc := newTestLeaseService(deps, leaseRepo, &mockUnitRepository{}, &mockTenantRepository{}, &mockInvoiceRepository{})

	err := svc.Terminate(context.Background(), 1, 1, date(2026, 6, 30), nil, 0, "", "")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestOnInvoiceSettled(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	lease := activeLease()
	lease.Status = models.LeaseStatusPending
	var unitStatus string
	leaseRepo := &mockLeaseRepository{
		mockUpdate: func(ctx context.Context, l *models.Lease) error { return nil },
	}
	unitRepo := &mockUnitRepository{
		mockUpdateStatus: func(ctx context.Context, id uint, status string) error {
			unitStatus = status
			return nil
		},
	}

	svc := newTestLeaseService(deps, leaseRepo, unitRepo, &mockTenantRepository{}, &mockInvoiceRepository{})

	err := svc.OnInvoiceSettled(context.Background(), lease)
	assert.NoError(t, err)
	assert.Equal(t, models.LeaseStatusActive, lease.Status)
	assert.Equal(t, models.UnitStatusOccupied, unitStatus)

	// A second settlement event is a no-op
	err = svc.OnInvoiceSettled(context.Background(), lease)
	assert.NoError(t, err)
	assert.Equal(t, models.LeaseStatusActive, lease.Status)
	assert.Len(t, deps.notificationRepo.all(), 1)
}

func TestExpireLeases(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	asOf := date(2027, 1, 5)
	ended := activeLease()
	withSuccessor := activeLease()
	withSuccessor.ID = 2
	withSuccessor.UnitID = 11

	var released []uint
	var updated []uint
	leaseRepo := &mockLeaseRepository{
		mockFindExpiryCandidates: func(ctx context.Context, got time.Time) ([]models.Lease, error) {
			assert.Equal(t, asOf, got)
			return []models.Lease{*ended, *withSuccessor}, nil
		},
		mockUpdate: func(ctx context.Context, l *models.Lease) error {
			updated = append(updated, l.ID)
			return nil
		},
		mockHasSuccessor: func(ctx context.Context, leaseID uint) (bool, error) {
			return leaseID == 2, nil
		},
	}
	unitRepo := &mockUnitRepository{
		mockUpdateStatus: func(ctx context.Context, id uint, status string) error {
			assert.Equal(t, models.UnitStatusVacant, status)
			released = append(released, id)
			return nil
		},
	}

	svc := newTestLeaseService(deps, leaseRepo, unitRepo, &mockTenantRepository{}, &mockInvoiceRepository{})

	expired, err := svc.ExpireLeases(context.Background(), asOf)
	assert.NoError(t, err)

	// The lease with a lined-up renewal is left to the handover, not expired
	assert.Equal(t, 1, expired)
	assert.Equal(t, []uint{1}, updated)
	assert.Equal(t, []uint{10}, released)
	assert.Len(t, deps.notificationRepo.all(), 1)
}

func TestExpireLeasesSkipsRenewed(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	lease := activeLease()
	leaseRepo := &mockLeaseRepository{
		mockFindExpiryCandidates: func(ctx context.Context, asOf time.Time) ([]models.Lease, error) {
			return []models.Lease{*lease}, nil
		},
		mockHasSuccessor: func(ctx context.Context, leaseID uint) (bool, error) {
			return true, nil
		},
		mockUpdate: func(ctx context.Context, l *models.Lease) error {
			t.Fatal("a renewed lease must not be expired")
			return nil
		},
	}

	svc := newTestLeaseService(deps, leaseRepo, &mockUnitRepository{}, &mockTenantRepository{}, &mockInvoiceRepository{})

	expired, err := svc.ExpireLeases(context.Background(), date(2027, 1, 5))
	assert.NoError(t, err)
	assert.Equal(t, 0, expired)
	assert.Empty(t, deps.notificationRepo.all())
}

func TestExpireLeasesSkipsUnripe(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	lease := activeLease()
	leaseRepo := &mockLeaseRepository{
		mockFindExpiryCandidates: func(ctx context.Context, asOf time.Time) ([]models.Lease, error) {
			return []models.Lease{*lease}, nil
		},
		mockUpdate: func(ctx context.Context, l *models.Lease) error {
			t.Fatal("lease still within term must not be updated")
			return nil
		},
	}

	svc := newTestLeaseService(deps, leaseRepo, &mockUnitRepository{}, &mockTenantRepository{}, &mockInvoiceRepository{})

	// asOf is the end date itself; the lease only expires the day after
	expired, err := svc.ExpireLeases(context.Background(), lease.EndDate)
	assert.NoError(t, err)
	assert.Equal(t, 0, expired)
}

func TestFindLeaseNotFound(t *testing.T) {
	deps := newTestDeps()
	defer deps.worker.Shutdown()

	leaseRepo := &mockLeaseRepository{
		mockFindByIDWithDetails: func(ctx context.Context, orgID, id uint) (*models.Lease, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestLeaseService(deps, leaseRepo, &mockUnitRepository{}, &mockTenantRepository{}, &mockInvoiceRepository{})

	_, err := svc.FindByID(context.Background(), 1, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
