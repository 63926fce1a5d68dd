package statemachine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
)

func TestLeaseLifecycle(t *testing.T) {
	ctx := context.Background()
	lease := &models.Lease{
		Status:   models.LeaseStatusDraft,
		UnitID:   1,
		TenantID: 1,
		EndDate:  time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	m := NewLeaseFSM(lease)
	assert.Equal(t, models.LeaseStatusDraft, m.Current())

	assert.NoError(t, m.Submit(ctx))
	assert.Equal(t, models.LeaseStatusPending, lease.Status)

	assert.NoError(t, m.Activate(ctx))
	assert.Equal(t, models.LeaseStatusActive, lease.Status)

	assert.NoError(t, m.Terminate(ctx))
	assert.Equal(t, models.LeaseStatusTerminated, lease.Status)
}

func TestLeaseExpiry(t *testing.T) {
	ctx := context.Background()
	endDate := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	lease := &models.Lease{Status: models.LeaseStatusActive, EndDate: endDate}

	// Still within term, the scan must not retire it.
	m := NewLeaseFSM(lease)
	err := m.Expire(ctx, endDate)
	assert.Error(t, err)
	assert.Equal(t, models.LeaseStatusActive, lease.Status)

	assert.NoError(t, m.Expire(ctx, endDate.AddDate(0, 0, 1)))
	assert.Equal(t, models.LeaseStatusExpired, lease.Status)
}

func TestLeaseInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status string
		act    func(m *LeaseFSM) error
	}{
		{"submit without unit", models.LeaseStatusDraft, func(m *LeaseFSM) error { return m.Submit(ctx) }},
		{"activate a draft", models.LeaseStatusDraft, func(m *LeaseFSM) error { return m.Activate(ctx) }},
		{"terminate a pending lease", models.LeaseStatusPending, func(m *LeaseFSM) error { return m.Terminate(ctx) }},
		{"expire a terminated lease", models.LeaseStatusTerminated, func(m *LeaseFSM) error { return m.Expire(ctx, now) }},
		{"re-activate an active lease", models.LeaseStatusActive, func(m *LeaseFSM) error { return m.Activate(ctx) }},
		{"terminate twice", models.LeaseStatusTerminated, func(m *LeaseFSM) error { return m.Terminate(ctx) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lease := &models.Lease{Status: tt.status}
			m := NewLeaseFSM(lease)
			assert.Error(t, tt.act(m))
			assert.Equal(t, tt.status, lease.Status, "status must not change on a rejected transition")
		})
	}
}
