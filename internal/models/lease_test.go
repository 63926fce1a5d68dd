package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCycleMonths(t *testing.T) {
	assert.Equal(t, 1, CycleMonths(BillingCycleMonthly))
	assert.Equal(t, 3, CycleMonths(BillingCycleQuarterly))
	assert.Equal(t, 6, CycleMonths(BillingCycleBiannually))
	assert.Equal(t, 12, CycleMonths(BillingCycleAnnually))
}

func TestValidBillingCycle(t *testing.T) {
	assert.True(t, ValidBillingCycle(BillingCycleMonthly))
	assert.True(t, ValidBillingCycle(BillingCycleAnnually))
	assert.False(t, ValidBillingCycle("weekly"))
	assert.False(t, ValidBillingCycle(""))
}

func TestLeaseMaySubmit(t *testing.T) {
	lease := &Lease{Status: LeaseStatusDraft, UnitID: 1, TenantID: 1}
	assert.True(t, lease.MaySubmit())

	assert.False(t, (&Lease{Status: LeaseStatusDraft, TenantID: 1}).MaySubmit(), "unit must be assigned")
	assert.False(t, (&Lease{Status: LeaseStatusDraft, UnitID: 1}).MaySubmit(), "tenant must be assigned")
	assert.False(t, (&Lease{Status: LeaseStatusPending, UnitID: 1, TenantID: 1}).MaySubmit())
}

func TestLeaseMayExpire(t *testing.T) {
	endDate := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	lease := &Lease{Status: LeaseStatusActive, EndDate: endDate}

	assert.False(t, lease.MayExpire(endDate), "a lease runs through its end date")
	assert.True(t, lease.MayExpire(endDate.AddDate(0, 0, 1)))

	lease.Status = LeaseStatusTerminated
	assert.False(t, lease.MayExpire(endDate.AddDate(0, 0, 1)))
}
