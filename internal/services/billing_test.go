package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"plain month", date(2026, 1, 15), 1, date(2026, 2, 15)},
		{"jan 31 clamps to feb 28", date(2026, 1, 31), 1, date(2026, 2, 28)},
		{"jan 31 clamps to feb 29 in a leap year", date(2028, 1, 31), 1, date(2028, 2, 29)},
		{"mar 31 clamps to apr 30", date(2026, 3, 31), 1, date(2026, 4, 30)},
		{"year rollover", date(2026, 12, 15), 1, date(2027, 1, 15)},
		{"twelve months", date(2026, 1, 1), 12, date(2027, 1, 1)},
		{"quarterly from nov 30", date(2026, 11, 30), 3, date(2027, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonthsClamped(tt.start, tt.months))
		})
	}
}

func TestPeriodEnd(t *testing.T) {
	assert.Equal(t, date(2026, 2, 14), PeriodEnd(date(2026, 1, 15), models.BillingCycleMonthly))
	assert.Equal(t, date(2026, 3, 31), PeriodEnd(date(2026, 1, 1), models.BillingCycleQuarterly))
	assert.Equal(t, date(2026, 12, 31), PeriodEnd(date(2026, 1, 1), models.BillingCycleAnnually))
	// Jan 31 monthly period ends the day before the clamped next start.
	assert.Equal(t, date(2026, 2, 27), PeriodEnd(date(2026, 1, 31), models.BillingCycleMonthly))
}

func TestNextPeriodStart(t *testing.T) {
	assert.Equal(t, date(2026, 2, 15), NextPeriodStart(date(2026, 1, 15), models.BillingCycleMonthly))
	assert.Equal(t, date(2027, 1, 1), NextPeriodStart(date(2026, 1, 1), models.BillingCycleAnnually))
}

func TestInvoiceDueDate(t *testing.T) {
	assert.Equal(t, date(2026, 1, 8), InvoiceDueDate(date(2026, 1, 1), 7))
	assert.Equal(t, date(2026, 1, 1), InvoiceDueDate(date(2026, 1, 1), 0))
}

func TestFirstInvoiceAmount(t *testing.T) {
	lease := &models.Lease{
		RentAmount:     decimal.NewFromInt(1000000),
		CautionDeposit: decimal.NewFromInt(50000),
		AgencyFee:      decimal.NewFromInt(30000),
		LegalFee:       decimal.NewFromInt(20000),
	}
	assert.True(t, FirstInvoiceAmount(lease).Equal(decimal.NewFromInt(1100000)))
	assert.True(t, RecurringInvoiceAmount(lease).Equal(decimal.NewFromInt(1000000)))
}

func TestLeaseDurationMonths(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"full calendar year", date(2026, 1, 1), date(2026, 12, 31), 12},
		{"single month", date(2026, 1, 1), date(2026, 1, 31), 1},
		{"six months mid-month", date(2026, 1, 15), date(2026, 7, 14), 6},
		{"two years", date(2026, 1, 1), date(2027, 12, 31), 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LeaseDurationMonths(tt.start, tt.end))
		})
	}
}

func TestComputeRevenueSplit(t *testing.T) {
	tenPercent := decimal.NewFromFloat(0.10)

	fee, share := ComputeRevenueSplit(decimal.NewFromInt(10000000), tenPercent)
	assert.True(t, fee.Equal(decimal.NewFromInt(1000000)))
	assert.True(t, share.Equal(decimal.NewFromInt(9000000)))

	// An awkward total still splits without losing a cent.
	total := decimal.NewFromFloat(1000.01)
	fee, share = ComputeRevenueSplit(total, decimal.NewFromFloat(0.075))
	assert.True(t, fee.Add(share).Equal(total))
	assert.True(t, fee.Equal(decimal.NewFromFloat(75.00)))

	fee, share = ComputeRevenueSplit(decimal.NewFromInt(500), decimal.Zero)
	assert.True(t, fee.IsZero())
	assert.True(t, share.Equal(decimal.NewFromInt(500)))
}
