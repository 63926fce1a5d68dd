package services

import (
	"time"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"github.com/shopspring/decimal"
)

var decimalOne = decimal.NewFromInt(1)

// AddMonthsClamped advances a date by whole calendar months, clamping the day
// to the last day of the target month instead of letting it spill over.
// Jan 31 plus one month is Feb 28 (or 29), never Mar 2.
func AddMonthsClamped(date time.Time, months int) time.Time {
	year, month, day := date.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, date.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, date.Location())
}

// PeriodEnd returns the last day covered by a billing period starting at
// periodStart. A monthly period starting Jan 15 ends Feb 14.
func PeriodEnd(periodStart time.Time, cycle string) time.Time {
	months := models.CycleMonths(cycle)
	return AddMonthsClamped(periodStart, months).AddDate(0, 0, -1)
}

// NextPeriodStart returns the first day of the period following the one that
// starts at periodStart.
func NextPeriodStart(periodStart time.Time, cycle string) time.Time {
	return AddMonthsClamped(periodStart, models.CycleMonths(cycle))
}

// InvoiceDueDate returns when an invoice issued for periodStart falls due
func InvoiceDueDate(periodStart time.Time, graceDays int) time.Time {
	return periodStart.AddDate(0, 0, graceDays)
}

// FirstInvoiceAmount returns the amount of the move-in invoice: one billing
// period of rent plus the one-off caution deposit, agency and legal fees.
func FirstInvoiceAmount(lease *models.Lease) decimal.Decimal {
	return lease.RentAmount.
		Add(lease.CautionDeposit).
		Add(lease.AgencyFee).
		Add(lease.LegalFee)
}

// RecurringInvoiceAmount returns the amount of every rent invoice after the
// first: one billing period of rent, no one-off charges.
func RecurringInvoiceAmount(lease *models.Lease) decimal.Decimal {
	return lease.RentAmount
}

// LeaseDurationMonths returns the whole months between the lease start and
// the day after its end date. A lease from Jan 1 to Dec 31 spans 12 months.
func LeaseDurationMonths(start, end time.Time) int {
	months := 0
	cursor := start
	for {
		next := AddMonthsClamped(cursor, 1)
		if next.After(end.AddDate(0, 0, 1)) {
			break
		}
		months++
		cursor = next
	}
	return months
}

// ComputeRevenueSplit divides collected revenue between the management fee
// and the owner's share. The fee is rounded to 2 decimal places and the owner
// share is the exact remainder, so the two always sum to the total.
func ComputeRevenueSplit(total, feePercent decimal.Decimal) (fee, ownerShare decimal.Decimal) {
	fee = total.Mul(feePercent).Round(2)
	ownerShare = total.Sub(fee)
	return fee, ownerShare
}
