package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SETTLEMENT ENGINE - outstanding balance from immutable inputs
// =============================================================================

// FinanceSnapshot is the derived financial state of a loan at one instant.
// It is never stored; it is recomputed from (principal, rate, start, payment
// history) on every read so there is no cached balance to drift.
type FinanceSnapshot struct {
	Months      int
	Interest    decimal.Decimal
	Paid        decimal.Decimal
	TotalDue    decimal.Decimal
	Outstanding decimal.Decimal
}

// Settle folds the payment history into the accrued interest and produces the
// outstanding balance as of now.
//
//	TotalDue    = principal + interest          (interest pre-rounded)
//	Paid        = sum of all payments           (unordered, unfiltered by date)
//	Outstanding = max(0, TotalDue - Paid)
//
// Each monetary field is rounded to 2 places independently: interest before
// the addition, paid as the raw sum, outstanding after the subtraction. The
// rounding order is part of the contract.
func Settle(principal, monthlyRate decimal.Decimal, start, now time.Time, payments []decimal.Decimal) FinanceSnapshot {
	months := ElapsedMonths(start, now)
	interest := InterestAccrued(principal, monthlyRate, months)

	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p)
	}

	totalDue := principal.Add(interest)
	outstanding := totalDue.Sub(paid)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	return FinanceSnapshot{
		Months:      months,
		Interest:    interest,
		Paid:        paid.Round(2),
		TotalDue:    totalDue.Round(2),
		Outstanding: outstanding.Round(2),
	}
}
