/*
Package ledger provides the financial core of the pawn ledger: accrual
of simple interest over elapsed whole months, and settlement of a loan
against its payment history.

PURPOSE:
  Everything in this package is a pure function of its inputs. Time is
  always passed in explicitly ("as-of"), never read from the wall clock,
  so a single request computes against one consistent instant.

KEY CONCEPTS:
  - Elapsed months: calendar difference in whole months, where ANY
    partial-month remainder of at least one day counts as a full month.
    This is a round-up-for-the-lender policy, not proration.
  - Simple interest: principal * monthly rate * elapsed months. Never
    compounds.
  - Settlement: total due minus total paid, floored at zero.

PRECISION:
  All money is decimal.Decimal. Each derived monetary field is rounded
  to 2 places at the point of computation (half up), not in one final
  step; callers relying on the numeric output depend on this order.

SEE ALSO:
  - settlement.go: FinanceSnapshot and Settle
  - pawn/service.go: lifecycle transitions gated on these computations
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CALENDAR ARITHMETIC
// =============================================================================

// AddMonths adds n calendar months to t, clamping the day-of-month to the
// last day of the target month (Jan 31 + 1 month = Feb 28/29). Both due-date
// computation and elapsed-month counting use this clamped arithmetic; Go's
// time.AddDate overflow behavior (Jan 31 + 1 month = Mar 3) would drift.
func AddMonths(t time.Time, n int) time.Time {
	y := t.Year()
	m := int(t.Month()) - 1 + n
	y += m / 12
	m %= 12
	if m < 0 {
		m += 12
		y--
	}
	month := time.Month(m + 1)
	day := t.Day()
	if last := daysIn(y, month); day > last {
		day = last
	}
	return time.Date(y, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// =============================================================================
// ACCRUAL CALCULATOR
// =============================================================================

// ElapsedMonths returns the number of whole months of interest accrued
// between start and now.
//
// Rules:
//   - now before (or equal to) start: 0. Clock skew and backdating are
//     tolerated silently, never negative accrual.
//   - Otherwise: the largest m such that start + m months <= now, plus one
//     more month if a remainder of at least one full day is left over. One
//     day into the second calendar month already counts as one month.
//
// A sub-day remainder (hours, minutes) does NOT round up.
func ElapsedMonths(start, now time.Time) int {
	if !now.After(start) {
		return 0
	}

	// Calendar month difference is an upper bound for the whole-month count;
	// walk it down until the anchor lands at or before now.
	months := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	for months > 0 && AddMonths(start, months).After(now) {
		months--
	}

	if now.Sub(AddMonths(start, months)) >= 24*time.Hour {
		months++
	}
	return months
}

// InterestAccrued returns simple, non-compounding interest for the given
// number of whole months, rounded to 2 decimal places (half up) at the point
// of computation.
func InterestAccrued(principal, monthlyRate decimal.Decimal, months int) decimal.Decimal {
	return principal.Mul(monthlyRate).Mul(decimal.NewFromInt(int64(months))).Round(2)
}
