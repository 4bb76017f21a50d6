package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/pawn-ledger/ledger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// =============================================================================
// SETTLEMENT TESTS
// =============================================================================

func TestSettle_TwoMonthsNoPayments(t *testing.T) {
	// GIVEN: 1,000,000 at 5% monthly, opened exactly two months ago, no payments
	// WHEN: Settling as of now
	// THEN: interest 100,000, total due 1,100,000, all of it outstanding

	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	now := ledger.AddMonths(start, 2)

	snap := ledger.Settle(d("1000000"), d("0.05"), start, now, nil)

	assert.Equal(t, 2, snap.Months)
	assert.True(t, snap.Interest.Equal(d("100000")), "interest %s", snap.Interest)
	assert.True(t, snap.Paid.IsZero())
	assert.True(t, snap.TotalDue.Equal(d("1100000")), "total due %s", snap.TotalDue)
	assert.True(t, snap.Outstanding.Equal(d("1100000")), "outstanding %s", snap.Outstanding)
}

func TestSettle_PaymentsReduceOutstanding(t *testing.T) {
	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	now := ledger.AddMonths(start, 1)

	snap := ledger.Settle(d("1000000"), d("0.05"), start, now, []decimal.Decimal{d("500000"), d("300000")})

	assert.True(t, snap.Paid.Equal(d("800000")))
	assert.True(t, snap.TotalDue.Equal(d("1050000")))
	assert.True(t, snap.Outstanding.Equal(d("250000")))
}

func TestSettle_OverpaymentFloorsAtZero(t *testing.T) {
	// GIVEN: Payments exceeding the total due
	// WHEN: Settling
	// THEN: Outstanding is zero, never negative; Paid keeps the full sum

	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	now := ledger.AddMonths(start, 1)

	snap := ledger.Settle(d("1000000"), d("0.05"), start, now, []decimal.Decimal{d("2000000")})

	assert.True(t, snap.Outstanding.IsZero())
	assert.True(t, snap.Paid.Equal(d("2000000")))
}

func TestSettle_ZeroMonths_PrincipalOnly(t *testing.T) {
	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	snap := ledger.Settle(d("250000"), d("0.1"), start, start, nil)

	assert.Equal(t, 0, snap.Months)
	assert.True(t, snap.Interest.IsZero())
	assert.True(t, snap.TotalDue.Equal(d("250000")))
}

func TestSettle_MonotonicInTime(t *testing.T) {
	// GIVEN: A ticket with no payments
	// WHEN: Settling at successively later instants
	// THEN: Outstanding never decreases

	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	principal, rate := d("100000"), d("0.02")

	prev := decimal.Zero
	for m := 0; m <= 12; m++ {
		snap := ledger.Settle(principal, rate, start, ledger.AddMonths(start, m), nil)
		assert.True(t, snap.Outstanding.GreaterThanOrEqual(prev),
			"outstanding dropped at month %d: %s < %s", m, snap.Outstanding, prev)
		prev = snap.Outstanding
	}
}

func TestSettle_MonotonicInPayments(t *testing.T) {
	// GIVEN: A fixed instant
	// WHEN: Adding payments one by one
	// THEN: Outstanding never increases

	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	now := ledger.AddMonths(start, 3)
	principal, rate := d("100000"), d("0.02")

	var payments []decimal.Decimal
	prev := ledger.Settle(principal, rate, start, now, nil).Outstanding
	for i := 0; i < 10; i++ {
		payments = append(payments, d("15000"))
		snap := ledger.Settle(principal, rate, start, now, payments)
		assert.True(t, snap.Outstanding.LessThanOrEqual(prev),
			"outstanding grew after payment %d", i+1)
		prev = snap.Outstanding
	}
}

func TestSettle_RoundingOrder(t *testing.T) {
	// GIVEN: A rate producing sub-cent interest
	// WHEN: Settling
	// THEN: Interest is rounded before the addition; outstanding is computed
	//       from the rounded total due minus the raw paid sum

	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, 1) // one month accrued

	// 333.33 * 0.015 * 1 = 4.99995 -> interest 5.00, total due 338.33
	snap := ledger.Settle(d("333.33"), d("0.015"), start, now, []decimal.Decimal{d("38.33")})

	assert.Equal(t, "5.00", snap.Interest.StringFixed(2))
	assert.Equal(t, "338.33", snap.TotalDue.StringFixed(2))
	assert.Equal(t, "300.00", snap.Outstanding.StringFixed(2))
}
