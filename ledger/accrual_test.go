package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/pawn-ledger/ledger"
)

// =============================================================================
// CALENDAR ARITHMETIC TESTS
// =============================================================================

func TestAddMonths_ClampsToEndOfMonth(t *testing.T) {
	// GIVEN: A start date on the 31st
	// WHEN: Adding one month into a shorter month
	// THEN: The day clamps to the last day of the target month

	jan31 := time.Date(2025, time.January, 31, 10, 30, 0, 0, time.UTC)

	feb := ledger.AddMonths(jan31, 1)
	assert.Equal(t, time.Date(2025, time.February, 28, 10, 30, 0, 0, time.UTC), feb)

	// Leap year keeps the 29th
	jan31Leap := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	febLeap := ledger.AddMonths(jan31Leap, 1)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), febLeap)
}

func TestAddMonths_PlainDates(t *testing.T) {
	start := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), ledger.AddMonths(start, 3))
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), ledger.AddMonths(start, 12))
	assert.Equal(t, start, ledger.AddMonths(start, 0))
}

func TestAddMonths_CrossesYearBoundary(t *testing.T) {
	nov := time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), ledger.AddMonths(nov, 3))
}

// =============================================================================
// ELAPSED MONTHS TESTS
// =============================================================================

func TestElapsedMonths_StartInstant_Zero(t *testing.T) {
	// GIVEN: A loan opened at time T
	// WHEN: Computing elapsed months at exactly T
	// THEN: Zero months have accrued

	start := time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, ledger.ElapsedMonths(start, start))
}

func TestElapsedMonths_NowBeforeStart_Zero(t *testing.T) {
	// GIVEN: A "now" earlier than the start date (clock skew, backdating)
	// WHEN: Computing elapsed months
	// THEN: Zero, never negative

	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, -2, 0)
	assert.Equal(t, 0, ledger.ElapsedMonths(start, before))
}

func TestElapsedMonths_SubDayRemainder_DoesNotRoundUp(t *testing.T) {
	// GIVEN: A loan opened a few hours ago
	// WHEN: Computing elapsed months
	// THEN: Still zero; only a full-day remainder counts

	start := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, ledger.ElapsedMonths(start, start.Add(23*time.Hour)))
	assert.Equal(t, 0, ledger.ElapsedMonths(start, start.Add(30*time.Minute)))
}

func TestElapsedMonths_OneDay_RoundsUpToOne(t *testing.T) {
	// GIVEN: A loan one full day old
	// WHEN: Computing elapsed months
	// THEN: The partial month already counts as one

	start := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, ledger.ElapsedMonths(start, start.Add(24*time.Hour)))
	assert.Equal(t, 1, ledger.ElapsedMonths(start, start.AddDate(0, 0, 10)))
}

func TestElapsedMonths_ExactMonthBoundaries(t *testing.T) {
	// GIVEN: A loan exactly N calendar months old
	// WHEN: Computing elapsed months
	// THEN: Exactly N, no extra partial month

	start := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, ledger.ElapsedMonths(start, ledger.AddMonths(start, 1)))
	assert.Equal(t, 2, ledger.ElapsedMonths(start, ledger.AddMonths(start, 2)))
	assert.Equal(t, 12, ledger.ElapsedMonths(start, ledger.AddMonths(start, 12)))
}

func TestElapsedMonths_MonthPlusDay(t *testing.T) {
	// One month and one day old: the extra day starts the second month
	start := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	now := ledger.AddMonths(start, 1).AddDate(0, 0, 1)
	assert.Equal(t, 2, ledger.ElapsedMonths(start, now))
}

func TestElapsedMonths_MonthPlusHours_NoRoundUp(t *testing.T) {
	// One month and a few hours: the sub-day remainder does not count
	start := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	now := ledger.AddMonths(start, 1).Add(6 * time.Hour)
	assert.Equal(t, 1, ledger.ElapsedMonths(start, now))
}

func TestElapsedMonths_EndOfMonthStart(t *testing.T) {
	// GIVEN: A loan opened Jan 31
	// WHEN: Checking on Feb 28 (the clamped anniversary) and on Mar 1
	// THEN: Feb 28 is exactly one month; Mar 1 adds a day, so two

	start := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

	feb28 := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, ledger.ElapsedMonths(start, feb28))

	mar1 := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, ledger.ElapsedMonths(start, mar1))
}

// =============================================================================
// INTEREST ACCRUAL TESTS
// =============================================================================

func TestInterestAccrued_SimpleNonCompounding(t *testing.T) {
	// GIVEN: Principal 1,000,000 at 5% monthly
	// WHEN: Two months have elapsed
	// THEN: Interest is 100,000 (simple, not compounded)

	principal := decimal.NewFromInt(1_000_000)
	rate := decimal.RequireFromString("0.05")

	interest := ledger.InterestAccrued(principal, rate, 2)
	assert.True(t, interest.Equal(decimal.NewFromInt(100_000)), "got %s", interest)
}

func TestInterestAccrued_ZeroMonths_ZeroInterest(t *testing.T) {
	principal := decimal.NewFromInt(500_000)
	rate := decimal.RequireFromString("0.03")

	interest := ledger.InterestAccrued(principal, rate, 0)
	assert.True(t, interest.IsZero())
}

func TestInterestAccrued_ZeroRate_ZeroInterest(t *testing.T) {
	principal := decimal.NewFromInt(500_000)

	interest := ledger.InterestAccrued(principal, decimal.Zero, 6)
	assert.True(t, interest.IsZero())
}

func TestInterestAccrued_RoundsHalfUpAtComputation(t *testing.T) {
	// GIVEN: Inputs producing a sub-cent product
	// WHEN: Accruing interest
	// THEN: The result is rounded half up to 2 places immediately

	// 333.33 * 0.015 * 1 = 4.99995 -> 5.00
	interest := ledger.InterestAccrued(decimal.RequireFromString("333.33"), decimal.RequireFromString("0.015"), 1)
	assert.Equal(t, "5.00", interest.StringFixed(2))

	// 12.5 * 0.01 * 1 = 0.125 -> 0.13 (half up, not banker's)
	interest = ledger.InterestAccrued(decimal.RequireFromString("12.5"), decimal.RequireFromString("0.01"), 1)
	assert.Equal(t, "0.13", interest.StringFixed(2))
}
