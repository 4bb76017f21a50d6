/*
Package pawn implements the loan lifecycle on top of the ledger package.

KEY CONCEPTS IN THIS FILE (types.go):
  - Ticket: one loan secured by one item. Principal, rate, start and due
    dates are fixed at origination; only status ever mutates.
  - Payment: an append-only record of money received against a ticket.
  - Customer/Item: reference data consumed by the accrual logic by id only.
  - Typed IDs: TicketID, PaymentID, CustomerID, ItemID prevent mixing.

STATE MACHINE:
  active -> redeemed   (full settlement, or explicit redeem at zero balance)
  active -> defaulted  (administrative override, unconditional)
  redeemed and defaulted are terminal; no transitions out, with the single
  documented exception that mark-default overwrites any status.

SEE ALSO:
  - service.go: the operations that drive these records
  - store.go: persistence interface
*/
package pawn

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/pawn-ledger/ledger"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type TicketID string
type PaymentID string
type CustomerID string
type ItemID string

// =============================================================================
// TICKET STATUS
// =============================================================================

type Status string

const (
	StatusActive    Status = "active"
	StatusRedeemed  Status = "redeemed"
	StatusDefaulted Status = "defaulted"
)

// Terminal reports whether no further lifecycle transitions are expected.
func (s Status) Terminal() bool { return s == StatusRedeemed || s == StatusDefaulted }

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusRedeemed, StatusDefaulted:
		return true
	}
	return false
}

// =============================================================================
// ITEM CATEGORIES
// =============================================================================

type ItemCategory string

const (
	CategoryGold        ItemCategory = "gold"
	CategoryGadget      ItemCategory = "gadget"
	CategoryElectronics ItemCategory = "electronics"
	CategoryVehicle     ItemCategory = "vehicle"
	CategoryOther       ItemCategory = "other"
)

func (c ItemCategory) Valid() bool {
	switch c {
	case CategoryGold, CategoryGadget, CategoryElectronics, CategoryVehicle, CategoryOther:
		return true
	}
	return false
}

// =============================================================================
// RECORDS
// =============================================================================

// Ticket is one loan secured by one item.
// Invariants: Principal > 0, MonthlyInterestRate >= 0,
// DueDate = StartDate + tenor months (tenor fixed at creation, 1-12).
type Ticket struct {
	ID                  TicketID
	CustomerID          CustomerID
	ItemID              ItemID
	Principal           decimal.Decimal
	MonthlyInterestRate decimal.Decimal
	StartDate           time.Time
	DueDate             time.Time
	Status              Status
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Payment is one recorded payment against a ticket. Amount > 0.
// Payments are append-only: never mutated, never deleted.
type Payment struct {
	ID        PaymentID
	TicketID  TicketID
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// Customer is reference data; the settlement engine never mutates it.
type Customer struct {
	ID         CustomerID
	Name       string
	Phone      string
	NationalID string
	Address    string
	CreatedAt  time.Time
}

// Item is the pledged collateral.
type Item struct {
	ID             ItemID
	Category       ItemCategory
	Description    string
	EstimatedValue decimal.Decimal
	WeightGrams    *decimal.Decimal
	CreatedAt      time.Time
}

// =============================================================================
// SERVICE INPUT / OUTPUT SHAPES
// =============================================================================

// CustomerInput are the customer fields accepted at origination.
type CustomerInput struct {
	Name       string
	Phone      string
	NationalID string
	Address    string
}

// ItemInput are the collateral fields accepted at origination.
type ItemInput struct {
	Category       ItemCategory
	Description    string
	EstimatedValue decimal.Decimal
	WeightGrams    *decimal.Decimal
}

// OpenRequest creates a customer, an item and an active ticket in one go.
type OpenRequest struct {
	Customer            CustomerInput
	Item                ItemInput
	Principal           decimal.Decimal
	MonthlyInterestRate decimal.Decimal
	TenorMonths         int
}

// TicketSummary is a ticket enriched for listing: minimal customer and item
// info plus a finance snapshot computed at the query instant.
type TicketSummary struct {
	Ticket          Ticket
	CustomerName    string
	CustomerPhone   string
	ItemCategory    ItemCategory
	ItemDescription string
	Finance         ledger.FinanceSnapshot
}

// TicketDetail is the full view of a single ticket.
type TicketDetail struct {
	Ticket   Ticket
	Customer *Customer
	Item     *Item
	Finance  ledger.FinanceSnapshot
}
