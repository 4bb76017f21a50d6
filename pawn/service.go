/*
service.go - Lifecycle manager for pawn tickets

PURPOSE:
  Drives the ticket state machine on top of the pure ledger math. Every
  operation snapshots "now" exactly once and threads it through, so one
  response is internally consistent even across a month boundary.

OPERATIONS:
  Open          Create customer + item + active ticket
  Finance       Compute the finance snapshot at one instant
  RecordPayment Append a payment, auto-redeem when settled
  Redeem        Explicit redemption, strict zero-balance gate
  MarkDefault   Administrative override, unconditional
  GetTicket     Ticket + customer + item + finance
  ListTickets   Enriched summaries, optional status filter
  Payments      Payment history for display

CONCURRENCY:
  RecordPayment's append-then-check sequence is two store calls with no
  transactional guarantee across them. A per-ticket mutex serializes all
  mutating operations on one ticket so two concurrent payments cannot both
  read a pre-settlement balance. Tickets are independent; there is no
  cross-ticket locking.

EPSILON ASYMMETRY:
  RecordPayment auto-redeems at outstanding <= 0.01 (floating-point residue
  tolerance) while Redeem requires exactly zero. Both behaviors are kept as
  the product defines them; do not unify.
*/
package pawn

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/pawn-ledger/ledger"
)

// autoRedeemEpsilon is the residue tolerance for the auto-redeem check after
// a payment. The explicit Redeem operation does NOT use it.
var autoRedeemEpsilon = decimal.RequireFromString("0.01")

const defaultListLimit = 50

// Service implements the lifecycle operations over an injected Store.
type Service struct {
	store Store
	now   func() time.Time

	mu    sync.Mutex
	locks map[TicketID]*sync.Mutex
}

// NewService creates a service reading time from the UTC wall clock.
func NewService(store Store) *Service {
	return NewServiceWithClock(store, func() time.Time { return time.Now().UTC() })
}

// NewServiceWithClock creates a service with an injected clock. Tests use
// this to pin "now".
func NewServiceWithClock(store Store, now func() time.Time) *Service {
	return &Service{
		store: store,
		now:   now,
		locks: make(map[TicketID]*sync.Mutex),
	}
}

// lockTicket serializes mutating operations per ticket. Returns the unlock.
func (s *Service) lockTicket(id TicketID) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// =============================================================================
// ORIGINATION
// =============================================================================

// Open creates the customer, the collateral item and an active ticket.
// The due date is start + tenor months with calendar clamping.
func (s *Service) Open(ctx context.Context, req OpenRequest) (*Ticket, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()

	customer := Customer{
		ID:         CustomerID(uuid.NewString()),
		Name:       req.Customer.Name,
		Phone:      req.Customer.Phone,
		NationalID: req.Customer.NationalID,
		Address:    req.Customer.Address,
		CreatedAt:  now,
	}
	if err := s.store.InsertCustomer(ctx, customer); err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}

	item := Item{
		ID:             ItemID(uuid.NewString()),
		Category:       req.Item.Category,
		Description:    req.Item.Description,
		EstimatedValue: req.Item.EstimatedValue,
		WeightGrams:    req.Item.WeightGrams,
		CreatedAt:      now,
	}
	if err := s.store.InsertItem(ctx, item); err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	ticket := Ticket{
		ID:                  TicketID(uuid.NewString()),
		CustomerID:          customer.ID,
		ItemID:              item.ID,
		Principal:           req.Principal,
		MonthlyInterestRate: req.MonthlyInterestRate,
		StartDate:           now,
		DueDate:             ledger.AddMonths(now, req.TenorMonths),
		Status:              StatusActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.store.InsertTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("insert ticket: %w", err)
	}

	zap.L().Info("ticket opened",
		zap.String("ticket_id", string(ticket.ID)),
		zap.String("principal", ticket.Principal.String()),
		zap.String("rate", ticket.MonthlyInterestRate.String()),
		zap.Int("tenor_months", req.TenorMonths),
	)
	return &ticket, nil
}

// =============================================================================
// FINANCE
// =============================================================================

// Finance computes the finance snapshot for a ticket as of a single "now".
func (s *Service) Finance(ctx context.Context, id TicketID) (ledger.FinanceSnapshot, error) {
	t, err := s.findTicket(ctx, id)
	if err != nil {
		return ledger.FinanceSnapshot{}, err
	}
	return s.finance(ctx, t, s.now())
}

// finance settles a loaded ticket against its full payment history at the
// given instant.
func (s *Service) finance(ctx context.Context, t *Ticket, now time.Time) (ledger.FinanceSnapshot, error) {
	payments, err := s.store.PaymentsForTicket(ctx, t.ID)
	if err != nil {
		return ledger.FinanceSnapshot{}, fmt.Errorf("load payments: %w", err)
	}

	amounts := make([]decimal.Decimal, len(payments))
	for i, p := range payments {
		amounts[i] = p.Amount
	}
	return ledger.Settle(t.Principal, t.MonthlyInterestRate, t.StartDate, now, amounts), nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

// RecordPayment appends a payment to an active ticket, then recomputes the
// balance; if outstanding drops to the epsilon or below, the ticket is
// auto-redeemed. Returns the payment and the post-payment snapshot.
func (s *Service) RecordPayment(ctx context.Context, id TicketID, amount decimal.Decimal) (*Payment, ledger.FinanceSnapshot, error) {
	if !amount.IsPositive() {
		return nil, ledger.FinanceSnapshot{}, &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	unlock := s.lockTicket(id)
	defer unlock()

	t, err := s.findTicket(ctx, id)
	if err != nil {
		return nil, ledger.FinanceSnapshot{}, err
	}
	if t.Status != StatusActive {
		return nil, ledger.FinanceSnapshot{}, &InvalidStateError{TicketID: id, Status: t.Status}
	}

	now := s.now()
	payment := Payment{
		ID:        PaymentID(uuid.NewString()),
		TicketID:  id,
		Amount:    amount,
		CreatedAt: now,
	}
	if err := s.store.InsertPayment(ctx, payment); err != nil {
		return nil, ledger.FinanceSnapshot{}, fmt.Errorf("insert payment: %w", err)
	}

	snap, err := s.finance(ctx, t, now)
	if err != nil {
		return nil, ledger.FinanceSnapshot{}, err
	}
	if snap.Outstanding.LessThanOrEqual(autoRedeemEpsilon) {
		if err := s.store.UpdateTicketStatus(ctx, id, StatusRedeemed, now); err != nil {
			return nil, ledger.FinanceSnapshot{}, fmt.Errorf("update ticket status: %w", err)
		}
		zap.L().Info("ticket settled in full, redeemed",
			zap.String("ticket_id", string(id)),
			zap.String("paid", snap.Paid.String()),
		)
	}

	zap.L().Info("payment recorded",
		zap.String("ticket_id", string(id)),
		zap.String("payment_id", string(payment.ID)),
		zap.String("amount", amount.String()),
		zap.String("outstanding", snap.Outstanding.String()),
	)
	return &payment, snap, nil
}

// Payments returns the payment history for display, newest first.
func (s *Service) Payments(ctx context.Context, id TicketID) ([]Payment, error) {
	if _, err := s.findTicket(ctx, id); err != nil {
		return nil, err
	}
	return s.store.PaymentsForTicket(ctx, id)
}

// =============================================================================
// LIFECYCLE TRANSITIONS
// =============================================================================

// Redeem transitions an active ticket to redeemed, but only when the
// outstanding balance is exactly zero. Unlike the post-payment auto-redeem
// there is no epsilon here.
func (s *Service) Redeem(ctx context.Context, id TicketID) error {
	unlock := s.lockTicket(id)
	defer unlock()

	t, err := s.findTicket(ctx, id)
	if err != nil {
		return err
	}
	if t.Status != StatusActive {
		return &InvalidStateError{TicketID: id, Status: t.Status}
	}

	now := s.now()
	snap, err := s.finance(ctx, t, now)
	if err != nil {
		return err
	}
	if !snap.Outstanding.IsZero() {
		return &OutstandingBalanceError{TicketID: id, Outstanding: snap.Outstanding}
	}

	if err := s.store.UpdateTicketStatus(ctx, id, StatusRedeemed, now); err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	zap.L().Info("ticket redeemed", zap.String("ticket_id", string(id)))
	return nil
}

// MarkDefault transitions a ticket to defaulted. There is no guard beyond
// existence: any status, any balance. Administrative override, always
// succeeds if the ticket exists.
func (s *Service) MarkDefault(ctx context.Context, id TicketID) error {
	unlock := s.lockTicket(id)
	defer unlock()

	if _, err := s.findTicket(ctx, id); err != nil {
		return err
	}

	if err := s.store.UpdateTicketStatus(ctx, id, StatusDefaulted, s.now()); err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	zap.L().Info("ticket marked defaulted", zap.String("ticket_id", string(id)))
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// GetTicket returns the ticket with its customer, item and finance snapshot.
func (s *Service) GetTicket(ctx context.Context, id TicketID) (*TicketDetail, error) {
	t, err := s.findTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	snap, err := s.finance(ctx, t, s.now())
	if err != nil {
		return nil, err
	}

	customer, err := s.store.GetCustomer(ctx, t.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	item, err := s.store.GetItem(ctx, t.ItemID)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}

	return &TicketDetail{Ticket: *t, Customer: customer, Item: item, Finance: snap}, nil
}

// ListTickets returns enriched summaries, newest first. All snapshots in one
// listing share the same "now".
func (s *Service) ListTickets(ctx context.Context, status Status, limit int) ([]TicketSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	tickets, err := s.store.ListTickets(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	now := s.now()
	summaries := make([]TicketSummary, 0, len(tickets))
	for i := range tickets {
		t := tickets[i]

		snap, err := s.finance(ctx, &t, now)
		if err != nil {
			return nil, err
		}

		summary := TicketSummary{Ticket: t, Finance: snap}
		if customer, err := s.store.GetCustomer(ctx, t.CustomerID); err == nil && customer != nil {
			summary.CustomerName = customer.Name
			summary.CustomerPhone = customer.Phone
		}
		if item, err := s.store.GetItem(ctx, t.ItemID); err == nil && item != nil {
			summary.ItemCategory = item.Category
			summary.ItemDescription = item.Description
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// findTicket loads a ticket and maps absence to ErrTicketNotFound.
func (s *Service) findTicket(ctx context.Context, id TicketID) (*Ticket, error) {
	t, err := s.store.FindTicket(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, id)
	}
	return t, nil
}
