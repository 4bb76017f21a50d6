/*
store.go - Persistence interface between the lifecycle service and the database

PURPOSE:
  A generic keyed document store is all the core needs. Implementations can
  use SQLite, PostgreSQL, or memory; the service only sees this interface.

APPEND-ONLY CONTRACT FOR PAYMENTS:
  InsertPayment is the only write path for payments. No update or delete
  method exists; the payment table is the sole source of truth for amounts
  paid, and outstanding balance is always recomputed from it.

NOT-FOUND CONVENTION:
  Lookups return (nil, nil) when the record does not exist. Translating that
  into ErrTicketNotFound is the service's job, not the store's.

IMPLEMENTATIONS:
  - store/sqlite: production store (WAL, goose migrations)
  - store/memory: in-memory store for tests and dev
*/
package pawn

import (
	"context"
	"time"
)

// Store is the persistence collaborator for the lifecycle service.
// No retry policy is provided here; callers own retry/backoff at this
// boundary if they need one.
type Store interface {
	// InsertCustomer persists a new customer record.
	InsertCustomer(ctx context.Context, c Customer) error

	// GetCustomer returns the customer or (nil, nil) if absent.
	GetCustomer(ctx context.Context, id CustomerID) (*Customer, error)

	// InsertItem persists a new collateral record.
	InsertItem(ctx context.Context, it Item) error

	// GetItem returns the item or (nil, nil) if absent.
	GetItem(ctx context.Context, id ItemID) (*Item, error)

	// InsertTicket persists a new ticket.
	InsertTicket(ctx context.Context, t Ticket) error

	// FindTicket returns the ticket or (nil, nil) if absent.
	FindTicket(ctx context.Context, id TicketID) (*Ticket, error)

	// ListTickets returns tickets newest-first, optionally filtered by
	// status (empty = all). limit <= 0 means implementation default.
	ListTickets(ctx context.Context, status Status, limit int) ([]Ticket, error)

	// UpdateTicketStatus sets the status field. The only mutation a ticket
	// ever receives after creation.
	UpdateTicketStatus(ctx context.Context, id TicketID, status Status, updatedAt time.Time) error

	// InsertPayment appends a payment. Append-only: no update, no delete.
	InsertPayment(ctx context.Context, p Payment) error

	// PaymentsForTicket returns all payments ever recorded against the
	// ticket, newest-first. Order matters only for display; the settlement
	// sum is order-independent.
	PaymentsForTicket(ctx context.Context, id TicketID) ([]Payment, error)

	// Ping verifies the store is reachable with a round trip.
	Ping(ctx context.Context) error
}
