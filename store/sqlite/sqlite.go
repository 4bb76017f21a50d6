/*
Package sqlite provides the SQLite-backed implementation of pawn.Store.

PURPOSE:
  Production persistence for tickets, payments, customers and items. The
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

APPEND-ONLY ENFORCEMENT:
  No UPDATE or DELETE statement exists for the payments table. The payment
  history is the sole source of truth for amounts paid; outstanding balance
  is always recomputed from it, never cached on the ticket.

TICKETS:
  The only mutation a ticket receives after insert is the status field
  (UpdateTicketStatus). Principal, rate and dates are immutable.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers don't
  block, single writer at a time, better crash recovery.

MIGRATION:
  Schema is applied on New() via goose with embedded SQL migrations
  (see migrations.go).

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

USAGE:
  store, err := sqlite.New("./data/pawn.db")   // ":memory:" for tests
  if err != nil { ... }
  defer store.Close()

SEE ALSO:
  - pawn/store.go: interface definition
  - store/memory: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/pawn-ledger/pawn"
)

// Store implements pawn.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path and applies migrations.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping performs a round trip to verify the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	return s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func (s *Store) InsertCustomer(ctx context.Context, c pawn.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO customers (id, name, phone, national_id, address, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Phone,
		nullString(c.NationalID), nullString(c.Address),
		c.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func (s *Store) GetCustomer(ctx context.Context, id pawn.CustomerID) (*pawn.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		c                   pawn.Customer
		nationalID, address sql.NullString
		createdAt           string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, phone, national_id, address, created_at FROM customers WHERE id = ?",
		id,
	).Scan(&c.ID, &c.Name, &c.Phone, &nationalID, &address, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	c.NationalID = nationalID.String
	c.Address = address.String
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}

// =============================================================================
// ITEMS
// =============================================================================

func (s *Store) InsertItem(ctx context.Context, it pawn.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var weight *string
	if it.WeightGrams != nil {
		w := it.WeightGrams.String()
		weight = &w
	}

	query := `
		INSERT INTO items (id, category, description, estimated_value, weight_grams, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		it.ID, it.Category, it.Description,
		it.EstimatedValue.String(), weight,
		it.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, id pawn.ItemID) (*pawn.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		it             pawn.Item
		estimatedValue string
		weight         sql.NullString
		createdAt      string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, category, description, estimated_value, weight_grams, created_at FROM items WHERE id = ?",
		id,
	).Scan(&it.ID, &it.Category, &it.Description, &estimatedValue, &weight, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	it.EstimatedValue = parseDecimal(estimatedValue)
	if weight.Valid {
		w := parseDecimal(weight.String)
		it.WeightGrams = &w
	}
	it.CreatedAt = parseTime(createdAt)
	return &it, nil
}

// =============================================================================
// TICKETS
// =============================================================================

func (s *Store) InsertTicket(ctx context.Context, t pawn.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO tickets
		(id, customer_id, item_id, principal, monthly_interest_rate,
		 start_date, due_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.CustomerID, t.ItemID,
		t.Principal.String(), t.MonthlyInterestRate.String(),
		t.StartDate.UTC().Format(time.RFC3339Nano),
		t.DueDate.UTC().Format(time.RFC3339Nano),
		t.Status,
		t.CreatedAt.UTC().Format(time.RFC3339Nano),
		t.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}
	return nil
}

func (s *Store) FindTicket(ctx context.Context, id pawn.TicketID) (*pawn.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, customer_id, item_id, principal, monthly_interest_rate,
		       start_date, due_date, status, created_at, updated_at
		FROM tickets WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)
	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) ListTickets(ctx context.Context, status pawn.Status, limit int) ([]pawn.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	var (
		query string
		args  []any
	)
	if status != "" {
		query = `
			SELECT id, customer_id, item_id, principal, monthly_interest_rate,
			       start_date, due_date, status, created_at, updated_at
			FROM tickets
			WHERE status = ?
			ORDER BY created_at DESC
			LIMIT ?
		`
		args = []any{status, limit}
	} else {
		query = `
			SELECT id, customer_id, item_id, principal, monthly_interest_rate,
			       start_date, due_date, status, created_at, updated_at
			FROM tickets
			ORDER BY created_at DESC
			LIMIT ?
		`
		args = []any{limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []pawn.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

// UpdateTicketStatus sets the status field. This is the only UPDATE the
// tickets table ever sees.
func (s *Store) UpdateTicketStatus(ctx context.Context, id pawn.TicketID, status pawn.Status, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE tickets SET status = ?, updated_at = ? WHERE id = ?",
		status, updatedAt.UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return pawn.ErrTicketNotFound
	}
	return nil
}

// =============================================================================
// PAYMENTS (append-only)
// =============================================================================

func (s *Store) InsertPayment(ctx context.Context, p pawn.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO payments (id, ticket_id, amount, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.TicketID, p.Amount.String(),
		p.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (s *Store) PaymentsForTicket(ctx context.Context, id pawn.TicketID) ([]pawn.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, ticket_id, amount, created_at
		FROM payments
		WHERE ticket_id = ?
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []pawn.Payment
	for rows.Next() {
		var (
			p         pawn.Payment
			amount    string
			createdAt string
		)
		if err := rows.Scan(&p.ID, &p.TicketID, &amount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Amount = parseDecimal(amount)
		p.CreatedAt = parseTime(createdAt)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*pawn.Ticket, error) {
	var (
		t                    pawn.Ticket
		principal, rate      string
		startDate, dueDate   string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&t.ID, &t.CustomerID, &t.ItemID, &principal, &rate,
		&startDate, &dueDate, &t.Status, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan ticket: %w", err)
	}

	t.Principal = parseDecimal(principal)
	t.MonthlyInterestRate = parseDecimal(rate)
	t.StartDate = parseTime(startDate)
	t.DueDate = parseTime(dueDate)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
