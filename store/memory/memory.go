// Package memory provides an in-memory pawn.Store (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/pawn-ledger/pawn"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	customers map[pawn.CustomerID]pawn.Customer
	items     map[pawn.ItemID]pawn.Item
	tickets   map[pawn.TicketID]pawn.Ticket
	payments  map[pawn.TicketID][]pawn.Payment
}

func New() *Store {
	return &Store{
		customers: make(map[pawn.CustomerID]pawn.Customer),
		items:     make(map[pawn.ItemID]pawn.Item),
		tickets:   make(map[pawn.TicketID]pawn.Ticket),
		payments:  make(map[pawn.TicketID][]pawn.Payment),
	}
}

func (s *Store) InsertCustomer(_ context.Context, c pawn.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
	return nil
}

func (s *Store) GetCustomer(_ context.Context, id pawn.CustomerID) (*pawn.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Store) InsertItem(_ context.Context, it pawn.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[it.ID] = it
	return nil
}

func (s *Store) GetItem(_ context.Context, id pawn.ItemID) (*pawn.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (s *Store) InsertTicket(_ context.Context, t pawn.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[t.ID] = t
	return nil
}

func (s *Store) FindTicket(_ context.Context, id pawn.TicketID) (*pawn.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *Store) ListTickets(_ context.Context, status pawn.Status, limit int) ([]pawn.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tickets []pawn.Ticket
	for _, t := range s.tickets {
		if status != "" && t.Status != status {
			continue
		}
		tickets = append(tickets, t)
	}
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
	if limit > 0 && len(tickets) > limit {
		tickets = tickets[:limit]
	}
	return tickets, nil
}

func (s *Store) UpdateTicketStatus(_ context.Context, id pawn.TicketID, status pawn.Status, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return pawn.ErrTicketNotFound
	}
	t.Status = status
	t.UpdatedAt = updatedAt
	s.tickets[id] = t
	return nil
}

// InsertPayment appends a payment. Append-only: there is no mutation path.
func (s *Store) InsertPayment(_ context.Context, p pawn.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.TicketID] = append(s.payments[p.TicketID], p)
	return nil
}

func (s *Store) PaymentsForTicket(_ context.Context, id pawn.TicketID) ([]pawn.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]pawn.Payment, len(s.payments[id]))
	copy(result, s.payments[id])
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) Ping(context.Context) error { return nil }
