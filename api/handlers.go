/*
handlers.go - HTTP API handlers for the pawn ledger

ENDPOINTS:
  GET    /health                     Database round-trip probe

  Tickets:
    POST   /api/tickets              Open a loan (customer + item + ticket)
    GET    /api/tickets              List tickets (status filter, limit)
    GET    /api/tickets/{id}         Ticket + customer + item + finance
    GET    /api/tickets/{id}/payments Payment history (newest first)
    POST   /api/tickets/{id}/redeem  Explicit redemption (strict zero gate)
    POST   /api/tickets/{id}/default Administrative default (no guard)

  Payments:
    POST   /api/payments             Record payment, maybe auto-redeem

REQUEST FLOW:
  1. Parse HTTP request
  2. Delegate to pawn.Service (all business rules live there)
  3. Serialize response
  4. Map errors to status codes

ERROR HANDLING:
  - 400: validation, invalid state, outstanding balance on redeem
  - 404: ticket not found
  - 500: internal errors
  - 503: /health when the store is unreachable

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - pawn/service.go: The operations these handlers expose
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/pawn-ledger/pawn"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *pawn.Service
	Store   pawn.Store
}

// NewHandler creates a new handler.
func NewHandler(service *pawn.Service, store pawn.Store) *Handler {
	return &Handler{Service: service, Store: store}
}

// =============================================================================
// HEALTH
// =============================================================================

// Health does a round trip to the store.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "db_error",
			"detail": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// =============================================================================
// TICKETS
// =============================================================================

// OpenTicket creates a customer, an item and an active ticket.
// POST /api/tickets
func (h *Handler) OpenTicket(w http.ResponseWriter, r *http.Request) {
	var req OpenTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ticket, err := h.Service.Open(r.Context(), req.toDomain())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"ticket": toTicketDTO(*ticket),
	})
}

// ListTickets returns enriched ticket summaries.
// GET /api/tickets?status=active&limit=50
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	status := pawn.Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown status filter", nil)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	summaries, err := h.Service.ListTickets(r.Context(), status, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tickets", err)
		return
	}

	dtos := make([]TicketSummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = TicketSummaryDTO{
			TicketDTO:    toTicketDTO(s.Ticket),
			CustomerName: s.CustomerName,
			Phone:        s.CustomerPhone,
			ItemCategory: string(s.ItemCategory),
			ItemDesc:     s.ItemDescription,
			Finance:      toFinanceDTO(s.Finance),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tickets": dtos})
}

// GetTicket returns a single ticket with customer, item and finance.
// GET /api/tickets/{id}
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	id := pawn.TicketID(chi.URLParam(r, "id"))

	detail, err := h.Service.GetTicket(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TicketDetailResponse{
		Ticket:   toTicketDTO(detail.Ticket),
		Customer: toCustomerDTO(detail.Customer),
		Item:     toItemDTO(detail.Item),
		Finance:  toFinanceDTO(detail.Finance),
	})
}

// ListPayments returns the payment history for a ticket.
// GET /api/tickets/{id}/payments
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id := pawn.TicketID(chi.URLParam(r, "id"))

	payments, err := h.Service.Payments(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"payments": dtos})
}

// =============================================================================
// PAYMENTS
// =============================================================================

// RecordPayment records a payment against an active ticket.
// POST /api/payments
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.TicketID == "" {
		writeError(w, http.StatusBadRequest, "ticket_id is required", nil)
		return
	}

	payment, finance, err := h.Service.RecordPayment(r.Context(),
		pawn.TicketID(req.TicketID), decimal.NewFromFloat(req.Amount))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PaymentResponse{
		PaymentID: string(payment.ID),
		Finance:   toFinanceDTO(finance),
	})
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Redeem redeems a fully settled ticket.
// POST /api/tickets/{id}/redeem
func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	id := pawn.TicketID(chi.URLParam(r, "id"))

	if err := h.Service.Redeem(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": string(pawn.StatusRedeemed)})
}

// MarkDefault marks a ticket defaulted. Always succeeds if the ticket exists.
// POST /api/tickets/{id}/default
func (h *Handler) MarkDefault(w http.ResponseWriter, r *http.Request) {
	id := pawn.TicketID(chi.URLParam(r, "id"))

	if err := h.Service.MarkDefault(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": string(pawn.StatusDefaulted)})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps domain errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case pawn.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Ticket not found", err)
	case pawn.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
