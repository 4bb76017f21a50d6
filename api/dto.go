/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Monetary fields cross the JSON boundary as float64 carrying 2-decimal
  values; everything behind the boundary is decimal.Decimal.

SEE ALSO:
  - handlers.go: Uses these types
  - pawn/types.go: Domain records these map from
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/pawn-ledger/ledger"
	"github.com/warp/pawn-ledger/pawn"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CustomerRequest carries customer fields at origination.
type CustomerRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	NationalID string `json:"national_id,omitempty"`
	Address    string `json:"address,omitempty"`
}

// ItemRequest carries collateral fields at origination.
type ItemRequest struct {
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	EstimatedValue float64  `json:"estimated_value"`
	WeightGram     *float64 `json:"weight_gram,omitempty"`
}

// OpenTicketRequest creates a customer, an item and a ticket.
type OpenTicketRequest struct {
	Customer            CustomerRequest `json:"customer"`
	Item                ItemRequest     `json:"item"`
	Principal           float64         `json:"principal"`
	TenorMonths         int             `json:"tenor_months"`
	MonthlyInterestRate float64         `json:"monthly_interest_rate"`
}

// PaymentRequest records a payment against a ticket.
type PaymentRequest struct {
	TicketID string  `json:"ticket_id"`
	Amount   float64 `json:"amount"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// TicketDTO represents a ticket in API responses.
type TicketDTO struct {
	ID                  string  `json:"id"`
	CustomerID          string  `json:"customer_id"`
	ItemID              string  `json:"item_id"`
	Principal           float64 `json:"principal"`
	MonthlyInterestRate float64 `json:"monthly_interest_rate"`
	StartDate           string  `json:"start_date"`
	DueDate             string  `json:"due_date"`
	Status              string  `json:"status"`
	CreatedAt           string  `json:"created_at,omitempty"`
	UpdatedAt           string  `json:"updated_at,omitempty"`
}

// FinanceDTO is the derived financial state of a ticket.
type FinanceDTO struct {
	Months      int     `json:"months"`
	Interest    float64 `json:"interest"`
	Paid        float64 `json:"paid"`
	TotalDue    float64 `json:"total_due"`
	Outstanding float64 `json:"outstanding"`
}

// PaymentDTO represents a recorded payment.
type PaymentDTO struct {
	ID        string  `json:"id"`
	TicketID  string  `json:"ticket_id"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

// CustomerDTO represents a customer in API responses.
type CustomerDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	NationalID string `json:"national_id,omitempty"`
	Address    string `json:"address,omitempty"`
}

// ItemDTO represents collateral in API responses.
type ItemDTO struct {
	ID             string   `json:"id"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	EstimatedValue float64  `json:"estimated_value"`
	WeightGram     *float64 `json:"weight_gram,omitempty"`
}

// TicketSummaryDTO is a ticket enriched for listing.
type TicketSummaryDTO struct {
	TicketDTO
	CustomerName string     `json:"customer_name,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	ItemCategory string     `json:"item_category,omitempty"`
	ItemDesc     string     `json:"item_desc,omitempty"`
	Finance      FinanceDTO `json:"finance"`
}

// TicketDetailResponse is the full single-ticket view.
type TicketDetailResponse struct {
	Ticket   TicketDTO    `json:"ticket"`
	Customer *CustomerDTO `json:"customer"`
	Item     *ItemDTO     `json:"item"`
	Finance  FinanceDTO   `json:"finance"`
}

// PaymentResponse is returned after recording a payment.
type PaymentResponse struct {
	PaymentID string     `json:"payment_id"`
	Finance   FinanceDTO `json:"finance"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toTicketDTO(t pawn.Ticket) TicketDTO {
	principal, _ := t.Principal.Float64()
	rate, _ := t.MonthlyInterestRate.Float64()
	return TicketDTO{
		ID:                  string(t.ID),
		CustomerID:          string(t.CustomerID),
		ItemID:              string(t.ItemID),
		Principal:           principal,
		MonthlyInterestRate: rate,
		StartDate:           t.StartDate.Format(time.RFC3339),
		DueDate:             t.DueDate.Format(time.RFC3339),
		Status:              string(t.Status),
		CreatedAt:           t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           t.UpdatedAt.Format(time.RFC3339),
	}
}

func toFinanceDTO(s ledger.FinanceSnapshot) FinanceDTO {
	interest, _ := s.Interest.Float64()
	paid, _ := s.Paid.Float64()
	totalDue, _ := s.TotalDue.Float64()
	outstanding, _ := s.Outstanding.Float64()
	return FinanceDTO{
		Months:      s.Months,
		Interest:    interest,
		Paid:        paid,
		TotalDue:    totalDue,
		Outstanding: outstanding,
	}
}

func toPaymentDTO(p pawn.Payment) PaymentDTO {
	amount, _ := p.Amount.Float64()
	return PaymentDTO{
		ID:        string(p.ID),
		TicketID:  string(p.TicketID),
		Amount:    amount,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func toCustomerDTO(c *pawn.Customer) *CustomerDTO {
	if c == nil {
		return nil
	}
	return &CustomerDTO{
		ID:         string(c.ID),
		Name:       c.Name,
		Phone:      c.Phone,
		NationalID: c.NationalID,
		Address:    c.Address,
	}
}

func toItemDTO(it *pawn.Item) *ItemDTO {
	if it == nil {
		return nil
	}
	value, _ := it.EstimatedValue.Float64()
	dto := &ItemDTO{
		ID:             string(it.ID),
		Category:       string(it.Category),
		Description:    it.Description,
		EstimatedValue: value,
	}
	if it.WeightGrams != nil {
		w, _ := it.WeightGrams.Float64()
		dto.WeightGram = &w
	}
	return dto
}

func (r OpenTicketRequest) toDomain() pawn.OpenRequest {
	req := pawn.OpenRequest{
		Customer: pawn.CustomerInput{
			Name:       r.Customer.Name,
			Phone:      r.Customer.Phone,
			NationalID: r.Customer.NationalID,
			Address:    r.Customer.Address,
		},
		Item: pawn.ItemInput{
			Category:       pawn.ItemCategory(r.Item.Category),
			Description:    r.Item.Description,
			EstimatedValue: decimal.NewFromFloat(r.Item.EstimatedValue),
		},
		Principal:           decimal.NewFromFloat(r.Principal),
		MonthlyInterestRate: decimal.NewFromFloat(r.MonthlyInterestRate),
		TenorMonths:         r.TenorMonths,
	}
	if r.Item.WeightGram != nil {
		w := decimal.NewFromFloat(*r.Item.WeightGram)
		req.Item.WeightGrams = &w
	}
	return req
}
