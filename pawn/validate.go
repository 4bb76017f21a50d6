package pawn

import "fmt"

// Origination bounds. Tenor is whole months, fixed at creation.
const (
	MinTenorMonths = 1
	MaxTenorMonths = 12

	minNameLen        = 2
	maxNameLen        = 100
	minPhoneLen       = 8
	maxPhoneLen       = 20
	minDescriptionLen = 3
	maxDescriptionLen = 200
)

// Validate checks an origination request before any record is created.
// The first violation wins; nothing is persisted on failure.
func (r OpenRequest) Validate() error {
	if !r.Principal.IsPositive() {
		return &ValidationError{Field: "principal", Reason: "must be positive"}
	}
	if r.MonthlyInterestRate.IsNegative() {
		return &ValidationError{Field: "monthly_interest_rate", Reason: "must not be negative"}
	}
	if r.TenorMonths < MinTenorMonths || r.TenorMonths > MaxTenorMonths {
		return &ValidationError{
			Field:  "tenor_months",
			Reason: fmt.Sprintf("must be between %d and %d", MinTenorMonths, MaxTenorMonths),
		}
	}
	if err := r.Customer.validate(); err != nil {
		return err
	}
	return r.Item.validate()
}

func (c CustomerInput) validate() error {
	if l := len(c.Name); l < minNameLen || l > maxNameLen {
		return &ValidationError{
			Field:  "customer.name",
			Reason: fmt.Sprintf("length must be between %d and %d", minNameLen, maxNameLen),
		}
	}
	if l := len(c.Phone); l < minPhoneLen || l > maxPhoneLen {
		return &ValidationError{
			Field:  "customer.phone",
			Reason: fmt.Sprintf("length must be between %d and %d", minPhoneLen, maxPhoneLen),
		}
	}
	return nil
}

func (it ItemInput) validate() error {
	if !it.Category.Valid() {
		return &ValidationError{Field: "item.category", Reason: "unknown category"}
	}
	if l := len(it.Description); l < minDescriptionLen || l > maxDescriptionLen {
		return &ValidationError{
			Field:  "item.description",
			Reason: fmt.Sprintf("length must be between %d and %d", minDescriptionLen, maxDescriptionLen),
		}
	}
	if !it.EstimatedValue.IsPositive() {
		return &ValidationError{Field: "item.estimated_value", Reason: "must be positive"}
	}
	if it.WeightGrams != nil && !it.WeightGrams.IsPositive() {
		return &ValidationError{Field: "item.weight_gram", Reason: "must be positive"}
	}
	return nil
}
