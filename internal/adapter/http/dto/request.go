package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/iho/gospend/internal/usecase"
)

// AmountInput accepts an amount as either a JSON string or a JSON number and
// keeps the raw text so the ledger applies its own parsing rules.
type AmountInput string

// UnmarshalJSON implements json.Unmarshaler.
func (a *AmountInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountInput(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or number: %w", err)
	}
	*a = AmountInput(n.String())
	return nil
}

// AddExpenseRequest is the add-expense form submission. Icon and IsExpense
// are accepted for compatibility; the icon is always derived from the
// category registry.
type AddExpenseRequest struct {
	Category  string      `json:"category"`
	Icon      string      `json:"icon,omitempty"`
	Amount    AmountInput `json:"amount"`
	Memo      string      `json:"memo,omitempty"`
	Income    AmountInput `json:"income,omitempty"`
	IsExpense *bool       `json:"is_expense,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddExpenseRequest) ToUseCaseInput() usecase.AddExpenseInput {
	return usecase.AddExpenseInput{
		Category: r.Category,
		Amount:   string(r.Amount),
		Memo:     r.Memo,
		Income:   string(r.Income),
	}
}

// EditExpenseRequest replaces the amount of an expense.
type EditExpenseRequest struct {
	Amount AmountInput `json:"amount"`
}

// SignUpRequest creates the local account.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *SignUpRequest) ToUseCaseInput() usecase.SignUpInput {
	return usecase.SignUpInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	}
}

// LoginRequest checks the local account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StartRequest is the landing screen submission.
type StartRequest struct {
	Name string `json:"name"`
}

// RecoverRequest asks for password recovery.
type RecoverRequest struct {
	Email string `json:"email"`
}
