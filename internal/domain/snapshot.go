package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Storage keys of the persisted state.
const (
	KeyExpenses    = "expenses"
	KeyTotalIncome = "totalIncome"
	KeyUserData    = "userData"
)

// Snapshot is the persistable state of a ledger.
type Snapshot struct {
	Expenses    []Expense
	TotalIncome decimal.Decimal
}

// EncodeExpenses serializes records as a JSON array.
func EncodeExpenses(records []Expense) ([]byte, error) {
	if records == nil {
		records = []Expense{}
	}
	return json.Marshal(records)
}

// DecodeExpenses parses a JSON array of records.
func DecodeExpenses(data []byte) ([]Expense, error) {
	var records []Expense
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptState, err)
	}
	return records, nil
}

// EncodeIncome serializes the income total as a JSON string.
func EncodeIncome(d decimal.Decimal) ([]byte, error) {
	return json.Marshal(d)
}

// DecodeIncome parses a JSON income total.
func DecodeIncome(data []byte) (decimal.Decimal, error) {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrCorruptState, err)
	}
	return d, nil
}

// EncodeCredential serializes the credential blob.
func EncodeCredential(c Credential) ([]byte, error) {
	return json.Marshal(c)
}

// DecodeCredential parses the credential blob.
func DecodeCredential(data []byte) (Credential, error) {
	var c Credential
	if err := json.Unmarshal(data, &c); err != nil {
		return Credential{}, fmt.Errorf("%w: %w", ErrCorruptState, err)
	}
	return c, nil
}
