package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestEncodeExpensesLayout(t *testing.T) {
	at := time.Date(2024, time.March, 14, 9, 30, 0, 0, time.UTC)
	data, err := EncodeExpenses([]Expense{{ID: 1, Category: "Groceries", Amount: decimal.RequireFromString("150.5"), CreatedAt: at}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `[{"id":1,"category":"Groceries","amount":"150.5","date":"2024-03-14T09:30:00Z"}]`
	if string(data) != want {
		t.Fatalf("unexpected layout:\n got %s\nwant %s", data, want)
	}

	empty, _ := EncodeExpenses(nil)
	if string(empty) != "[]" {
		t.Fatalf("expected empty array, got %s", empty)
	}
}

func TestDecodeCorruptState(t *testing.T) {
	if _, err := DecodeExpenses([]byte("{oops")); !errors.Is(err, ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
	if _, err := DecodeIncome([]byte("[]")); !errors.Is(err, ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
	if _, err := DecodeCredential([]byte("1")); !errors.Is(err, ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
}
