package dto

import (
	"encoding/json"
	"testing"

	"github.com/iho/gospend/internal/usecase"
)

func TestAmountInput_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    AmountInput
		wantErr bool
	}{
		{name: "string", body: `{"amount":"150.25"}`, want: "150.25"},
		{name: "comma string", body: `{"amount":"150,25"}`, want: "150,25"},
		{name: "number", body: `{"amount":150.25}`, want: "150.25"},
		{name: "integer", body: `{"amount":42}`, want: "42"},
		{name: "null", body: `{"amount":null}`, want: ""},
		{name: "missing", body: `{}`, want: ""},
		{name: "empty string", body: `{"amount":""}`, want: ""},
		{name: "object", body: `{"amount":{}}`, wantErr: true},
		{name: "bool", body: `{"amount":true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req EditExpenseRequest
			err := json.Unmarshal([]byte(tt.body), &req)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got amount %q", req.Amount)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Amount != tt.want {
				t.Fatalf("amount = %q, want %q", req.Amount, tt.want)
			}
		})
	}
}

func TestAddExpenseRequest_ToUseCaseInput(t *testing.T) {
	var req AddExpenseRequest
	body := `{"category":"Groceries","icon":"cart","amount":250,"memo":"weekly","income":"1000","is_expense":true}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := req.ToUseCaseInput()
	want := usecase.AddExpenseInput{
		Category: "Groceries",
		Amount:   "250",
		Memo:     "weekly",
		Income:   "1000",
	}

	if got != want {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}

func TestSignUpRequest_ToUseCaseInput(t *testing.T) {
	req := &SignUpRequest{Name: "Ana", Email: "ana@example.com", Password: "pw"}

	got := req.ToUseCaseInput()
	want := usecase.SignUpInput{Name: "Ana", Email: "ana@example.com", Password: "pw"}

	if got != want {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}
