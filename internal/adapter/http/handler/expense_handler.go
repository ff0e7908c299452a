package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gospend/internal/adapter/http/dto"
	"github.com/iho/gospend/internal/domain"
	"github.com/iho/gospend/internal/usecase"
)

// LedgerSession defines the behavior needed by ExpenseHandler.
type LedgerSession interface {
	AddExpense(ctx context.Context, input usecase.AddExpenseInput) (*domain.Expense, error)
	EditExpense(ctx context.Context, id int64, amount string) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, id int64) (bool, error)
	ExpensesForDate(day time.Time) []domain.Expense
	DayTotal(day time.Time) decimal.Decimal
	MarkedDays() []string
	Records() []domain.Expense
	Summary() usecase.Summary
	Location() *time.Location
}

// ExpenseHandler handles the ledger screen requests.
type ExpenseHandler struct {
	session LedgerSession
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(session LedgerSession) *ExpenseHandler {
	return &ExpenseHandler{session: session}
}

// Create adds an expense. A submission without a category changes nothing
// and answers 204.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.AddExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.session.AddExpense(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to add expense")
		return
	}

	if expense == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(expense, h.session.Location()))
}

// Update replaces the amount of an expense.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense ID", err.Error())
		return
	}

	var req dto.EditExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.session.EditExpense(r.Context(), id, string(req.Amount))
	if err != nil {
		writeDomainError(w, err, "failed to edit expense")
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense, h.session.Location()))
}

// Delete removes an expense. Unknown ids are not an error.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense ID", err.Error())
		return
	}

	if _, err := h.session.DeleteExpense(r.Context(), id); err != nil {
		writeDomainError(w, err, "failed to delete expense")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List returns the expenses of ?date=YYYY-MM-DD, or every expense without it.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	var expenses []domain.Expense
	if date == "" {
		expenses = h.session.Records()
	} else {
		day, err := domain.ParseDay(date, h.session.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date", err.Error())
			return
		}
		expenses = h.session.ExpensesForDate(day)
	}

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}

	writeJSON(w, http.StatusOK, dto.ListExpensesResponse{
		Date:     date,
		Expenses: dto.ExpensesFromDomain(expenses, h.session.Location()),
		Total:    total,
		Display:  domain.FormatAmount(total),
	})
}

// Summary returns totals, balance and the negative balance warning.
func (h *ExpenseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.SummaryFromUseCase(h.session.Summary()))
}

// Calendar returns the marked days.
func (h *ExpenseHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	days := h.session.MarkedDays()
	if days == nil {
		days = []string{}
	}
	writeJSON(w, http.StatusOK, dto.CalendarResponse{MarkedDays: days})
}

// DayTotal returns the total of the {date} calendar day.
func (h *ExpenseHandler) DayTotal(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	day, err := domain.ParseDay(date, h.session.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	total := h.session.DayTotal(day)
	writeJSON(w, http.StatusOK, dto.DayTotalResponse{
		Date:    date,
		Total:   total,
		Display: domain.FormatAmount(total),
	})
}
