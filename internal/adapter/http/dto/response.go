package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gospend/internal/domain"
	"github.com/iho/gospend/internal/usecase"
)

// NegativeBalanceWarning is shown when expenses exceed income.
const NegativeBalanceWarning = "Your balance is negative. Consider reviewing your expenses."

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID        int64           `json:"id"`
	Category  string          `json:"category"`
	Icon      string          `json:"icon"`
	Amount    decimal.Decimal `json:"amount"`
	Display   string          `json:"display"`
	Memo      string          `json:"memo,omitempty"`
	CreatedAt time.Time       `json:"date"`
	Time      string          `json:"time"`
}

// ExpenseFromDomain converts a domain expense to a response, with the display
// time rendered in loc.
func ExpenseFromDomain(e *domain.Expense, loc *time.Location) *ExpenseResponse {
	return &ExpenseResponse{
		ID:        e.ID,
		Category:  e.Category,
		Icon:      e.Icon(),
		Amount:    e.Amount,
		Display:   domain.FormatAmount(e.Amount),
		Memo:      e.Memo,
		CreatedAt: e.CreatedAt,
		Time:      e.TimeOfDay(loc),
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []domain.Expense, loc *time.Location) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i := range expenses {
		result[i] = ExpenseFromDomain(&expenses[i], loc)
	}
	return result
}

// ListExpensesResponse is the expense list of a day, or of the whole ledger
// when Date is empty.
type ListExpensesResponse struct {
	Date     string             `json:"date,omitempty"`
	Expenses []*ExpenseResponse `json:"expenses"`
	Total    decimal.Decimal    `json:"total"`
	Display  string             `json:"display"`
}

// SummaryResponse is the ledger header.
type SummaryResponse struct {
	TotalExpense decimal.Decimal `json:"total_expense"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	Balance      decimal.Decimal `json:"balance"`
	Display      SummaryDisplay  `json:"display"`
	Negative     bool            `json:"negative"`
	Warning      string          `json:"warning,omitempty"`
	Count        int             `json:"count"`
}

// SummaryDisplay holds the formatted summary amounts.
type SummaryDisplay struct {
	TotalExpense string `json:"total_expense"`
	TotalIncome  string `json:"total_income"`
	Balance      string `json:"balance"`
}

// SummaryFromUseCase converts a summary to a response.
func SummaryFromUseCase(s usecase.Summary) *SummaryResponse {
	resp := &SummaryResponse{
		TotalExpense: s.TotalExpense,
		TotalIncome:  s.TotalIncome,
		Balance:      s.Balance,
		Display: SummaryDisplay{
			TotalExpense: domain.FormatAmount(s.TotalExpense),
			TotalIncome:  domain.FormatAmount(s.TotalIncome),
			Balance:      domain.FormatAmount(s.Balance),
		},
		Negative: s.Negative,
		Count:    s.Count,
	}
	if s.Negative {
		resp.Warning = NegativeBalanceWarning
	}
	return resp
}

// CalendarResponse lists the days holding at least one expense.
type CalendarResponse struct {
	MarkedDays []string `json:"marked_days"`
}

// DayTotalResponse is the total of one calendar day.
type DayTotalResponse struct {
	Date    string          `json:"date"`
	Total   decimal.Decimal `json:"total"`
	Display string          `json:"display"`
}

// CategoryResponse represents a registry entry.
type CategoryResponse struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// CategoriesFromDomain converts registry entries to responses.
func CategoriesFromDomain(categories []domain.Category) []CategoryResponse {
	result := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryResponse{Name: c.Name, Icon: c.Icon}
	}
	return result
}

// ListCategoriesResponse is the ordered category registry.
type ListCategoriesResponse struct {
	Categories  []CategoryResponse `json:"categories"`
	DefaultIcon string             `json:"default_icon"`
}

// IconResponse is the resolved icon of a category name.
type IconResponse struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Known bool   `json:"known"`
}

// ProfileResponse is the stored account without its password.
type ProfileResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProfileFromDomain converts a credential to a response.
func ProfileFromDomain(c *domain.Credential) *ProfileResponse {
	return &ProfileResponse{Name: c.Name, Email: c.Email}
}

// AccountStatusResponse tells the landing screen whether an account exists.
type AccountStatusResponse struct {
	HasAccount bool             `json:"has_account"`
	Profile    *ProfileResponse `json:"profile,omitempty"`
}

// StartResponse is the accepted landing screen name.
type StartResponse struct {
	Name string `json:"name"`
}

// MessageResponse carries a user-facing message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
