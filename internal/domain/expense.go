package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayLayout is the calendar day key format used by the calendar view.
const DayLayout = "2006-01-02"

// Expense is a single categorized entry in the ledger.
type Expense struct {
	ID        int64           `json:"id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Memo      string          `json:"memo,omitempty"`
	CreatedAt time.Time       `json:"date"`
}

// Icon returns the display icon of the expense category.
func (e Expense) Icon() string {
	return IconFor(e.Category)
}

// Day returns the calendar day key of the expense in loc.
func (e Expense) Day(loc *time.Location) string {
	return e.CreatedAt.In(loc).Format(DayLayout)
}

// OnDay reports whether the expense was created on the same calendar day as day,
// evaluated in day's location.
func (e Expense) OnDay(day time.Time) bool {
	return SameDay(e.CreatedAt, day)
}

// TimeOfDay returns the HH:MM display time of the expense in loc.
func (e Expense) TimeOfDay(loc *time.Location) string {
	return e.CreatedAt.In(loc).Format("15:04")
}

// SameDay reports whether t falls on the calendar day of day, in day's location.
func SameDay(t, day time.Time) bool {
	y1, m1, d1 := t.In(day.Location()).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ParseDay parses a YYYY-MM-DD day key in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayLayout, s, loc)
}
