package domain

import (
	"iter"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger holds the expense records of one user together with the running
// expense and income totals.
//
// Totals are maintained incrementally on every mutation instead of being
// recomputed from the records. A Ledger is not safe for concurrent use.
type Ledger struct {
	records      []Expense
	nextID       int64
	totalExpense decimal.Decimal
	totalIncome  decimal.Decimal
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		nextID:       1,
		totalExpense: decimal.Zero,
		totalIncome:  decimal.Zero,
	}
}

// RestoreLedger rebuilds a ledger from persisted records and income total.
// The expense total is recomputed once from the records.
func RestoreLedger(records []Expense, totalIncome decimal.Decimal) *Ledger {
	l := NewLedger()
	l.totalIncome = totalIncome

	for _, r := range records {
		l.records = append(l.records, r)
		l.totalExpense = l.totalExpense.Add(r.Amount)
		if r.ID >= l.nextID {
			l.nextID = r.ID + 1
		}
	}

	return l
}

// Add appends a new expense created at the given time and returns it.
// An empty category makes Add a no-op that returns false. A non-nil income is
// added to the income total.
func (l *Ledger) Add(category string, amount decimal.Decimal, memo string, income *decimal.Decimal, at time.Time) (Expense, bool) {
	category = strings.TrimSpace(category)
	if category == "" {
		return Expense{}, false
	}

	e := Expense{
		ID:        l.nextID,
		Category:  category,
		Amount:    amount,
		Memo:      memo,
		CreatedAt: at,
	}
	l.nextID++

	l.records = append(l.records, e)
	l.totalExpense = l.totalExpense.Add(amount)

	if income != nil {
		l.totalIncome = l.totalIncome.Add(*income)
	}

	return e, true
}

// Edit replaces the amount of the expense with the given id and returns the
// previous amount.
func (l *Ledger) Edit(id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	i := l.indexOf(id)
	if i < 0 {
		return decimal.Zero, ErrExpenseNotFound
	}

	old := l.records[i].Amount
	l.records[i].Amount = amount
	l.totalExpense = l.totalExpense.Add(amount.Sub(old))

	return old, nil
}

// Delete removes the expense with the given id. Deleting an unknown id is a
// no-op that returns false.
func (l *Ledger) Delete(id int64) (Expense, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return Expense{}, false
	}

	e := l.records[i]
	l.records = append(l.records[:i], l.records[i+1:]...)
	l.totalExpense = l.totalExpense.Sub(e.Amount)

	return e, true
}

// Get returns the expense with the given id.
func (l *Ledger) Get(id int64) (Expense, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return Expense{}, false
	}
	return l.records[i], true
}

// ExpensesForDate returns a view over the expenses created on the calendar day
// of day. The sequence is evaluated lazily on every range over it.
func (l *Ledger) ExpensesForDate(day time.Time) iter.Seq[Expense] {
	return func(yield func(Expense) bool) {
		for _, e := range l.records {
			if !e.OnDay(day) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// DayTotal sums the amounts of the expenses created on the calendar day of day.
func (l *Ledger) DayTotal(day time.Time) decimal.Decimal {
	total := decimal.Zero
	for e := range l.ExpensesForDate(day) {
		total = total.Add(e.Amount)
	}
	return total
}

// MarkedDays returns the sorted calendar days, in loc, that hold at least one expense.
func (l *Ledger) MarkedDays(loc *time.Location) []string {
	seen := make(map[string]struct{}, len(l.records))
	days := make([]string, 0, len(l.records))

	for _, e := range l.records {
		d := e.Day(loc)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}

	sort.Strings(days)
	return days
}

// TotalExpense returns the running expense total.
func (l *Ledger) TotalExpense() decimal.Decimal {
	return l.totalExpense
}

// TotalIncome returns the running income total.
func (l *Ledger) TotalIncome() decimal.Decimal {
	return l.totalIncome
}

// Balance returns income minus expense.
func (l *Ledger) Balance() decimal.Decimal {
	return l.totalIncome.Sub(l.totalExpense)
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Records returns a copy of the records in insertion order.
func (l *Ledger) Records() []Expense {
	out := make([]Expense, len(l.records))
	copy(out, l.records)
	return out
}

// Snapshot captures the persistable state of the ledger.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{
		Expenses:    l.Records(),
		TotalIncome: l.totalIncome,
	}
}

func (l *Ledger) indexOf(id int64) int {
	for i := range l.records {
		if l.records[i].ID == id {
			return i
		}
	}
	return -1
}
