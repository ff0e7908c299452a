package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics holds the ledger and persistence Prometheus metrics.
type Metrics struct {
	// Expense metrics
	ExpensesAdded   *prometheus.CounterVec
	ExpensesEdited  prometheus.Counter
	ExpensesDeleted prometheus.Counter
	ExpenseAmount   prometheus.Histogram

	// Ledger totals
	TotalExpense prometheus.Gauge
	TotalIncome  prometheus.Gauge
	Balance      prometheus.Gauge

	// Persistence metrics
	Saves          *prometheus.CounterVec
	SaveAttempts   prometheus.Histogram
	SaveQueueDepth prometheus.Gauge
}

// New creates the metrics and registers them with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates the metrics and registers them with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Expense metrics
		ExpensesAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gospend_expenses_added_total",
				Help: "Total number of expenses added by category",
			},
			[]string{"category"},
		),
		ExpensesEdited: factory.NewCounter(prometheus.CounterOpts{
			Name: "gospend_expenses_edited_total",
			Help: "Total number of expense amount edits",
		}),
		ExpensesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "gospend_expenses_deleted_total",
			Help: "Total number of expenses deleted",
		}),
		ExpenseAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gospend_expense_amount",
			Help:    "Expense amounts",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		}),

		// Ledger totals
		TotalExpense: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gospend_total_expense",
			Help: "Current expense total",
		}),
		TotalIncome: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gospend_total_income",
			Help: "Current income total",
		}),
		Balance: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gospend_balance",
			Help: "Current balance (income minus expense)",
		}),

		// Persistence metrics
		Saves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gospend_saves_total",
				Help: "Total background saves by key and status",
			},
			[]string{"key", "status"},
		),
		SaveAttempts: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gospend_save_attempts",
			Help:    "Store writes needed per save",
			Buckets: []float64{1, 2, 3, 5, 10},
		}),
		SaveQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gospend_save_queue_depth",
			Help: "Saves waiting to be written",
		}),
	}
}

// ExpenseAdded records a new expense.
func (m *Metrics) ExpenseAdded(category string, amount decimal.Decimal) {
	m.ExpensesAdded.WithLabelValues(category).Inc()
	m.ExpenseAmount.Observe(amount.InexactFloat64())
}

// ExpenseEdited records an amount edit.
func (m *Metrics) ExpenseEdited() {
	m.ExpensesEdited.Inc()
}

// ExpenseDeleted records a deletion.
func (m *Metrics) ExpenseDeleted() {
	m.ExpensesDeleted.Inc()
}

// ObserveTotals publishes the running totals.
func (m *Metrics) ObserveTotals(totalExpense, totalIncome decimal.Decimal) {
	m.TotalExpense.Set(totalExpense.InexactFloat64())
	m.TotalIncome.Set(totalIncome.InexactFloat64())
	m.Balance.Set(totalIncome.Sub(totalExpense).InexactFloat64())
}

// SaveCompleted records the outcome of a background save.
func (m *Metrics) SaveCompleted(key string, attempts int, err error) {
	status := "ok"
	switch {
	case err != nil && attempts == 0:
		status = "rejected"
	case err != nil:
		status = "failed"
	}

	m.Saves.WithLabelValues(key, status).Inc()
	if attempts > 0 {
		m.SaveAttempts.Observe(float64(attempts))
	}
}

// QueueDepth publishes the number of pending saves.
func (m *Metrics) QueueDepth(n int) {
	m.SaveQueueDepth.Set(float64(n))
}
