package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gospend/internal/domain"
)

// ErrSessionClosed is returned by operations on a closed ledger session.
var ErrSessionClosed = errors.New("ledger session is closed")

// DefaultCloseTimeout bounds how long Close waits for the final save.
const DefaultCloseTimeout = 10 * time.Second

// LedgerConfig holds dependencies for LedgerUseCase.
type LedgerConfig struct {
	Store         KeyValueStore
	Saver         Saver
	IDGen         IDGenerator
	Metrics       MetricsRecorder
	Logger        zerolog.Logger
	Now           func() time.Time
	Location      *time.Location
	RestoreOnOpen bool
}

// LedgerUseCase opens ledger sessions.
type LedgerUseCase struct {
	store         KeyValueStore
	saver         Saver
	idGen         IDGenerator
	metrics       MetricsRecorder
	logger        zerolog.Logger
	now           func() time.Time
	loc           *time.Location
	restoreOnOpen bool
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(cfg LedgerConfig) *LedgerUseCase {
	if cfg.Metrics == nil {
		cfg.Metrics = noopMetrics{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &LedgerUseCase{
		store:         cfg.Store,
		saver:         cfg.Saver,
		idGen:         cfg.IDGen,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		now:           cfg.Now,
		loc:           cfg.Location,
		restoreOnOpen: cfg.RestoreOnOpen,
	}
}

// Open starts a new ledger session. With restore enabled the last saved
// snapshot is read back; a corrupt snapshot is logged and ignored.
func (uc *LedgerUseCase) Open(ctx context.Context) (*Session, error) {
	ledger := domain.NewLedger()

	if uc.restoreOnOpen {
		restored, err := uc.restore(ctx)
		if err != nil {
			return nil, err
		}
		ledger = restored
	}

	s := &Session{
		id:     uc.idGen.Generate(),
		uc:     uc,
		ledger: ledger,
	}
	s.logger = uc.logger.With().Str("session_id", s.id).Logger()

	uc.metrics.ObserveTotals(ledger.TotalExpense(), ledger.TotalIncome())
	s.logger.Info().
		Int("records", ledger.Len()).
		Str("total_expense", ledger.TotalExpense().String()).
		Msg("ledger session opened")

	return s, nil
}

func (uc *LedgerUseCase) restore(ctx context.Context) (*domain.Ledger, error) {
	var records []domain.Expense
	income := decimal.Zero

	data, err := uc.store.Get(ctx, domain.KeyExpenses)
	switch {
	case errors.Is(err, domain.ErrKeyNotFound):
	case err != nil:
		return nil, fmt.Errorf("reading saved expenses: %w", err)
	default:
		records, err = domain.DecodeExpenses(data)
		if err != nil {
			uc.logger.Warn().Err(err).Msg("ignoring saved expenses")
			records = nil
		}
	}

	data, err = uc.store.Get(ctx, domain.KeyTotalIncome)
	switch {
	case errors.Is(err, domain.ErrKeyNotFound):
	case err != nil:
		return nil, fmt.Errorf("reading saved income: %w", err)
	default:
		income, err = domain.DecodeIncome(data)
		if err != nil {
			uc.logger.Warn().Err(err).Msg("ignoring saved income")
			income = decimal.Zero
		}
	}

	return domain.RestoreLedger(records, income), nil
}

// AddExpenseInput is the parameter bundle submitted by the add-expense form.
type AddExpenseInput struct {
	Category string
	Amount   string
	Memo     string
	Income   string
}

// Summary is the header of the ledger screen.
type Summary struct {
	TotalExpense decimal.Decimal
	TotalIncome  decimal.Decimal
	Balance      decimal.Decimal
	// Negative tells the caller to warn the user about an overspent balance.
	Negative bool
	Count    int
}

// Session is one live ledger, created on screen entry and discarded on Close.
// It is safe for concurrent use.
type Session struct {
	id     string
	uc     *LedgerUseCase
	logger zerolog.Logger

	mu      sync.Mutex
	ledger  *domain.Ledger
	pending []<-chan error
	closed  bool
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// AddExpense records a submitted expense. A submission without a category is
// ignored and returns a nil expense and nil error.
func (s *Session) AddExpense(ctx context.Context, input AddExpenseInput) (*domain.Expense, error) {
	if strings.TrimSpace(input.Category) == "" {
		s.logger.Debug().Msg("ignoring expense without category")
		return nil, nil
	}

	amount, err := domain.ParseAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	income, err := domain.ParseOptionalAmount(input.Income)
	if err != nil {
		return nil, fmt.Errorf("income: %w", err)
	}

	if err := domain.ValidateMemo(input.Memo); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	e, ok := s.ledger.Add(input.Category, amount, input.Memo, income, s.uc.now().In(s.uc.loc))
	if !ok {
		return nil, nil
	}

	s.uc.metrics.ExpenseAdded(e.Category, e.Amount)
	s.persistLocked(ctx)

	s.logger.Info().
		Int64("expense_id", e.ID).
		Str("category", e.Category).
		Str("amount", e.Amount.String()).
		Bool("with_income", income != nil).
		Msg("expense added")

	return &e, nil
}

// EditExpense replaces the amount of an expense.
func (s *Session) EditExpense(ctx context.Context, id int64, amount string) (*domain.Expense, error) {
	newAmount, err := domain.ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	old, err := s.ledger.Edit(id, newAmount)
	if err != nil {
		return nil, err
	}

	s.uc.metrics.ExpenseEdited()
	s.persistLocked(ctx)

	s.logger.Info().
		Int64("expense_id", id).
		Str("old_amount", old.String()).
		Str("new_amount", newAmount.String()).
		Msg("expense edited")

	e, _ := s.ledger.Get(id)
	return &e, nil
}

// DeleteExpense removes an expense. It reports whether a record was removed;
// deleting an unknown id changes nothing.
func (s *Session) DeleteExpense(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrSessionClosed
	}

	e, ok := s.ledger.Delete(id)
	if !ok {
		s.logger.Debug().Int64("expense_id", id).Msg("delete of unknown expense ignored")
		return false, nil
	}

	s.uc.metrics.ExpenseDeleted()
	s.persistLocked(ctx)

	s.logger.Info().
		Int64("expense_id", id).
		Str("amount", e.Amount.String()).
		Msg("expense deleted")

	return true, nil
}

// ExpensesForDate returns the expenses created on the calendar day of day.
func (s *Session) ExpensesForDate(day time.Time) []domain.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Collect(s.ledger.ExpensesForDate(day))
}

// DayTotal returns the expense total of the calendar day of day.
func (s *Session) DayTotal(day time.Time) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.DayTotal(day)
}

// MarkedDays returns the calendar days holding at least one expense.
func (s *Session) MarkedDays() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.MarkedDays(s.uc.loc)
}

// Records returns every expense in insertion order.
func (s *Session) Records() []domain.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Records()
}

// Summary returns the running totals and balance.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance := s.ledger.Balance()

	return Summary{
		TotalExpense: s.ledger.TotalExpense(),
		TotalIncome:  s.ledger.TotalIncome(),
		Balance:      balance,
		Negative:     balance.IsNegative(),
		Count:        s.ledger.Len(),
	}
}

// Location returns the time zone used for calendar days.
func (s *Session) Location() *time.Location {
	return s.uc.loc
}

// Sync waits for the most recently scheduled save and returns its failure.
// The saver applies writes in order, so earlier saves are settled as well;
// their failures were already reported by the saver.
func (s *Session) Sync(ctx context.Context) error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	var errs []error
	for _, ch := range pending {
		select {
		case err := <-ch:
			if err != nil {
				errs = append(errs, err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return errors.Join(errs...)
}

// Close saves the final snapshot, waits for it and discards the session.
// Closing twice is a no-op.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.persistLocked(ctx)
	s.closed = true
	s.mu.Unlock()

	err := s.Sync(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("final ledger save failed")
	} else {
		s.logger.Info().Msg("ledger session closed")
	}

	return err
}

// persistLocked hands the current snapshot to the saver without waiting.
// Must be called with s.mu held so snapshots are enqueued in mutation order.
// Only the latest save is tracked.
func (s *Session) persistLocked(ctx context.Context) {
	snap := s.ledger.Snapshot()
	s.uc.metrics.ObserveTotals(s.ledger.TotalExpense(), snap.TotalIncome)

	expenses, err := domain.EncodeExpenses(snap.Expenses)
	if err != nil {
		s.pending = []<-chan error{failed(fmt.Errorf("%w: encoding expenses: %w", domain.ErrPersistence, err))}
		return
	}

	income, err := domain.EncodeIncome(snap.TotalIncome)
	if err != nil {
		s.pending = []<-chan error{failed(fmt.Errorf("%w: encoding income: %w", domain.ErrPersistence, err))}
		return
	}

	s.pending = []<-chan error{
		s.uc.saver.Save(ctx, domain.KeyExpenses, expenses),
		s.uc.saver.Save(ctx, domain.KeyTotalIncome, income),
	}
}

func failed(err error) <-chan error {
	ch := make(chan error, 1)
	ch <- err
	close(ch)
	return ch
}
