package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/storage"
)

// maxIDAttempts bounds the retry loop when the id generator collides.
const maxIDAttempts = 16

// ErrIDExhausted is returned when the id generator keeps producing ids that
// are already taken.
var ErrIDExhausted = errors.New("could not generate a unique transaction id")

// Recorder receives tracker events. metrics.Metrics implements it.
type Recorder interface {
	TransactionAdded(kind string)
	TransactionRemoved()
	CategoryAdded()
	CategoryDeleted(reassigned int)
	StorageFailure(op string)
	ValidationFailure(field string)
	LedgerSize(n int)
}

type nopRecorder struct{}

func (nopRecorder) TransactionAdded(string)  {}
func (nopRecorder) TransactionRemoved()      {}
func (nopRecorder) CategoryAdded()           {}
func (nopRecorder) CategoryDeleted(int)      {}
func (nopRecorder) StorageFailure(string)    {}
func (nopRecorder) ValidationFailure(string) {}
func (nopRecorder) LedgerSize(int)           {}

// Tracker owns one session's ledger and category registry and writes them
// to the store after every change. Writes are clone, mutate, persist, then
// commit: when persisting fails the in-memory state is left as it was.
type Tracker struct {
	mu       sync.RWMutex
	kv       storage.KV
	ledger   *core.Ledger
	registry *core.Registry
	revision uint64

	newID   func() string
	seed    []string
	metrics Recorder
	logger  *log.Logger
	events  *log.StructuredLogger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(t *Tracker) { t.newID = gen }
}

// WithMetrics attaches a Recorder.
func WithMetrics(r Recorder) Option {
	return func(t *Tracker) {
		if r != nil {
			t.metrics = r
		}
	}
}

// WithLogger sets the logger used for tracker events.
func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l.WithComponent(log.ComponentTracker)
		}
	}
}

// WithSeedCategories sets the registry used when none is stored.
func WithSeedCategories(names []string) Option {
	return func(t *Tracker) { t.seed = names }
}

// NewTracker returns a tracker with an empty ledger and the seed registry.
// Call Load to read persisted state.
func NewTracker(kv storage.KV, opts ...Option) *Tracker {
	t := &Tracker{
		kv:      kv,
		newID:   uuid.NewString,
		metrics: nopRecorder{},
		logger: log.New(log.Config{
			Component: log.ComponentTracker,
			Handler:   slog.Default().Handler(),
		}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.events = log.NewStructuredLogger(t.logger)
	t.ledger = core.NewLedger(nil)
	t.registry = t.seedRegistry()
	return t
}

func (t *Tracker) seedRegistry() *core.Registry {
	if len(t.seed) == 0 {
		return core.DefaultRegistry()
	}
	return core.NewRegistry(t.seed)
}

// Load replaces the in-memory state with what the store holds. Missing or
// unreadable collections start empty (transactions) or from the seed
// (categories). The returned error describes what could not be read; the
// tracker is usable either way.
func (t *Tracker) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error

	txs, err := storage.Load[core.Transaction](ctx, t.kv, storage.KeyTransactions)
	if err != nil {
		t.loadFailed(ctx, storage.KeyTransactions, err)
		errs = append(errs, err)
	}
	names, err := storage.Load[string](ctx, t.kv, storage.KeyCategories)
	if err != nil {
		t.loadFailed(ctx, storage.KeyCategories, err)
		errs = append(errs, err)
	}

	ledger := core.NewLedger(nil)
	for _, tx := range txs {
		if tx.ID == "" || ledger.Contains(tx.ID) {
			id, err := t.uniqueID(ledger)
			if err != nil {
				return err
			}
			t.logger.WarnContext(ctx, "Stored transaction had a missing or duplicate id, assigned a new one",
				log.FieldTransactionID, string(tx.ID), "new_id", string(id))
			tx.ID = id
		}
		if err := tx.Date.Validate(); err != nil {
			t.logger.WarnContext(ctx, "Stored transaction has no date, keeping it",
				log.FieldTransactionID, string(tx.ID),
				log.FieldError, err)
		}
		_ = ledger.Append(tx)
	}

	registry := t.seedRegistry()
	if len(names) > 0 {
		registry = core.NewRegistry(names)
	}

	t.ledger = ledger
	t.registry = registry
	t.revision++
	t.metrics.LedgerSize(ledger.Len())

	t.logger.InfoContext(ctx, "Tracker state loaded",
		log.FieldCount, ledger.Len(),
		"categories", registry.Len())

	return errors.Join(errs...)
}

func (t *Tracker) loadFailed(ctx context.Context, key string, err error) {
	t.metrics.StorageFailure(log.OpLoad)
	t.logger.WarnContext(ctx, "Could not read stored data, starting empty",
		log.FieldKey, key,
		log.FieldError, err,
		log.FieldErrorType, log.ErrorTypeStorage)
}

// AddTransaction validates in, assigns an id and appends the result to the
// ledger. The category must exist in the registry.
func (t *Tracker) AddTransaction(ctx context.Context, in core.NewTransaction) (core.Transaction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tx, err := in.Parse()
	if err != nil {
		t.metrics.ValidationFailure(core.ValidationField(err))
		return core.Transaction{}, err
	}
	if !t.registry.Contains(tx.Category) {
		t.metrics.ValidationFailure(core.FieldCategory)
		return core.Transaction{}, core.Invalid(core.FieldCategory, core.ErrUnknownCategory)
	}

	id, err := t.uniqueID(t.ledger)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.ID = id

	next := t.ledger.Clone()
	if err := next.Append(tx); err != nil {
		return core.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}
	if err := t.persist(ctx, storage.Batch{storage.KeyTransactions: next.Transactions()}); err != nil {
		return core.Transaction{}, err
	}

	t.ledger = next
	t.commit()
	t.metrics.TransactionAdded(kind(tx))
	t.events.LogTransactionCreated(ctx, string(tx.ID), tx.Description, tx.Amount.String(), tx.Category, tx.Date.String())
	return tx, nil
}

// RemoveTransaction deletes the transaction with id. An unknown id is a
// no-op: it returns false and writes nothing.
func (t *Tracker) RemoveTransaction(ctx context.Context, id core.TransactionID) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ledger.Contains(id) {
		return false, nil
	}
	next := t.ledger.Clone()
	next.Remove(id)
	if err := t.persist(ctx, storage.Batch{storage.KeyTransactions: next.Transactions()}); err != nil {
		return false, err
	}

	t.ledger = next
	t.commit()
	t.metrics.TransactionRemoved()
	t.logger.InfoContext(ctx, "Transaction removed",
		log.FieldTransactionID, string(id),
		log.FieldOperation, log.OpDelete)
	return true, nil
}

// AddCategory appends a new category and returns the stored (trimmed) name.
func (t *Tracker) AddCategory(ctx context.Context, name string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.registry.Clone()
	added, err := next.Add(name)
	if err != nil {
		t.metrics.ValidationFailure(core.FieldCategory)
		return "", err
	}
	if err := t.persist(ctx, storage.Batch{storage.KeyCategories: next.Names()}); err != nil {
		return "", err
	}

	t.registry = next
	t.commit()
	t.metrics.CategoryAdded()
	t.events.LogCategoryChanged(ctx, log.OpCreate, added, 0)
	return added, nil
}

// DeleteCategory removes name from the registry and moves every transaction
// tagged with it to the fallback category. Both collections are written in
// one batch. It reports whether the category existed and how many
// transactions were reassigned. Deleting an absent category is a no-op.
func (t *Tracker) DeleteCategory(ctx context.Context, name string) (bool, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	name = strings.TrimSpace(name)
	nextReg := t.registry.Clone()
	removed, err := nextReg.Delete(name)
	if err != nil {
		t.metrics.ValidationFailure(core.FieldCategory)
		return false, 0, err
	}
	if !removed {
		return false, 0, nil
	}

	nextLedger := t.ledger.Clone()
	n := nextLedger.Reassign(name, core.FallbackCategory)

	if err := t.persist(ctx, storage.Batch{
		storage.KeyCategories:   nextReg.Names(),
		storage.KeyTransactions: nextLedger.Transactions(),
	}); err != nil {
		return false, 0, err
	}

	t.registry = nextReg
	t.ledger = nextLedger
	t.commit()
	t.metrics.CategoryDeleted(n)
	t.events.LogCategoryChanged(ctx, log.OpDelete, name, n)
	return true, n, nil
}

func (t *Tracker) persist(ctx context.Context, b storage.Batch) error {
	err := storage.SaveAll(ctx, t.kv, b)
	if err != nil {
		t.metrics.StorageFailure(log.OpSave)
		t.events.LogError(ctx, "Failed to save tracker state", err, log.ComponentStorage, log.OpSave,
			log.NewFields().WithErrorType(log.ErrorTypeStorage))
	}
	return err
}

func (t *Tracker) commit() {
	t.revision++
	t.metrics.LedgerSize(t.ledger.Len())
}

func (t *Tracker) uniqueID(l *core.Ledger) (core.TransactionID, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := core.TransactionID(t.newID())
		if id != "" && !l.Contains(id) {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

func kind(tx core.Transaction) string {
	switch {
	case tx.IsIncome():
		return "income"
	case tx.IsExpense():
		return "expense"
	default:
		return "zero"
	}
}

// Transactions returns the ledger oldest first.
func (t *Tracker) Transactions() []core.Transaction {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ledger.Transactions()
}

// Newest returns the ledger most recent first.
func (t *Tracker) Newest() []core.Transaction {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ledger.Newest()
}

// Categories returns the registry in insertion order.
func (t *Tracker) Categories() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.registry.Names()
}

func (t *Tracker) Totals() core.Totals {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ledger.Totals()
}

func (t *Tracker) ExpenseBreakdown() core.Breakdown {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return core.ExpenseByCategory(t.ledger.Transactions())
}

func (t *Tracker) Report() core.Report {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return core.BuildReport(t.ledger.Transactions())
}

// Revision increases with every committed change.
func (t *Tracker) Revision() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.revision
}

// Snapshot is a consistent view of the tracker for rendering.
type Snapshot struct {
	Revision     uint64
	Transactions []core.Transaction // newest first
	Categories   []string
	Report       core.Report
}

// Snapshot returns everything the UI needs, read under one lock.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Snapshot{
		Revision:     t.revision,
		Transactions: t.ledger.Newest(),
		Categories:   t.registry.Names(),
		Report:       core.BuildReport(t.ledger.Transactions()),
	}
}

// Ping reports whether the underlying store is reachable, when it can tell.
func (t *Tracker) Ping(ctx context.Context) error {
	if p, ok := t.kv.(storage.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases the store.
func (t *Tracker) Close() error {
	if t.kv == nil {
		return nil
	}
	if err := t.kv.Close(); err != nil {
		return fmt.Errorf("close tracker store: %w", err)
	}
	return nil
}
