// Package book is the write path of the tracker. It checks references
// between records before storing them and announces committed changes.
package book

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/customerr"
	"max.ks1230/expense-tracker/internal/model/storage"
)

// ChangeHook is notified after a write is committed. Hooks must not block
// for long; failures are theirs to log.
type ChangeHook interface {
	LedgerChanged(ctx context.Context, change ledger.Change)
}

type HookFunc func(ctx context.Context, change ledger.Change)

func (f HookFunc) LedgerChanged(ctx context.Context, change ledger.Change) {
	f(ctx, change)
}

type Book struct {
	storage *storage.SQLStorage
	hooks   []ChangeHook

	Accounts          *Collection[ledger.Account]
	Categories        *Collection[ledger.Category]
	Budgets           *Collection[ledger.Budget]
	Transactions      *Collection[ledger.Transaction]
	RecurringExpenses *Collection[ledger.RecurringExpense]
}

func New(s *storage.SQLStorage, hooks ...ChangeHook) *Book {
	b := &Book{storage: s, hooks: hooks}

	b.Accounts = &Collection[ledger.Account]{
		book:   b,
		entity: ledger.EntityAccount,
		repo:   storage.Scope.Accounts,
		id:     func(a *ledger.Account) int64 { return a.ID },
	}
	b.Categories = &Collection[ledger.Category]{
		book:   b,
		entity: ledger.EntityCategory,
		repo:   storage.Scope.Categories,
		id:     func(c *ledger.Category) int64 { return c.ID },
	}
	b.Budgets = &Collection[ledger.Budget]{
		book:   b,
		entity: ledger.EntityBudget,
		repo:   storage.Scope.Budgets,
		id:     func(bg *ledger.Budget) int64 { return bg.ID },
		refs: func(bg *ledger.Budget) []ref {
			return []ref{{"category_id", bg.CategoryID, categoryExists}}
		},
		describe: func(bg *ledger.Budget, c *ledger.Change) {
			c.CategoryID = bg.CategoryID
		},
	}
	b.Transactions = &Collection[ledger.Transaction]{
		book:   b,
		entity: ledger.EntityTransaction,
		repo:   storage.Scope.Transactions,
		id:     func(t *ledger.Transaction) int64 { return t.ID },
		refs: func(t *ledger.Transaction) []ref {
			return []ref{
				{"account_id", t.AccountID, accountExists},
				{"category_id", t.CategoryID, categoryExists},
			}
		},
		describe: func(t *ledger.Transaction, c *ledger.Change) {
			c.CategoryID = t.CategoryID
			c.Type = t.Type
		},
	}
	b.RecurringExpenses = &Collection[ledger.RecurringExpense]{
		book:   b,
		entity: ledger.EntityRecurringExpense,
		repo:   storage.Scope.RecurringExpenses,
		id:     func(r *ledger.RecurringExpense) int64 { return r.ID },
		refs: func(r *ledger.RecurringExpense) []ref {
			return []ref{
				{"account_id", r.AccountID, accountExists},
				{"category_id", r.CategoryID, categoryExists},
			}
		},
		describe: func(r *ledger.RecurringExpense, c *ledger.Change) {
			c.CategoryID = r.CategoryID
		},
	}
	return b
}

// AddHook registers h for changes committed from now on.
func (b *Book) AddHook(h ChangeHook) {
	b.hooks = append(b.hooks, h)
}

// Storage gives read access to the underlying repositories.
func (b *Book) Storage() *storage.SQLStorage {
	return b.storage
}

// Notify announces a change made outside the collections, e.g. by a batch job.
func (b *Book) Notify(ctx context.Context, change ledger.Change) {
	if change.At.IsZero() {
		change.At = time.Now()
	}
	logger.Debug("ledger changed",
		zap.String("entity", change.Entity),
		zap.String("op", string(change.Op)),
		zap.Int64("id", change.ID))
	for _, h := range b.hooks {
		h.LedgerChanged(ctx, change)
	}
}

// ImportTransactions stores all items or none of them.
func (b *Book) ImportTransactions(ctx context.Context, items []ledger.Transaction) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	err := b.storage.InTx(ctx, func(tx *storage.Tx) error {
		for i := range items {
			if err := b.Transactions.checkRefs(ctx, tx, &items[i]); err != nil {
				return errors.Wrapf(err, "transaction %d", i+1)
			}
			if err := tx.Transactions().Create(ctx, &items[i]); err != nil {
				return errors.Wrapf(err, "transaction %d", i+1)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("transactions imported", zap.Int("count", len(items)))
	b.Notify(ctx, ledger.Change{Entity: ledger.EntityTransaction, Op: ledger.OpImport})
	return len(items), nil
}

type refCheck func(ctx context.Context, s storage.Scope, id int64) error

type ref struct {
	field string
	id    int64
	check refCheck
}

func accountExists(ctx context.Context, s storage.Scope, id int64) error {
	_, err := s.Accounts().Get(ctx, id)
	return err
}

func categoryExists(ctx context.Context, s storage.Scope, id int64) error {
	_, err := s.Categories().Get(ctx, id)
	return err
}

func checkRef(ctx context.Context, s storage.Scope, r ref) error {
	if r.id <= 0 {
		// left to the record's own validation
		return nil
	}
	err := r.check(ctx, s, r.id)
	var nf *customerr.NotFoundError
	if errors.As(err, &nf) {
		return customerr.Invalid(r.field, "%s %d does not exist", nf.Entity, r.id)
	}
	return err
}

// EnsureCategory returns the category called name, creating it when missing.
func (b *Book) EnsureCategory(ctx context.Context, name string) (*ledger.Category, error) {
	found, err := b.storage.CategoryByName(ctx, name)
	if err != nil {
		return nil, errors.Wrap(err, "find category")
	}
	if found != nil {
		return found, nil
	}
	category := &ledger.Category{Name: name}
	if err = b.Categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (b *Book) AddTransaction(ctx context.Context, tx *ledger.Transaction) error {
	return b.Transactions.Create(ctx, tx)
}
