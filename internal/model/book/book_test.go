package book

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/model/customerr"
	"max.ks1230/expense-tracker/internal/model/storage"
)

type recorder struct {
	changes []ledger.Change
}

func (r *recorder) LedgerChanged(_ context.Context, c ledger.Change) {
	r.changes = append(r.changes, c)
}

func newTestBook(t *testing.T) (*Book, *recorder) {
	t.Helper()
	s, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })

	rec := &recorder{}
	return New(s, rec), rec
}

func expense(accountID, categoryID int64, amount float64) ledger.Transaction {
	return ledger.Transaction{
		Name:       "Lunch",
		Amount:     amount,
		AccountID:  accountID,
		CategoryID: categoryID,
		Date:       ledger.NewDate(2024, time.April, 10),
		Type:       ledger.Expense,
	}
}

func Test_Create_ChecksReferences(t *testing.T) {
	ctx := context.Background()
	b, rec := newTestBook(t)

	tx := expense(1, 1, 12)
	err := b.Transactions.Create(ctx, &tx)
	var verr *customerr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "account_id", verr.Field)
	assert.Empty(t, rec.changes)

	acc := ledger.Account{Name: "Cash"}
	require.NoError(t, b.Accounts.Create(ctx, &acc))
	cat := ledger.Category{Name: "Food"}
	require.NoError(t, b.Categories.Create(ctx, &cat))

	tx = expense(acc.ID, cat.ID, 12)
	require.NoError(t, b.Transactions.Create(ctx, &tx))

	require.Len(t, rec.changes, 3)
	last := rec.changes[2]
	assert.Equal(t, ledger.EntityTransaction, last.Entity)
	assert.Equal(t, ledger.OpCreate, last.Op)
	assert.Equal(t, tx.ID, last.ID)
	assert.Equal(t, cat.ID, last.CategoryID)
	assert.Equal(t, ledger.Expense, last.Type)
	assert.False(t, last.At.IsZero())
}

func Test_Update_ChecksNewReferences(t *testing.T) {
	ctx := context.Background()
	b, rec := newTestBook(t)

	cat := ledger.Category{Name: "Food"}
	require.NoError(t, b.Categories.Create(ctx, &cat))
	budget := ledger.Budget{Name: "Food", Amount: 200, CategoryID: cat.ID}
	require.NoError(t, b.Budgets.Create(ctx, &budget))

	_, err := b.Budgets.Update(ctx, budget.ID, func(bg *ledger.Budget) error {
		bg.CategoryID = 77
		return nil
	})
	assert.True(t, customerr.IsValidation(err))

	updated, err := b.Budgets.Update(ctx, budget.ID, func(bg *ledger.Budget) error {
		bg.Amount = 250
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 250.0, updated.Amount)
	assert.Equal(t, ledger.OpUpdate, rec.changes[len(rec.changes)-1].Op)
}

func Test_Delete(t *testing.T) {
	ctx := context.Background()
	b, rec := newTestBook(t)

	cat := ledger.Category{Name: "Travel"}
	require.NoError(t, b.Categories.Create(ctx, &cat))
	require.NoError(t, b.Categories.Delete(ctx, cat.ID))

	assert.Equal(t, ledger.OpDelete, rec.changes[1].Op)
	assert.True(t, customerr.IsNotFound(b.Categories.Delete(ctx, cat.ID)))
	assert.Len(t, rec.changes, 2)
}

func Test_ImportTransactions_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	b, rec := newTestBook(t)

	acc := ledger.Account{Name: "Cash"}
	require.NoError(t, b.Accounts.Create(ctx, &acc))
	cat := ledger.Category{Name: "Food"}
	require.NoError(t, b.Categories.Create(ctx, &cat))
	rec.changes = nil

	n, err := b.ImportTransactions(ctx, []ledger.Transaction{
		expense(acc.ID, cat.ID, 5),
		expense(acc.ID, cat.ID+100, 6),
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "transaction 2")
	assert.Zero(t, n)

	_, total, err := b.Transactions.List(ctx, storage.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, rec.changes)

	n, err = b.ImportTransactions(ctx, []ledger.Transaction{
		expense(acc.ID, cat.ID, 5),
		expense(acc.ID, cat.ID, 6),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, rec.changes, 1)
	assert.Equal(t, ledger.OpImport, rec.changes[0].Op)
}

func Test_EnsureCategory(t *testing.T) {
	ctx := context.Background()
	b, rec := newTestBook(t)

	first, err := b.EnsureCategory(ctx, "Taxi")
	require.NoError(t, err)
	second, err := b.EnsureCategory(ctx, "Taxi")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, rec.changes, 1)
}
