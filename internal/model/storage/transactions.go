package storage

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"max.ks1230/expense-tracker/internal/entity/ledger"
)

// TransactionsBetween returns transactions of type dated within [from, to].
// Zero bounds are open and an empty type matches every type.
func (s scope) TransactionsBetween(ctx context.Context, from, to ledger.Date, typ ledger.TransactionType) ([]ledger.Transaction, error) {
	where := sq.And{}
	if !from.IsZero() {
		where = append(where, sq.GtOrEq{"date": from.String()})
	}
	if !to.IsZero() {
		where = append(where, sq.LtOrEq{"date": to.String()})
	}
	if typ != "" {
		where = append(where, sq.Eq{"type": string(typ)})
	}

	query := s.psql.Select(transactionsTable.selectColumns()...).
		From(transactionsTable.name).
		OrderBy("date", "id")
	if len(where) > 0 {
		query = query.Where(where)
	}
	return s.Transactions().scan(ctx, query)
}

// DueRecurring lists recurring expenses billed on or before day.
func (s scope) DueRecurring(ctx context.Context, day ledger.Date) ([]ledger.RecurringExpense, error) {
	query := s.psql.Select(recurringTable.selectColumns()...).
		From(recurringTable.name).
		Where(sq.LtOrEq{"billing_date": day.String()}).
		OrderBy("id")
	return s.RecurringExpenses().scan(ctx, query)
}

// BudgetsFor lists the budgets of one category.
func (s scope) BudgetsFor(ctx context.Context, categoryID int64) ([]ledger.Budget, error) {
	query := s.psql.Select(budgetsTable.selectColumns()...).
		From(budgetsTable.name).
		Where(sq.Eq{"category_id": categoryID}).
		OrderBy("id")
	return s.Budgets().scan(ctx, query)
}

// CategoryByName finds a category by its exact name, returning nil if absent.
func (s scope) CategoryByName(ctx context.Context, name string) (*ledger.Category, error) {
	items, _, err := s.Categories().Query(ctx, Page{Number: 1, Size: 1}, Where("name", OpEq, name))
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

// CategoryNames maps every category id to its name.
func (s scope) CategoryNames(ctx context.Context) (map[int64]string, error) {
	items, _, err := s.Categories().List(ctx, AllRows)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(items))
	for _, c := range items {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s scope) AllBudgets(ctx context.Context) ([]ledger.Budget, error) {
	items, _, err := s.Budgets().List(ctx, AllRows)
	return items, err
}
