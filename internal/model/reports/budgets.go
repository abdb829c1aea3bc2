package reports

import (
	"context"

	"github.com/jinzhu/now"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"max.ks1230/expense-tracker/internal/entity/ledger"
)

var hundred = decimal.NewFromInt(100)

type BudgetStatus struct {
	BudgetID    int64           `json:"budget_id"`
	Name        string          `json:"name"`
	CategoryID  int64           `json:"category_id"`
	Category    string          `json:"category"`
	From        ledger.Date     `json:"from"`
	To          ledger.Date     `json:"to"`
	Amount      decimal.Decimal `json:"amount"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	UsedPercent decimal.Decimal `json:"used_percent"`
	Exceeded    bool            `json:"exceeded"`
}

// BudgetStatuses reports how much of every budget has been spent.
func (g *Generator) BudgetStatuses(ctx context.Context) ([]BudgetStatus, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "budgetStatuses")
	defer span.Finish()

	key := budgetsKey(ledger.DateOf(g.clock()))
	var statuses []BudgetStatus
	if g.cached(key, &statuses) {
		return statuses, nil
	}

	budgets, err := g.storage.AllBudgets(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "budget statuses")
	}
	statuses, err = g.statuses(ctx, budgets)
	if err != nil {
		return nil, err
	}

	g.store(key, statuses)
	return statuses, nil
}

// CategoryBudgetStatuses is BudgetStatuses narrowed to one category, uncached.
func (g *Generator) CategoryBudgetStatuses(ctx context.Context, categoryID int64) ([]BudgetStatus, error) {
	budgets, err := g.storage.BudgetsFor(ctx, categoryID)
	if err != nil {
		return nil, errors.Wrap(err, "budget statuses")
	}
	return g.statuses(ctx, budgets)
}

func (g *Generator) statuses(ctx context.Context, budgets []ledger.Budget) ([]BudgetStatus, error) {
	statuses := make([]BudgetStatus, 0, len(budgets))
	if len(budgets) == 0 {
		return statuses, nil
	}
	names, err := g.storage.CategoryNames(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "budget statuses")
	}

	for _, b := range budgets {
		from, to := g.budgetWindow(b)
		expenses, err := g.storage.TransactionsBetween(ctx, from, to, ledger.Expense)
		if err != nil {
			return nil, errors.Wrap(err, "budget statuses")
		}

		spent := decimal.Zero
		for _, tx := range expenses {
			if tx.CategoryID == b.CategoryID {
				spent = spent.Add(decimal.NewFromFloat(tx.Amount))
			}
		}
		statuses = append(statuses, newStatus(b, names[b.CategoryID], from, to, spent))
	}
	return statuses, nil
}

// budgetWindow fills missing budget dates with the current month bounds.
func (g *Generator) budgetWindow(b ledger.Budget) (from, to ledger.Date) {
	n := now.With(g.clock())
	from, to = b.StartDate, b.EndDate
	if from.IsZero() {
		from = ledger.DateOf(n.BeginningOfMonth())
	}
	if to.IsZero() {
		to = ledger.DateOf(n.EndOfMonth())
	}
	return from, to
}

func newStatus(b ledger.Budget, category string, from, to ledger.Date, spent decimal.Decimal) BudgetStatus {
	amount := decimal.NewFromFloat(b.Amount)
	spent = spent.Round(2)

	used := decimal.Zero
	switch {
	case amount.IsPositive():
		used = spent.Mul(hundred).Div(amount).Round(1)
	case spent.IsPositive():
		used = hundred
	}

	return BudgetStatus{
		BudgetID:    b.ID,
		Name:        b.Name,
		CategoryID:  b.CategoryID,
		Category:    category,
		From:        from,
		To:          to,
		Amount:      amount,
		Spent:       spent,
		Remaining:   amount.Sub(spent),
		UsedPercent: used,
		Exceeded:    spent.GreaterThan(amount),
	}
}
