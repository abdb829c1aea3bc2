// Package alerts warns a chat when spending goes over a budget.
package alerts

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/customerr"
	"max.ks1230/expense-tracker/internal/model/reports"
)

type budgetReporter interface {
	BudgetStatuses(ctx context.Context) ([]reports.BudgetStatus, error)
	CategoryBudgetStatuses(ctx context.Context, categoryID int64) ([]reports.BudgetStatus, error)
}

type messageSender interface {
	SendMessage(text string, userID int64) error
}

type config interface {
	AlertChatID() int64
}

type Watcher struct {
	reporter budgetReporter
	sender   messageSender
	chatID   int64
}

func NewWatcher(reporter budgetReporter, sender messageSender, config config) *Watcher {
	return &Watcher{
		reporter: reporter,
		sender:   sender,
		chatID:   config.AlertChatID(),
	}
}

// LedgerChanged checks the budgets touched by an expense write.
func (w *Watcher) LedgerChanged(ctx context.Context, change ledger.Change) {
	if !affectsBudgets(change) {
		return
	}
	for _, err := range w.Check(ctx, change.CategoryID) {
		w.alert(err)
	}
}

func affectsBudgets(change ledger.Change) bool {
	switch change.Entity {
	case ledger.EntityTransaction:
		if change.Op == ledger.OpImport {
			return true
		}
		return change.Op != ledger.OpDelete && change.Type == ledger.Expense
	case ledger.EntityRecurringExpense:
		return change.Type == ledger.Expense
	case ledger.EntityBudget:
		return change.Op != ledger.OpDelete
	}
	return false
}

// Check returns one LimitError per exceeded budget of the category, or of
// every category when categoryID is zero.
func (w *Watcher) Check(ctx context.Context, categoryID int64) []*customerr.LimitError {
	var (
		statuses []reports.BudgetStatus
		err      error
	)
	if categoryID > 0 {
		statuses, err = w.reporter.CategoryBudgetStatuses(ctx, categoryID)
	} else {
		statuses, err = w.reporter.BudgetStatuses(ctx)
	}
	if err != nil {
		logger.Error("cannot check budgets", zap.Error(err), zap.Int64("categoryID", categoryID))
		return nil
	}

	var exceeded []*customerr.LimitError
	for _, st := range statuses {
		if !st.Exceeded {
			continue
		}
		name := st.Name
		if name == "" {
			name = st.Category
		}
		exceeded = append(exceeded, &customerr.LimitError{Err: fmt.Sprintf(
			"Budget %q exceeded: spent %s of %s between %s and %s",
			name, st.Spent.StringFixed(2), st.Amount.StringFixed(2), st.From, st.To)})
	}
	return exceeded
}

func (w *Watcher) alert(limit *customerr.LimitError) {
	logger.Warn("budget limit exceeded", zap.String("detail", limit.Error()))
	if w.sender == nil || w.chatID == 0 {
		return
	}
	if err := w.sender.SendMessage("⚠️ "+limit.Error(), w.chatID); err != nil {
		logger.Error("cannot send budget alert", zap.Error(err))
	}
}
