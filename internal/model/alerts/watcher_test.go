package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/model/reports"
)

type reporterMock struct {
	mock.Mock
}

func (m *reporterMock) BudgetStatuses(ctx context.Context) ([]reports.BudgetStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).([]reports.BudgetStatus), args.Error(1)
}

func (m *reporterMock) CategoryBudgetStatuses(ctx context.Context, categoryID int64) ([]reports.BudgetStatus, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]reports.BudgetStatus), args.Error(1)
}

type senderMock struct {
	mock.Mock
}

func (m *senderMock) SendMessage(text string, userID int64) error {
	return m.Called(text, userID).Error(0)
}

type chat int64

func (c chat) AlertChatID() int64 {
	return int64(c)
}

func statuses() []reports.BudgetStatus {
	return []reports.BudgetStatus{
		{Name: "Food", Amount: decimal.NewFromInt(100), Spent: decimal.NewFromInt(150), Exceeded: true,
			From: ledger.NewDate(2024, time.May, 1), To: ledger.NewDate(2024, time.May, 31)},
		{Name: "Fun", Amount: decimal.NewFromInt(100), Spent: decimal.NewFromInt(10)},
	}
}

func Test_LedgerChanged_AlertsExceededBudgets(t *testing.T) {
	rep := &reporterMock{}
	rep.On("CategoryBudgetStatuses", mock.Anything, int64(3)).Return(statuses(), nil).Once()
	sender := &senderMock{}
	sender.On("SendMessage",
		`⚠️ Budget "Food" exceeded: spent 150.00 of 100.00 between 2024-05-01 and 2024-05-31`,
		int64(77)).Return(nil).Once()

	w := NewWatcher(rep, sender, chat(77))
	w.LedgerChanged(context.Background(), ledger.Change{
		Entity: ledger.EntityTransaction, Op: ledger.OpCreate, CategoryID: 3, Type: ledger.Expense,
	})

	rep.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func Test_LedgerChanged_IgnoresOtherChanges(t *testing.T) {
	rep := &reporterMock{}
	w := NewWatcher(rep, &senderMock{}, chat(77))

	w.LedgerChanged(context.Background(), ledger.Change{Entity: ledger.EntityTransaction, Op: ledger.OpCreate, Type: ledger.Income})
	w.LedgerChanged(context.Background(), ledger.Change{Entity: ledger.EntityTransaction, Op: ledger.OpDelete, Type: ledger.Expense})
	w.LedgerChanged(context.Background(), ledger.Change{Entity: ledger.EntityAccount, Op: ledger.OpUpdate})

	rep.AssertNotCalled(t, "CategoryBudgetStatuses", mock.Anything, mock.Anything)
	rep.AssertNotCalled(t, "BudgetStatuses", mock.Anything)
}

func Test_Check_AllBudgetsAfterImport(t *testing.T) {
	rep := &reporterMock{}
	rep.On("BudgetStatuses", mock.Anything).Return(statuses(), nil).Once()

	w := NewWatcher(rep, nil, chat(0))
	w.LedgerChanged(context.Background(), ledger.Change{Entity: ledger.EntityTransaction, Op: ledger.OpImport})
	rep.AssertExpectations(t)

	rep.On("BudgetStatuses", mock.Anything).Return(statuses(), nil).Once()
	limits := w.Check(context.Background(), 0)
	if assert.Len(t, limits, 1) {
		assert.Contains(t, limits[0].Error(), "Food")
	}
}
