package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"max.ks1230/expense-tracker/internal/clients/cache"
	"max.ks1230/expense-tracker/internal/entity/currency"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/model/customerr"
)

type storageMock struct {
	mock.Mock
}

func (m *storageMock) TransactionsBetween(ctx context.Context, from, to ledger.Date, typ ledger.TransactionType) ([]ledger.Transaction, error) {
	args := m.Called(ctx, from, to, typ)
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *storageMock) CategoryNames(ctx context.Context) (map[int64]string, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[int64]string), args.Error(1)
}

func (m *storageMock) AllBudgets(ctx context.Context) ([]ledger.Budget, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ledger.Budget), args.Error(1)
}

func (m *storageMock) BudgetsFor(ctx context.Context, categoryID int64) ([]ledger.Budget, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]ledger.Budget), args.Error(1)
}

func (m *storageMock) GetRate(ctx context.Context, name string) (currency.Rate, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(currency.Rate), args.Error(1)
}

type configStub struct {
	base string
}

func (c configStub) BaseCurrency() string {
	return c.base
}

func (c configStub) Currencies() []string {
	return []string{"USD", "EUR", "RUB"}
}

var (
	anyCtx  = mock.Anything
	anyDate = mock.AnythingOfType("ledger.Date")
	fixed   = time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)
)

func newTestGenerator(base string, s *storageMock, c Cache) *Generator {
	g := NewGenerator(configStub{base: base}, s, c)
	g.clock = func() time.Time { return fixed }
	return g
}

func expenses() []ledger.Transaction {
	return []ledger.Transaction{
		{Amount: 1000, CategoryID: 1, Type: ledger.Expense},
		{Amount: 1500, CategoryID: 2, Type: ledger.Expense},
		{Amount: 100, CategoryID: 2, Type: ledger.Expense},
	}
}

var names = map[int64]string{1: "Internet", 2: "Shopping"}

func Test_CategoryReport_ShouldReturnReportInUSD(t *testing.T) {
	ctx := context.Background()
	s := &storageMock{}
	s.On("TransactionsBetween", anyCtx, ledger.Date{}, ledger.Date{}, ledger.Expense).Return(expenses(), nil)
	s.On("CategoryNames", anyCtx).Return(names, nil)
	s.On("GetRate", anyCtx, "USD").Return(currency.Rate{Name: "USD", BaseRate: 0.1, Set: true}, nil)

	report, err := newTestGenerator("RUB", s, nil).CategoryReport(ctx, "", "usd")
	require.NoError(t, err)
	s.AssertExpectations(t)

	assert.Equal(t, "USD", report.Currency)
	assert.True(t, decimal.NewFromInt(260).Equal(report.Total))
	require.Len(t, report.Records, 2)
	assert.Equal(t, "Shopping", report.Records[0].Category)
	assert.True(t, decimal.NewFromInt(160).Equal(report.Records[0].Amount))
	assert.Equal(t, "Internet", report.Records[1].Category)
	assert.True(t, decimal.NewFromInt(100).Equal(report.Records[1].Amount))
}

func Test_CategoryReport_ShouldReturnReportInBaseCurrency(t *testing.T) {
	ctx := context.Background()
	s := &storageMock{}
	s.On("TransactionsBetween", anyCtx, ledger.Date{}, ledger.Date{}, ledger.Expense).Return(expenses(), nil)
	s.On("CategoryNames", anyCtx).Return(names, nil)

	report, err := newTestGenerator("RUB", s, nil).CategoryReport(ctx, "", "")
	require.NoError(t, err)
	s.AssertNotCalled(t, "GetRate", anyCtx, mock.Anything)

	assert.Equal(t, "RUB", report.Currency)
	assert.True(t, decimal.NewFromInt(2600).Equal(report.Total))
	assert.True(t, decimal.NewFromInt(1600).Equal(report.Records[0].Amount))
}

func Test_CategoryReport_MonthWindow(t *testing.T) {
	ctx := context.Background()
	s := &storageMock{}
	from, to := ledger.NewDate(2024, time.May, 1), ledger.NewDate(2024, time.May, 31)
	s.On("TransactionsBetween", anyCtx, from, to, ledger.Expense).Return([]ledger.Transaction{}, nil)
	s.On("CategoryNames", anyCtx).Return(names, nil)

	report, err := newTestGenerator("USD", s, nil).CategoryReport(ctx, "Month", "")
	require.NoError(t, err)
	s.AssertExpectations(t)
	assert.Equal(t, from, report.From)
	assert.Equal(t, to, report.To)
	assert.Empty(t, report.Records)
	assert.True(t, report.Total.IsZero())
}

func Test_CategoryReport_RejectsUnknownInput(t *testing.T) {
	g := newTestGenerator("USD", &storageMock{}, nil)

	_, err := g.CategoryReport(context.Background(), "decade", "")
	assert.True(t, customerr.IsValidation(err))
	assert.ErrorContains(t, err, "use one of: week, month, year")
	assert.Equal(t, []string{"week", "month", "year"}, Periods())

	_, err = g.CategoryReport(context.Background(), "", "JPY")
	assert.True(t, customerr.IsValidation(err))
}

func Test_CategoryReport_UsesCache(t *testing.T) {
	ctx := context.Background()
	s := &storageMock{}
	s.On("TransactionsBetween", anyCtx, anyDate, anyDate, ledger.Expense).Return(expenses(), nil).Once()
	s.On("CategoryNames", anyCtx).Return(names, nil).Once()

	g := newTestGenerator("USD", s, cache.NewMemoryCache())
	first, err := g.CategoryReport(ctx, "week", "")
	require.NoError(t, err)
	second, err := g.CategoryReport(ctx, "week", "")
	require.NoError(t, err)
	s.AssertExpectations(t)
	assert.True(t, first.Total.Equal(second.Total))
	assert.Equal(t, first.From, second.From)

	g.LedgerChanged(ctx, ledger.Change{Entity: ledger.EntityTransaction})
	s.On("TransactionsBetween", anyCtx, anyDate, anyDate, ledger.Expense).Return([]ledger.Transaction{}, nil).Once()
	s.On("CategoryNames", anyCtx).Return(names, nil).Once()

	third, err := g.CategoryReport(ctx, "week", "")
	require.NoError(t, err)
	assert.True(t, third.Total.IsZero())
}

func Test_BudgetStatuses(t *testing.T) {
	ctx := context.Background()
	s := &storageMock{}
	s.On("AllBudgets", anyCtx).Return([]ledger.Budget{
		{ID: 1, Name: "Net", Amount: 500, CategoryID: 1},
		{ID: 2, Name: "Shop", Amount: 1000, CategoryID: 2,
			StartDate: ledger.NewDate(2024, time.January, 1), EndDate: ledger.NewDate(2024, time.December, 31)},
	}, nil)
	s.On("CategoryNames", anyCtx).Return(names, nil)
	s.On("TransactionsBetween", anyCtx, ledger.NewDate(2024, time.May, 1), ledger.NewDate(2024, time.May, 31), ledger.Expense).
		Return(expenses()[:1], nil)
	s.On("TransactionsBetween", anyCtx, ledger.NewDate(2024, time.January, 1), ledger.NewDate(2024, time.December, 31), ledger.Expense).
		Return(expenses(), nil)

	statuses, err := newTestGenerator("USD", s, nil).BudgetStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	net := statuses[0]
	assert.Equal(t, "Internet", net.Category)
	assert.True(t, net.Exceeded)
	assert.True(t, decimal.NewFromInt(-500).Equal(net.Remaining))
	assert.True(t, decimal.NewFromInt(200).Equal(net.UsedPercent))

	shop := statuses[1]
	assert.True(t, shop.Exceeded)
	assert.True(t, decimal.NewFromInt(1600).Equal(shop.Spent))
	assert.True(t, decimal.NewFromInt(160).Equal(shop.UsedPercent))
}

func Test_NewStatus_ZeroAmount(t *testing.T) {
	st := newStatus(ledger.Budget{Amount: 0}, "", ledger.Date{}, ledger.Date{}, decimal.Zero)
	assert.False(t, st.Exceeded)
	assert.True(t, st.UsedPercent.IsZero())

	st = newStatus(ledger.Budget{Amount: 0}, "", ledger.Date{}, ledger.Date{}, decimal.NewFromInt(5))
	assert.True(t, st.Exceeded)
	assert.True(t, hundred.Equal(st.UsedPercent))
}
