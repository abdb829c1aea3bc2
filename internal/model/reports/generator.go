// Package reports builds the spending summaries shown by the API, the CLI
// and the chat bot.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/entity/currency"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/customerr"
)

const (
	PeriodAll   = ""
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"

	cacheTTL = time.Hour
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

var periods = []string{PeriodAll, PeriodWeek, PeriodMonth, PeriodYear}

type reportStorage interface {
	TransactionsBetween(ctx context.Context, from, to ledger.Date, typ ledger.TransactionType) ([]ledger.Transaction, error)
	CategoryNames(ctx context.Context) (map[int64]string, error)
	AllBudgets(ctx context.Context) ([]ledger.Budget, error)
	BudgetsFor(ctx context.Context, categoryID int64) ([]ledger.Budget, error)
	GetRate(ctx context.Context, name string) (currency.Rate, error)
}

// Cache stores encoded reports. Get returns an error on a miss.
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(keys ...string) error
}

type config interface {
	BaseCurrency() string
	Currencies() []string
}

type Generator struct {
	storage      reportStorage
	cache        Cache
	baseCurrency string
	currencies   []string
	clock        func() time.Time
}

// NewGenerator builds a generator; cache may be nil.
func NewGenerator(config config, storage reportStorage, cache Cache) *Generator {
	return &Generator{
		storage:      storage,
		cache:        cache,
		baseCurrency: config.BaseCurrency(),
		currencies:   config.Currencies(),
		clock:        time.Now,
	}
}

type CategoryTotal struct {
	CategoryID int64           `json:"category_id"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
}

type CategoryReport struct {
	Period   string          `json:"period"`
	Currency string          `json:"currency"`
	From     ledger.Date     `json:"from"`
	To       ledger.Date     `json:"to"`
	Records  []CategoryTotal `json:"records"`
	Total    decimal.Decimal `json:"total"`
}

// CategoryReport sums expenses per category over period, converted from the
// base currency to curr (the base currency when empty).
func (g *Generator) CategoryReport(ctx context.Context, period, curr string) (report *CategoryReport, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "categoryReport")
	defer span.Finish()
	defer func() {
		if err != nil {
			ext.Error.Set(span, true)
		}
	}()

	period = strings.ToLower(period)
	if curr == "" {
		curr = g.baseCurrency
	}
	curr = strings.ToUpper(curr)
	if !currency.Contains(g.currencies, curr) && curr != g.baseCurrency {
		return nil, customerr.Invalid("currency", "unsupported currency %s", curr)
	}
	from, to, err := g.window(period)
	if err != nil {
		return nil, err
	}

	key := categoryKey(period, curr, from)
	report = &CategoryReport{}
	if g.cached(key, report) {
		return report, nil
	}

	logger.Info("CategoryReport - start", zap.String("period", period), zap.String("currency", curr))
	defer logger.Info("CategoryReport - end")

	expenses, err := g.storage.TransactionsBetween(ctx, from, to, ledger.Expense)
	if err != nil {
		return nil, errors.Wrap(err, "generate report")
	}
	names, err := g.storage.CategoryNames(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "generate report")
	}
	rate, err := g.rate(ctx, curr)
	if err != nil {
		return nil, errors.Wrap(err, "generate report")
	}

	report = groupExpenses(convertFromBase(expenses, rate), names)
	report.Period = period
	report.Currency = curr
	report.From = from
	report.To = to

	g.store(key, report)
	return report, nil
}

// window returns the inclusive bounds of period; zero dates are open bounds.
func (g *Generator) window(period string) (from, to ledger.Date, err error) {
	n := now.With(g.clock())
	switch period {
	case PeriodAll:
		return ledger.Date{}, ledger.Date{}, nil
	case PeriodWeek:
		return ledger.DateOf(n.BeginningOfWeek()), ledger.DateOf(n.EndOfWeek()), nil
	case PeriodMonth:
		return ledger.DateOf(n.BeginningOfMonth()), ledger.DateOf(n.EndOfMonth()), nil
	case PeriodYear:
		return ledger.DateOf(n.BeginningOfYear()), ledger.DateOf(n.EndOfYear()), nil
	default:
		return ledger.Date{}, ledger.Date{}, customerr.Invalid("period",
			"report period %s is not supported, use one of: %s", period, strings.Join(Periods(), ", "))
	}
}

func (g *Generator) rate(ctx context.Context, curr string) (decimal.Decimal, error) {
	if curr == g.baseCurrency {
		return decimal.NewFromInt(1), nil
	}
	rate, err := g.storage.GetRate(ctx, curr)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromFloat(rate.BaseRate), nil
}

type expense struct {
	categoryID int64
	amount     decimal.Decimal
}

func convertFromBase(txs []ledger.Transaction, rate decimal.Decimal) []expense {
	result := make([]expense, 0, len(txs))
	for _, tx := range txs {
		result = append(result, expense{
			categoryID: tx.CategoryID,
			amount:     decimal.NewFromFloat(tx.Amount).Mul(rate),
		})
	}
	return result
}

func groupExpenses(exps []expense, names map[int64]string) *CategoryReport {
	m := make(map[int64]decimal.Decimal)
	for _, exp := range exps {
		m[exp.categoryID] = m[exp.categoryID].Add(exp.amount)
	}

	records := make([]CategoryTotal, 0, len(m))
	total := decimal.Zero
	for id, am := range m {
		am = am.Round(2)
		name, ok := names[id]
		if !ok {
			name = fmt.Sprintf("#%d", id)
		}
		records = append(records, CategoryTotal{CategoryID: id, Category: name, Amount: am})
		total = total.Add(am)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Amount.Equal(records[j].Amount) {
			return records[i].Category < records[j].Category
		}
		return records[i].Amount.GreaterThan(records[j].Amount)
	})
	return &CategoryReport{
		Records: records,
		Total:   total,
	}
}

// Periods lists the period names a report accepts besides all time.
func Periods() []string {
	return append([]string(nil), periods[1:]...)
}

func categoryKey(period, curr string, from ledger.Date) string {
	if period == PeriodAll {
		period = "all"
	}
	return "report:categories:" + period + ":" + from.String() + ":" + curr
}

func budgetsKey(today ledger.Date) string {
	return "report:budgets:" + today.String()
}

func (g *Generator) cached(key string, into any) bool {
	if g.cache == nil {
		return false
	}
	raw, err := g.cache.Get(key)
	if err != nil {
		return false
	}
	if err = json.Unmarshal(raw, into); err != nil {
		logger.Warn("broken cached report", zap.String("key", key), zap.Error(err))
		return false
	}
	logger.Debug("report served from cache", zap.String("key", key))
	return true
}

func (g *Generator) store(key string, report any) {
	if g.cache == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err == nil {
		err = g.cache.Set(key, raw, cacheTTL)
	}
	if err != nil {
		logger.Warn("cannot cache report", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every report cached for the current periods.
func (g *Generator) Invalidate() error {
	if g.cache == nil {
		return nil
	}
	today := ledger.DateOf(g.clock())
	keys := []string{budgetsKey(today)}
	for _, p := range periods {
		from, _, _ := g.window(p)
		for _, c := range g.allCurrencies() {
			keys = append(keys, categoryKey(p, c, from))
		}
	}
	return g.cache.Delete(keys...)
}

// LedgerChanged invalidates cached reports after any write.
func (g *Generator) LedgerChanged(_ context.Context, change ledger.Change) {
	if err := g.Invalidate(); err != nil {
		logger.Error("cannot invalidate report cache", zap.Error(err), zap.String("entity", change.Entity))
	}
}

func (g *Generator) allCurrencies() []string {
	if currency.Contains(g.currencies, g.baseCurrency) {
		return g.currencies
	}
	return append([]string{g.baseCurrency}, g.currencies...)
}
