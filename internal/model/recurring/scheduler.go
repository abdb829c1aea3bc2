// Package recurring turns due recurring expenses into transactions.
package recurring

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/storage"
)

type txRunner interface {
	DueRecurring(ctx context.Context, day ledger.Date) ([]ledger.RecurringExpense, error)
	InTx(ctx context.Context, fn func(tx *storage.Tx) error) error
}

type notifier interface {
	Notify(ctx context.Context, change ledger.Change)
}

type config interface {
	RecurringDelayMinutes() int64
}

type Scheduler struct {
	storage  txRunner
	notifier notifier
	delay    time.Duration
	today    func() ledger.Date
}

func NewScheduler(storage txRunner, notifier notifier, config config) *Scheduler {
	delay := time.Duration(config.RecurringDelayMinutes()) * time.Minute
	if delay <= 0 {
		delay = time.Hour
	}
	return &Scheduler{
		storage:  storage,
		notifier: notifier,
		delay:    delay,
		today:    ledger.Today,
	}
}

// Result counts what one RunDue pass did.
type Result struct {
	Expenses     int
	Transactions int
	Failed       int
}

// RunDue charges every recurring expense billed on or before today. Each
// missed period becomes its own transaction dated on that billing date, and
// the billing date moves past today. Every expense is handled in its own
// database transaction so one failure does not block the others.
func (s *Scheduler) RunDue(ctx context.Context, today ledger.Date) (Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "runRecurring")
	defer span.Finish()

	var res Result
	due, err := s.storage.DueRecurring(ctx, today)
	if err != nil {
		ext.Error.Set(span, true)
		return res, errors.Wrap(err, "list due recurring expenses")
	}

	for i := range due {
		created, err := s.charge(ctx, due[i].ID, today)
		if err != nil {
			res.Failed++
			logger.Error("cannot charge recurring expense", zap.Int64("id", due[i].ID), zap.Error(err))
			continue
		}
		if created == 0 {
			continue
		}
		res.Expenses++
		res.Transactions += created
		s.notifier.Notify(ctx, ledger.Change{
			Entity:     ledger.EntityRecurringExpense,
			Op:         ledger.OpUpdate,
			ID:         due[i].ID,
			CategoryID: due[i].CategoryID,
			Type:       ledger.Expense,
		})
	}

	if res.Failed > 0 {
		ext.Error.Set(span, true)
	}
	logger.Info("recurring expenses processed",
		zap.Int("expenses", res.Expenses),
		zap.Int("transactions", res.Transactions),
		zap.Int("failed", res.Failed))
	return res, nil
}

func (s *Scheduler) charge(ctx context.Context, id int64, today ledger.Date) (int, error) {
	created := 0
	err := s.storage.InTx(ctx, func(tx *storage.Tx) error {
		created = 0
		_, err := tx.RecurringExpenses().Update(ctx, id, func(r *ledger.RecurringExpense) error {
			for !r.BillingDate.After(today) {
				occurrence := r.Occurrence()
				if err := tx.Transactions().Create(ctx, &occurrence); err != nil {
					return err
				}
				created++
				r.Advance()
			}
			return nil
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// Run calls RunDue right away and then every delay until ctx ends.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	logger.Info("Start recurring expenses scheduler", zap.Duration("delay", s.delay))
	for {
		if _, err := s.RunDue(ctx, s.today()); err != nil {
			logger.Error("recurring run failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			logger.Info("Stop recurring expenses scheduler")
			return
		case <-ticker.C:
		}
	}
}
