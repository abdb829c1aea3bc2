package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/entity/currency"
	"max.ks1230/expense-tracker/internal/logger"
)

type ratesStorage interface {
	NewRate(ctx context.Context, name string) error
	UpdateRateValue(ctx context.Context, name string, val float64) error
}

type ratesProvider interface {
	GetRates(ctx context.Context, base string, relatives []string) (map[string]float64, error)
}

// reportCache drops reports computed with the previous rates.
type reportCache interface {
	Invalidate() error
}

type config interface {
	BaseCurrency() string
	Currencies() []string
	PullingDelayMinutes() int64
}

type Puller struct {
	storage      ratesStorage
	provider     ratesProvider
	reports      reportCache
	baseCurrency string
	currencies   []string
	pullingDelay time.Duration
}

// NewPuller seeds the configured currencies. reports may be nil.
func NewPuller(ctx context.Context, storage ratesStorage, provider ratesProvider, reports reportCache, config config) (*Puller, error) {
	p := &Puller{
		storage:      storage,
		provider:     provider,
		reports:      reports,
		baseCurrency: config.BaseCurrency(),
		currencies:   config.Currencies(),
		pullingDelay: time.Duration(config.PullingDelayMinutes()) * time.Minute,
	}
	if p.pullingDelay <= 0 {
		p.pullingDelay = time.Hour
	}
	err := p.initStorage(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot init storage")
	}
	return p, nil
}

func (p *Puller) initStorage(ctx context.Context) error {
	if !currency.Contains(p.currencies, p.baseCurrency) {
		return fmt.Errorf("unknown currency %s", p.baseCurrency)
	}

	for _, curr := range p.currencies {
		err := p.storage.NewRate(ctx, curr)
		if err != nil {
			return errors.Wrap(err, "cannot save currency to storage")
		}
	}

	err := p.storage.UpdateRateValue(ctx, p.baseCurrency, 1)
	if err != nil {
		return errors.Wrap(err, "cannot update currency")
	}
	return nil
}

// Pull refreshes rates right away and then every pulling delay until ctx ends.
func (p *Puller) Pull(ctx context.Context) {
	ticker := time.NewTicker(p.pullingDelay)
	defer ticker.Stop()
	firstTick := make(chan struct{}, 1)
	firstTick <- struct{}{}

	logger.Info("Start pulling rates", zap.Duration("delay", p.pullingDelay))
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stop pulling rates")
			return
		// fake first tick to pull rates immediately
		case <-firstTick:
			_ = p.PullOnce(ctx)
		case <-ticker.C:
			_ = p.PullOnce(ctx)
		}
	}
}

// PullOnce fetches and stores the current rates. Rates that fail to save are
// logged and skipped. Cached reports are dropped once any rate is saved.
func (p *Puller) PullOnce(ctx context.Context) error {
	logger.Info("Pulling current rates...")

	span, ctx := opentracing.StartSpanFromContext(ctx, "pullRates")
	defer span.Finish()

	relatives := p.nonBaseCurrencies()
	if len(relatives) == 0 {
		return nil
	}
	pulledRates, err := p.provider.GetRates(ctx, p.baseCurrency, relatives)
	if err != nil {
		ext.Error.Set(span, true)
		logger.Error("cannot get rates", zap.Error(err))
		return errors.Wrap(err, "pull rates")
	}

	saved := 0
	for name, rate := range pulledRates {
		if !currency.Contains(relatives, name) {
			continue
		}
		if p.updateRate(ctx, name, rate) {
			saved++
		}
	}

	if saved > 0 && p.reports != nil {
		if err = p.reports.Invalidate(); err != nil {
			logger.Error("cannot invalidate reports after rates update", zap.Error(err))
		}
	}

	logger.Info("Successfully pulled current rates", zap.Int("count", len(pulledRates)), zap.Int("saved", saved))
	return nil
}

func (p *Puller) updateRate(ctx context.Context, name string, rate float64) bool {
	span, ctx := opentracing.StartSpanFromContext(ctx, "updateRate")
	defer span.Finish()
	span.SetTag("rate", name)

	err := p.storage.UpdateRateValue(ctx, name, rate)
	if err != nil {
		ext.Error.Set(span, true)
		logger.Error("failed to save rate", zap.Error(err), zap.String("rate", name))
		return false
	}
	logger.Info("successfully saved rate", zap.String("rate", name))
	return true
}

func (p *Puller) nonBaseCurrencies() []string {
	var relatives []string
	for _, curr := range p.currencies {
		if curr != p.baseCurrency {
			relatives = append(relatives, curr)
		}
	}
	return relatives
}
