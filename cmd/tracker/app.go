package main

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/clients/cache"
	"max.ks1230/expense-tracker/internal/config"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/book"
	"max.ks1230/expense-tracker/internal/model/reports"
	"max.ks1230/expense-tracker/internal/model/storage"
)

// app is the wiring shared by the commands that touch the ledger.
type app struct {
	conf      *config.Service
	storage   *storage.SQLStorage
	generator *reports.Generator
	book      *book.Book
}

func newApp(ctx context.Context) (*app, error) {
	conf, err := config.New(flagConfig)
	if err != nil {
		return nil, errors.Wrap(err, "init config")
	}

	db, err := storage.Open(conf.Storage(), conf.Postgres())
	if err != nil {
		return nil, errors.Wrap(err, "open storage")
	}
	if err = db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrate storage")
	}

	reportCache, err := newCache(conf)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	generator := reports.NewGenerator(conf.App(), db, reportCache)
	return &app{
		conf:      conf,
		storage:   db,
		generator: generator,
		book:      book.New(db, generator),
	}, nil
}

func newCache(conf *config.Service) (reports.Cache, error) {
	if !conf.Memcached().Enabled() {
		return cache.NewMemoryCache(), nil
	}
	mc, err := cache.NewMemcache(conf.Memcached())
	if err != nil {
		return nil, errors.Wrap(err, "init memcache")
	}
	return mc, nil
}

func (a *app) close() {
	if err := a.storage.Close(); err != nil {
		logger.Error("failed to close storage", zap.Error(err))
	}
}
