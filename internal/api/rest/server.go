// Package rest exposes the ledger and its reports over HTTP.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/book"
	"max.ks1230/expense-tracker/internal/model/reports"
	"max.ks1230/expense-tracker/internal/model/storage"
)

const (
	apiKeyHeader    = "X-API-Key"
	shutdownTimeout = 5 * time.Second
)

type config interface {
	Addr() string
	APIKey() string
	PageSize() int
}

type reporter interface {
	CategoryReport(ctx context.Context, period, curr string) (*reports.CategoryReport, error)
	BudgetStatuses(ctx context.Context) ([]reports.BudgetStatus, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	engine *gin.Engine
	addr   string
}

func NewServer(cfg config, b *book.Book, rep reporter, db pinger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(), observeLatency())

	engine.GET("/healthz", healthz(db))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pageSize := cfg.PageSize()
	if pageSize < 1 || pageSize > storage.MaxPageSize {
		if pageSize != 0 {
			logger.Warn("page size is out of range, using default",
				zap.Int("configured", pageSize), zap.Int("default", storage.DefaultPageSize))
		}
		pageSize = storage.DefaultPageSize
	}

	api := engine.Group("/")
	if key := cfg.APIKey(); key != "" {
		api.Use(apiKeyMiddleware(key))
	}
	register[ledger.Account](api, "/accounts", b.Accounts, pageSize)
	register[ledger.Budget](api, "/budgets", b.Budgets, pageSize)
	register[ledger.Category](api, "/categories", b.Categories, pageSize)
	register[ledger.Transaction](api, "/transactions", b.Transactions, pageSize)
	register[ledger.RecurringExpense](api, "/recurring-expenses", b.RecurringExpenses, pageSize)

	reportsGroup := api.Group("/reports")
	reportsGroup.GET("/categories", categoryReport(rep))
	reportsGroup.GET("/budgets", budgetReport(rep))

	return &Server{engine: engine, addr: cfg.Addr()}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serve http")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown http")
	}
	logger.Info("HTTP server stopped")
	return nil
}

func apiKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(apiKeyHeader) != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func healthz(db pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func categoryReport(rep reporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := rep.CategoryReport(c.Request.Context(), c.Query("period"), c.Query("currency"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func budgetReport(rep reporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		statuses, err := rep.BudgetStatuses(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, statuses)
	}
}
