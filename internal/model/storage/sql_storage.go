package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/logger"

	// postgres driver
	_ "github.com/lib/pq"
	// sqlite driver
	_ "modernc.org/sqlite"
)

const (
	sqlitePragma = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	memoryPath   = ":memory:"

	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

type postgresConfig interface {
	Host() string
	Username() string
	Password() string
	Database() string
	SSLMode() string
}

type storageConfig interface {
	Driver() string
	SQLitePath() string
}

// Scope is the set of repositories shared by SQLStorage and Tx.
type Scope interface {
	Accounts() *Repo[ledger.Account]
	Categories() *Repo[ledger.Category]
	Budgets() *Repo[ledger.Budget]
	Transactions() *Repo[ledger.Transaction]
	RecurringExpenses() *Repo[ledger.RecurringExpense]
	TransactionsBetween(ctx context.Context, from, to ledger.Date, typ ledger.TransactionType) ([]ledger.Transaction, error)
	DueRecurring(ctx context.Context, day ledger.Date) ([]ledger.RecurringExpense, error)
	BudgetsFor(ctx context.Context, categoryID int64) ([]ledger.Budget, error)
	CategoryByName(ctx context.Context, name string) (*ledger.Category, error)
	CategoryNames(ctx context.Context) (map[int64]string, error)
	AllBudgets(ctx context.Context) ([]ledger.Budget, error)
}

// scope binds repositories to either the connection pool or one transaction.
type scope struct {
	run  sq.StdSqlCtx
	db   *sql.DB
	psql sq.StatementBuilderType
}

func (s scope) Accounts() *Repo[ledger.Account] {
	return newRepo(s, accountsTable)
}

func (s scope) Categories() *Repo[ledger.Category] {
	return newRepo(s, categoriesTable)
}

func (s scope) Budgets() *Repo[ledger.Budget] {
	return newRepo(s, budgetsTable)
}

func (s scope) Transactions() *Repo[ledger.Transaction] {
	return newRepo(s, transactionsTable)
}

func (s scope) RecurringExpenses() *Repo[ledger.RecurringExpense] {
	return newRepo(s, recurringTable)
}

// SQLStorage keeps every tracker table in SQLite or PostgreSQL.
type SQLStorage struct {
	scope
	dialect dialect
}

// Tx exposes the same repositories inside one database transaction.
type Tx struct {
	scope
}

// Open picks the backend named by the storage config.
func Open(storage storageConfig, pg postgresConfig) (*SQLStorage, error) {
	switch storage.Driver() {
	case driverPostgres:
		return NewPostgresStorage(pg)
	case driverSQLite, "":
		return NewSQLiteStorage(storage.SQLitePath())
	default:
		return nil, fmt.Errorf("unknown storage driver %q", storage.Driver())
	}
}

func NewPostgresStorage(config postgresConfig) (*SQLStorage, error) {
	db, err := sql.Open(driverPostgres, postgresDSN(config))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	logger.Info("connected to postgres", zap.String("host", config.Host()), zap.String("db", config.Database()))
	return newSQLStorage(db, postgresDialect), nil
}

// postgresDSN escapes every part, so credentials may hold spaces, quotes or '@'.
func postgresDSN(config postgresConfig) string {
	query := url.Values{}
	if mode := config.SSLMode(); mode != "" {
		query.Set("sslmode", mode)
	}
	dsn := url.URL{
		Scheme:   driverPostgres,
		User:     url.UserPassword(config.Username(), config.Password()),
		Host:     config.Host(),
		Path:     "/" + config.Database(),
		RawQuery: query.Encode(),
	}
	return dsn.String()
}

// NewSQLiteStorage opens (creating if needed) the database file at path.
// ":memory:" gives a private in-memory database limited to one connection.
func NewSQLiteStorage(path string) (*SQLStorage, error) {
	dsn := path + sqlitePragma
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, errors.Wrap(err, "creating database dir")
		}
		dsn += "&_pragma=journal_mode(wal)"
	}

	db, err := sql.Open(driverSQLite, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open sqlite database")
	}
	if path == memoryPath {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "cannot open sqlite database")
	}
	logger.Debug("opened sqlite database", zap.String("path", path))
	return newSQLStorage(db, sqliteDialect), nil
}

func newSQLStorage(db *sql.DB, d dialect) *SQLStorage {
	return &SQLStorage{
		scope: scope{
			run:  db,
			db:   db,
			psql: sq.StatementBuilder.PlaceholderFormat(d.placeholder),
		},
		dialect: d,
	}
}

// columnUpgrades lists columns added after the first release, with the
// definition used to add them to an existing table.
var columnUpgrades = []struct {
	table, column, definition string
}{
	{"recurring_expenses", "billing_day", "INTEGER NOT NULL DEFAULT 0"},
}

// Migrate creates missing tables and indexes and adds columns that older
// databases lack. Existing data is left as is.
func (s *SQLStorage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schema()); err != nil {
		return errors.Wrap(err, "create tables")
	}
	for _, u := range columnUpgrades {
		lookup := fmt.Sprintf("SELECT %s FROM %s LIMIT 0", u.column, u.table)
		if _, err := s.db.ExecContext(ctx, lookup); err == nil {
			continue
		}
		alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", u.table, u.column, u.definition)
		if _, err := s.db.ExecContext(ctx, alter); err != nil {
			return errors.Wrapf(err, "add column %s.%s", u.table, u.column)
		}
		logger.Info("added column", zap.String("table", u.table), zap.String("column", u.column))
	}
	logger.Info("database schema is up to date", zap.String("dialect", s.dialect.name))
	return nil
}

func (s *SQLStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}

// InTx runs fn inside a transaction, committing when fn returns nil.
func (s *SQLStorage) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	return inTx(ctx, s.db, func(run *sql.Tx) error {
		return fn(&Tx{scope{run: run, psql: s.psql}})
	})
}

func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		txErr := tx.Rollback()
		if txErr != nil && !errors.Is(txErr, sql.ErrTxDone) {
			logger.Error("error when transaction rollback", zap.Error(txErr))
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}
