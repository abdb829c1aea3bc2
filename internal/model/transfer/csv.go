// Package transfer moves transactions in and out of CSV files.
package transfer

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/customerr"
)

var header = []string{
	"id", "name", "amount", "account_id", "category_id", "date",
	"type", "interval", "billing_date", "description",
}

var required = []string{"name", "amount", "account_id", "category_id", "date", "type"}

type transactionSource interface {
	TransactionsBetween(ctx context.Context, from, to ledger.Date, typ ledger.TransactionType) ([]ledger.Transaction, error)
}

type importer interface {
	ImportTransactions(ctx context.Context, items []ledger.Transaction) (int, error)
}

// Export writes transactions dated within [from, to] as CSV with a header row.
// Zero bounds are open.
func Export(ctx context.Context, w io.Writer, source transactionSource, from, to ledger.Date) (int, error) {
	txs, err := source.TransactionsBetween(ctx, from, to, "")
	if err != nil {
		return 0, errors.Wrap(err, "export transactions")
	}

	cw := csv.NewWriter(w)
	if err = cw.Write(header); err != nil {
		return 0, errors.Wrap(err, "export transactions")
	}
	for _, tx := range txs {
		if err = cw.Write(record(tx)); err != nil {
			return 0, errors.Wrap(err, "export transactions")
		}
	}
	cw.Flush()
	if err = cw.Error(); err != nil {
		return 0, errors.Wrap(err, "export transactions")
	}
	logger.Info("transactions exported", zap.Int("count", len(txs)))
	return len(txs), nil
}

func record(tx ledger.Transaction) []string {
	return []string{
		strconv.FormatInt(tx.ID, 10),
		tx.Name,
		strconv.FormatFloat(tx.Amount, 'f', -1, 64),
		strconv.FormatInt(tx.AccountID, 10),
		strconv.FormatInt(tx.CategoryID, 10),
		tx.Date.String(),
		string(tx.Type),
		string(tx.Interval),
		tx.BillingDate.String(),
		tx.Description,
	}
}

// Read parses CSV produced by Export. Columns are matched by header name and
// the id column is ignored; every row gets a new id on import.
func Read(r io.Reader) ([]ledger.Transaction, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, customerr.Invalid("csv", "header row is missing")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	index := make(map[string]int, len(head))
	for i, name := range head {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, customerr.Invalid("csv", "column %s is missing", name)
		}
	}

	var txs []ledger.Transaction
	for row := 2; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", row)
		}
		tx, err := parseRow(index, fields)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", row)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Import reads r and stores every row, or none if any row is invalid.
func Import(ctx context.Context, r io.Reader, dst importer) (int, error) {
	txs, err := Read(r)
	if err != nil {
		return 0, err
	}
	return dst.ImportTransactions(ctx, txs)
}

func parseRow(index map[string]int, fields []string) (ledger.Transaction, error) {
	get := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	var (
		tx  ledger.Transaction
		err error
	)
	tx.Name = get("name")
	tx.Description = get("description")
	tx.Type = ledger.TransactionType(strings.ToUpper(get("type")))
	tx.Interval = ledger.IntervalType(strings.ToUpper(get("interval")))

	if tx.Amount, err = strconv.ParseFloat(get("amount"), 64); err != nil {
		return tx, customerr.Invalid("amount", "%q is not a number", get("amount"))
	}
	if tx.AccountID, err = strconv.ParseInt(get("account_id"), 10, 64); err != nil {
		return tx, customerr.Invalid("account_id", "%q is not an id", get("account_id"))
	}
	if tx.CategoryID, err = strconv.ParseInt(get("category_id"), 10, 64); err != nil {
		return tx, customerr.Invalid("category_id", "%q is not an id", get("category_id"))
	}
	if tx.Date, err = ledger.ParseDate(get("date")); err != nil {
		return tx, customerr.Invalid("date", "%q is not a YYYY-MM-DD date", get("date"))
	}
	if billing := get("billing_date"); billing != "" {
		if tx.BillingDate, err = ledger.ParseDate(billing); err != nil {
			return tx, customerr.Invalid("billing_date", "%q is not a YYYY-MM-DD date", billing)
		}
	}
	return tx, tx.Validate()
}
