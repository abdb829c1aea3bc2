package storage

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/customerr"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Repo runs create, read, update, delete and filtered listing for one entity.
type Repo[T any] struct {
	scope scope
	table table[T]
}

func newRepo[T any](s scope, t table[T]) *Repo[T] {
	return &Repo[T]{scope: s, table: t}
}

// Entity is the human readable record name used in errors.
func (r *Repo[T]) Entity() string {
	return r.table.entity
}

func (r *Repo[T]) Create(ctx context.Context, item *T) error {
	if err := r.table.validate(item); err != nil {
		return err
	}
	query := r.scope.psql.Insert(r.table.name).
		Columns(r.table.columnNames()...).
		Values(r.table.values(item)...).
		Suffix("RETURNING id")

	err := query.RunWith(r.scope.run).QueryRowContext(ctx).Scan(r.table.id(item))
	if err != nil {
		return errors.Wrap(constraintError(err), "create "+r.table.name)
	}
	logger.Debug("record created", zap.String("table", r.table.name), zap.Int64("id", *r.table.id(item)))
	return nil
}

func (r *Repo[T]) Get(ctx context.Context, id int64) (*T, error) {
	query := r.scope.psql.Select(r.table.selectColumns()...).
		From(r.table.name).
		Where(sq.Eq{"id": id})

	var item T
	err := query.RunWith(r.scope.run).QueryRowContext(ctx).Scan(r.table.scanTargets(&item)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &customerr.NotFoundError{Entity: r.table.entity, ID: id}
	}
	if err != nil {
		return nil, errors.Wrap(err, "get "+r.table.name)
	}
	return &item, nil
}

// Update loads the record, lets apply change it and writes every column back.
// The id cannot be changed by apply.
func (r *Repo[T]) Update(ctx context.Context, id int64, apply func(*T) error) (*T, error) {
	if r.scope.db == nil {
		return r.update(ctx, id, apply)
	}

	var updated *T
	err := inTx(ctx, r.scope.db, func(tx *sql.Tx) error {
		var err error
		updated, err = newRepo(scope{run: tx, psql: r.scope.psql}, r.table).update(ctx, id, apply)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repo[T]) update(ctx context.Context, id int64, apply func(*T) error) (*T, error) {
	item, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = apply(item); err != nil {
		return nil, err
	}
	*r.table.id(item) = id
	if err = r.table.validate(item); err != nil {
		return nil, err
	}

	query := r.scope.psql.Update(r.table.name).
		SetMap(r.table.setMap(item)).
		Where(sq.Eq{"id": id})
	if _, err = query.RunWith(r.scope.run).ExecContext(ctx); err != nil {
		return nil, errors.Wrap(constraintError(err), "update "+r.table.name)
	}
	return item, nil
}

func (r *Repo[T]) Delete(ctx context.Context, id int64) error {
	query := r.scope.psql.Delete(r.table.name).Where(sq.Eq{"id": id})

	res, err := query.RunWith(r.scope.run).ExecContext(ctx)
	if err != nil {
		return errors.Wrap(constraintError(err), "delete "+r.table.name)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete "+r.table.name)
	}
	if affected == 0 {
		return &customerr.NotFoundError{Entity: r.table.entity, ID: id}
	}
	return nil
}

// List returns one page of records ordered by id and the total record count.
func (r *Repo[T]) List(ctx context.Context, page Page) ([]T, int, error) {
	return r.Query(ctx, page)
}

// Query is List narrowed by filters, all of which must match.
func (r *Repo[T]) Query(ctx context.Context, page Page, filters ...Filter) ([]T, int, error) {
	where := make(sq.And, 0, len(filters))
	for _, f := range filters {
		col, ok := r.table.column(f.Field)
		if !ok {
			return nil, 0, customerr.Invalid(f.Field, "unknown field for %s", r.table.name)
		}
		cond, err := f.sqlizer(col.name)
		if err != nil {
			return nil, 0, err
		}
		where = append(where, cond)
	}

	count := r.scope.psql.Select("COUNT(*)").From(r.table.name)
	if len(where) > 0 {
		count = count.Where(where)
	}
	var total int
	if err := count.RunWith(r.scope.run).QueryRowContext(ctx).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count "+r.table.name)
	}

	query := r.scope.psql.Select(r.table.selectColumns()...).
		From(r.table.name).
		OrderBy("id")
	if len(where) > 0 {
		query = query.Where(where)
	}
	if page.Size > 0 {
		query = query.Limit(uint64(page.Size)).Offset(page.offset())
	}

	items, err := r.scan(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ParseFilter reads "op:value" (or a bare value for equality) for field,
// converting the value to the field's type. "in" takes a comma separated list.
func (r *Repo[T]) ParseFilter(field, expr string) (Filter, error) {
	col, ok := r.table.column(field)
	if !ok {
		return Filter{}, customerr.Invalid(field, "unknown field for %s", r.table.name)
	}
	return parseFilter(col, field, expr)
}

func (r *Repo[T]) scan(ctx context.Context, query sq.SelectBuilder) ([]T, error) {
	rows, err := query.RunWith(r.scope.run).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list "+r.table.name)
	}
	defer func() {
		rowErr := rows.Close()
		if rowErr != nil {
			logger.Error("error closing rows", zap.Error(rowErr))
		}
	}()

	items := make([]T, 0)
	for rows.Next() {
		var item T
		if err = rows.Scan(r.table.scanTargets(&item)...); err != nil {
			return nil, errors.Wrap(err, "list "+r.table.name)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list "+r.table.name)
	}
	return items, nil
}

// constraintError marks integrity violations of both backends as conflicts.
func constraintError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		return &customerr.ConflictError{Err: err}
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return &customerr.ConflictError{Err: err}
	}
	return err
}
