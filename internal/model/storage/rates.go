package storage

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"max.ks1230/expense-tracker/internal/entity/currency"
	"max.ks1230/expense-tracker/internal/model/customerr"
)

// GetRate returns the latest value of a currency. A currency that is unknown
// or has not been pulled yet is reported as a validation error on "currency".
func (s *SQLStorage) GetRate(ctx context.Context, name string) (currency.Rate, error) {
	query := s.psql.Select("name", "base_rate", "is_set", "updated_at").
		From("rates").
		Where(sq.Eq{"name": name}).
		OrderBy("id DESC").
		Limit(1)

	var (
		res     currency.Rate
		updated string
	)
	err := query.RunWith(s.run).QueryRowContext(ctx).Scan(&res.Name, &res.BaseRate, &res.Set, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return currency.Rate{}, rateUnavailable(name)
	}
	if err != nil {
		return currency.Rate{}, errors.Wrap(err, "get rate "+name)
	}
	if !res.Set {
		return currency.Rate{}, rateUnavailable(name)
	}
	res.UpdatedAt, err = time.Parse(time.RFC3339, updated)
	if err != nil {
		return currency.Rate{}, errors.Wrap(err, "get rate "+name)
	}
	return res, nil
}

// NewRate registers a currency without a value unless it is already known.
func (s *SQLStorage) NewRate(ctx context.Context, name string) error {
	var known int
	err := s.psql.Select("COUNT(*)").
		From("rates").
		Where(sq.Eq{"name": name}).
		RunWith(s.run).QueryRowContext(ctx).Scan(&known)
	if err != nil {
		return errors.Wrap(err, "new rate")
	}
	if known > 0 {
		return nil
	}

	query := s.psql.Insert("rates").
		Columns("name", "base_rate", "is_set", "updated_at").
		Values(name, 0, false, now())
	_, err = query.RunWith(s.run).ExecContext(ctx)
	return errors.Wrap(err, "new rate")
}

// UpdateRateValue appends a new value; GetRate reads the latest one.
func (s *SQLStorage) UpdateRateValue(ctx context.Context, name string, val float64) error {
	query := s.psql.Insert("rates").
		Columns("name", "base_rate", "is_set", "updated_at").
		Values(name, val, true, now())
	_, err := query.RunWith(s.run).ExecContext(ctx)
	return errors.Wrap(err, "update rate")
}

func rateUnavailable(name string) error {
	return customerr.Invalid("currency", "rate for %s is not available yet", name)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
