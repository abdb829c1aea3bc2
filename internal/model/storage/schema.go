package storage

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS accounts (
    id              {{id}},
    name            TEXT NOT NULL,
    balance         {{real}} NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS categories (
    id              {{id}},
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS budgets (
    id              {{id}},
    name            TEXT NOT NULL DEFAULT '',
    amount          {{real}} NOT NULL DEFAULT 0,
    category_id     {{ref}} NOT NULL REFERENCES categories(id),
    start_date      TEXT,
    end_date        TEXT
);

CREATE TABLE IF NOT EXISTS transactions (
    id              {{id}},
    name            TEXT NOT NULL,
    amount          {{real}} NOT NULL,
    account_id      {{ref}} NOT NULL REFERENCES accounts(id),
    category_id     {{ref}} NOT NULL REFERENCES categories(id),
    date            TEXT NOT NULL,
    type            TEXT NOT NULL,
    repeat_interval TEXT NOT NULL DEFAULT 'ONCE',
    billing_date    TEXT,
    description     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS recurring_expenses (
    id              {{id}},
    name            TEXT NOT NULL,
    amount          {{real}} NOT NULL,
    repeat_interval TEXT NOT NULL,
    billing_date    TEXT NOT NULL,
    billing_day     INTEGER NOT NULL DEFAULT 0,
    category_id     {{ref}} NOT NULL REFERENCES categories(id),
    account_id      {{ref}} NOT NULL REFERENCES accounts(id),
    description     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS rates (
    id              {{id}},
    name            TEXT NOT NULL,
    base_rate       {{real}} NOT NULL DEFAULT 0,
    is_set          {{bool}} NOT NULL DEFAULT {{false}},
    updated_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category_id);
CREATE INDEX IF NOT EXISTS idx_budgets_category ON budgets(category_id);
CREATE INDEX IF NOT EXISTS idx_rates_name ON rates(name);
`

type dialect struct {
	name        string
	placeholder sq.PlaceholderFormat
	types       *strings.Replacer
}

var (
	sqliteDialect = dialect{
		name:        "sqlite",
		placeholder: sq.Question,
		types: strings.NewReplacer(
			"{{id}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
			"{{ref}}", "INTEGER",
			"{{real}}", "REAL",
			"{{bool}}", "INTEGER",
			"{{false}}", "0",
		),
	}
	postgresDialect = dialect{
		name:        "postgres",
		placeholder: sq.Dollar,
		types: strings.NewReplacer(
			"{{id}}", "BIGSERIAL PRIMARY KEY",
			"{{ref}}", "BIGINT",
			"{{real}}", "DOUBLE PRECISION",
			"{{bool}}", "BOOLEAN",
			"{{false}}", "FALSE",
		),
	}
)

func (d dialect) schema() string {
	return d.types.Replace(schemaSQL)
}
