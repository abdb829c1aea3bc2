package storage

import "max.ks1230/expense-tracker/internal/entity/ledger"

type kind int

const (
	kindInt kind = iota
	kindFloat
	kindText
	kindDate
)

type column struct {
	field string
	name  string
	kind  kind
}

// table maps one entity onto its SQL table. values and targets list the
// non-id columns in the same order as columns.
type table[T any] struct {
	entity   string
	name     string
	columns  []column
	id       func(*T) *int64
	values   func(*T) []any
	targets  func(*T) []any
	validate func(*T) error
}

func (t table[T]) columnNames() []string {
	names := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		names = append(names, c.name)
	}
	return names
}

func (t table[T]) selectColumns() []string {
	return append([]string{"id"}, t.columnNames()...)
}

func (t table[T]) scanTargets(item *T) []any {
	return append([]any{t.id(item)}, t.targets(item)...)
}

func (t table[T]) setMap(item *T) map[string]any {
	values := t.values(item)
	set := make(map[string]any, len(values))
	for i, c := range t.columns {
		set[c.name] = values[i]
	}
	return set
}

func (t table[T]) column(field string) (column, bool) {
	if field == "id" {
		return column{field: "id", name: "id", kind: kindInt}, true
	}
	for _, c := range t.columns {
		if c.field == field {
			return c, true
		}
	}
	return column{}, false
}

var accountsTable = table[ledger.Account]{
	entity: "Account",
	name:   "accounts",
	columns: []column{
		{"name", "name", kindText},
		{"balance", "balance", kindFloat},
	},
	id: func(a *ledger.Account) *int64 { return &a.ID },
	values: func(a *ledger.Account) []any {
		return []any{a.Name, a.Balance}
	},
	targets: func(a *ledger.Account) []any {
		return []any{&a.Name, &a.Balance}
	},
	validate: (*ledger.Account).Validate,
}

var categoriesTable = table[ledger.Category]{
	entity: "Category",
	name:   "categories",
	columns: []column{
		{"name", "name", kindText},
		{"description", "description", kindText},
	},
	id: func(c *ledger.Category) *int64 { return &c.ID },
	values: func(c *ledger.Category) []any {
		return []any{c.Name, c.Description}
	},
	targets: func(c *ledger.Category) []any {
		return []any{&c.Name, &c.Description}
	},
	validate: (*ledger.Category).Validate,
}

var budgetsTable = table[ledger.Budget]{
	entity: "Budget",
	name:   "budgets",
	columns: []column{
		{"name", "name", kindText},
		{"amount", "amount", kindFloat},
		{"category_id", "category_id", kindInt},
		{"start_date", "start_date", kindDate},
		{"end_date", "end_date", kindDate},
	},
	id: func(b *ledger.Budget) *int64 { return &b.ID },
	values: func(b *ledger.Budget) []any {
		return []any{b.Name, b.Amount, b.CategoryID, b.StartDate, b.EndDate}
	},
	targets: func(b *ledger.Budget) []any {
		return []any{&b.Name, &b.Amount, &b.CategoryID, &b.StartDate, &b.EndDate}
	},
	validate: (*ledger.Budget).Validate,
}

var transactionsTable = table[ledger.Transaction]{
	entity: "Transaction",
	name:   "transactions",
	columns: []column{
		{"name", "name", kindText},
		{"amount", "amount", kindFloat},
		{"account_id", "account_id", kindInt},
		{"category_id", "category_id", kindInt},
		{"date", "date", kindDate},
		{"type", "type", kindText},
		{"interval", "repeat_interval", kindText},
		{"billing_date", "billing_date", kindDate},
		{"description", "description", kindText},
	},
	id: func(t *ledger.Transaction) *int64 { return &t.ID },
	values: func(t *ledger.Transaction) []any {
		return []any{t.Name, t.Amount, t.AccountID, t.CategoryID, t.Date,
			string(t.Type), string(t.Interval), t.BillingDate, t.Description}
	},
	targets: func(t *ledger.Transaction) []any {
		return []any{&t.Name, &t.Amount, &t.AccountID, &t.CategoryID, &t.Date,
			(*string)(&t.Type), (*string)(&t.Interval), &t.BillingDate, &t.Description}
	},
	validate: (*ledger.Transaction).Validate,
}

var recurringTable = table[ledger.RecurringExpense]{
	entity: "Recurring expense",
	name:   "recurring_expenses",
	columns: []column{
		{"name", "name", kindText},
		{"amount", "amount", kindFloat},
		{"interval", "repeat_interval", kindText},
		{"billing_date", "billing_date", kindDate},
		{"billing_day", "billing_day", kindInt},
		{"category_id", "category_id", kindInt},
		{"account_id", "account_id", kindInt},
		{"description", "description", kindText},
	},
	id: func(r *ledger.RecurringExpense) *int64 { return &r.ID },
	values: func(r *ledger.RecurringExpense) []any {
		return []any{r.Name, r.Amount, string(r.Interval), r.BillingDate, r.BillingDay,
			r.CategoryID, r.AccountID, r.Description}
	},
	targets: func(r *ledger.RecurringExpense) []any {
		return []any{&r.Name, &r.Amount, (*string)(&r.Interval), &r.BillingDate, &r.BillingDay,
			&r.CategoryID, &r.AccountID, &r.Description}
	},
	validate: (*ledger.RecurringExpense).Validate,
}
