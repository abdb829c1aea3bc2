package cli

import (
	"context"
	"strconv"

	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/model/book"
	"max.ks1230/expense-tracker/internal/model/storage"
	"max.ks1230/expense-tracker/internal/model/validation"
)

type collection[T any] interface {
	Entity() string
	List(ctx context.Context, page storage.Page) ([]T, int, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, id int64, apply func(*T) error) (*T, error)
	Delete(ctx context.Context, id int64) error
}

type manager interface {
	Title() string
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Update(ctx context.Context) error
	Delete(ctx context.Context) error
}

// entityManager runs the list/add/update/delete dialogs of one record type.
type entityManager[T any] struct {
	title   string
	p       *Prompter
	coll    collection[T]
	headers []string
	numeric map[int]bool
	row     func(*T) []string
	fill    func(p *Prompter, item *T) error
}

func (m *entityManager[T]) Title() string {
	return m.title
}

func (m *entityManager[T]) List(ctx context.Context) error {
	items, total, err := m.coll.List(ctx, storage.AllRows)
	if err != nil {
		return err
	}
	if total == 0 {
		m.p.Printf("No %s found.\n", m.title)
		return nil
	}

	rows := make([][]string, 0, len(items))
	for i := range items {
		rows = append(rows, m.row(&items[i]))
	}
	m.p.Printf("%s", RenderTable(Table{
		Title:      m.title,
		Headers:    m.headers,
		Rows:       rows,
		RightAlign: m.numeric,
	}))
	return nil
}

func (m *entityManager[T]) Add(ctx context.Context) error {
	var item T
	if err := m.fill(m.p, &item); err != nil {
		return err
	}
	if err := m.coll.Create(ctx, &item); err != nil {
		return err
	}
	m.p.Printf("%s added.\n", m.coll.Entity())
	return nil
}

func (m *entityManager[T]) Update(ctx context.Context) error {
	id, err := m.askID()
	if err != nil {
		return err
	}
	current, err := m.coll.Get(ctx, id)
	if err != nil {
		return err
	}
	m.p.Printf("%s", RenderTable(Table{Headers: m.headers, Rows: [][]string{m.row(current)}, RightAlign: m.numeric}))

	next := *current
	if err = m.fill(m.p, &next); err != nil {
		return err
	}
	_, err = m.coll.Update(ctx, id, func(item *T) error {
		*item = next
		return nil
	})
	if err != nil {
		return err
	}
	m.p.Printf("%s %d updated.\n", m.coll.Entity(), id)
	return nil
}

func (m *entityManager[T]) Delete(ctx context.Context) error {
	id, err := m.askID()
	if err != nil {
		return err
	}
	if err = m.coll.Delete(ctx, id); err != nil {
		return err
	}
	m.p.Printf("%s %d deleted.\n", m.coll.Entity(), id)
	return nil
}

func (m *entityManager[T]) askID() (int64, error) {
	id, err := m.p.Int("Enter the "+m.coll.Entity()+" ID: ", validation.AtLeast(1))
	return int64(id), err
}

func managers(b *book.Book, p *Prompter) []manager {
	return []manager{
		&entityManager[ledger.Account]{
			title:   "Accounts",
			p:       p,
			coll:    b.Accounts,
			headers: []string{"ID", "Name", "Balance"},
			numeric: map[int]bool{0: true, 2: true},
			row: func(a *ledger.Account) []string {
				return []string{id(a.ID), a.Name, FormatMoney(a.Balance)}
			},
			fill: fillAccount,
		},
		&entityManager[ledger.Budget]{
			title:   "Budgets",
			p:       p,
			coll:    b.Budgets,
			headers: []string{"ID", "Name", "Amount", "Category", "Start", "End"},
			numeric: map[int]bool{0: true, 2: true, 3: true},
			row: func(bg *ledger.Budget) []string {
				return []string{id(bg.ID), bg.Name, FormatMoney(bg.Amount), id(bg.CategoryID), bg.StartDate.String(), bg.EndDate.String()}
			},
			fill: fillBudget,
		},
		&entityManager[ledger.Category]{
			title:   "Categories",
			p:       p,
			coll:    b.Categories,
			headers: []string{"ID", "Name", "Description"},
			numeric: map[int]bool{0: true},
			row: func(c *ledger.Category) []string {
				return []string{id(c.ID), c.Name, c.Description}
			},
			fill: fillCategory,
		},
		&entityManager[ledger.RecurringExpense]{
			title:   "Recurring Expenses",
			p:       p,
			coll:    b.RecurringExpenses,
			headers: []string{"ID", "Name", "Amount", "Interval", "Billing date", "Category", "Account"},
			numeric: map[int]bool{0: true, 2: true, 5: true, 6: true},
			row: func(r *ledger.RecurringExpense) []string {
				return []string{id(r.ID), r.Name, FormatMoney(r.Amount), string(r.Interval), r.BillingDate.String(), id(r.CategoryID), id(r.AccountID)}
			},
			fill: fillRecurring,
		},
		&entityManager[ledger.Transaction]{
			title:   "Transactions",
			p:       p,
			coll:    b.Transactions,
			headers: []string{"ID", "Date", "Name", "Type", "Amount", "Account", "Category"},
			numeric: map[int]bool{0: true, 4: true, 5: true, 6: true},
			row: func(t *ledger.Transaction) []string {
				return []string{id(t.ID), t.Date.String(), t.Name, string(t.Type), FormatMoney(t.Amount), id(t.AccountID), id(t.CategoryID)}
			},
			fill: fillTransaction,
		},
	}
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

var (
	positiveAmount = validation.AtLeast(0.01)
	refLimits      = validation.AtLeast(1)
)

func fillAccount(p *Prompter, a *ledger.Account) (err error) {
	if a.Name, err = p.String("Account name: ", ledger.NameLimits); err != nil {
		return err
	}
	a.Balance, err = p.Float("Balance: ", validation.Unbounded[float64]())
	return err
}

func fillCategory(p *Prompter, c *ledger.Category) (err error) {
	if c.Name, err = p.String("Category name: ", ledger.NameLimits); err != nil {
		return err
	}
	c.Description, err = p.String("Description: ", ledger.DescriptionLimits)
	return err
}

func fillBudget(p *Prompter, b *ledger.Budget) (err error) {
	if b.Name, err = p.String("Budget name: ", ledger.OptionalNameLimits); err != nil {
		return err
	}
	if b.Amount, err = p.Float("Amount: ", validation.AtLeast(0.0)); err != nil {
		return err
	}
	if b.CategoryID, err = askRef(p, "Category ID: "); err != nil {
		return err
	}
	if b.StartDate, err = p.OptionalDate("Start date (YYYY-MM-DD, empty for none): "); err != nil {
		return err
	}
	b.EndDate, err = p.OptionalDate("End date (YYYY-MM-DD, empty for none): ")
	return err
}

func fillTransaction(p *Prompter, t *ledger.Transaction) (err error) {
	if t.Name, err = p.String("Transaction name: ", ledger.NameLimits); err != nil {
		return err
	}
	if t.Amount, err = p.Float("Amount: ", positiveAmount); err != nil {
		return err
	}
	if t.AccountID, err = askRef(p, "Account ID: "); err != nil {
		return err
	}
	if t.CategoryID, err = askRef(p, "Category ID: "); err != nil {
		return err
	}
	if t.Date, err = p.Date("Date (YYYY-MM-DD): "); err != nil {
		return err
	}

	typ, err := p.Choice("Type: ", enumNames(ledger.TransactionTypes))
	if err != nil {
		return err
	}
	t.Type = ledger.TransactionType(typ)

	interval, err := p.Choice("Interval: ", enumNames(ledger.IntervalTypes))
	if err != nil {
		return err
	}
	t.Interval = ledger.IntervalType(interval)

	if t.BillingDate, err = p.OptionalDate("Billing date (YYYY-MM-DD, empty for none): "); err != nil {
		return err
	}
	t.Description, err = p.String("Description: ", ledger.DescriptionLimits)
	return err
}

func fillRecurring(p *Prompter, r *ledger.RecurringExpense) (err error) {
	if r.Name, err = p.String("Expense name: ", ledger.NameLimits); err != nil {
		return err
	}
	if r.Amount, err = p.Float("Amount: ", positiveAmount); err != nil {
		return err
	}

	interval, err := p.Choice("Interval: ", enumNames(ledger.IntervalTypes[1:]))
	if err != nil {
		return err
	}
	r.Interval = ledger.IntervalType(interval)

	if r.BillingDate, err = p.Date("Next billing date (YYYY-MM-DD): "); err != nil {
		return err
	}
	if r.CategoryID, err = askRef(p, "Category ID: "); err != nil {
		return err
	}
	if r.AccountID, err = askRef(p, "Account ID: "); err != nil {
		return err
	}
	r.Description, err = p.String("Description: ", ledger.DescriptionLimits)
	return err
}

func askRef(p *Prompter, prompt string) (int64, error) {
	v, err := p.Int(prompt, refLimits)
	return int64(v), err
}

func enumNames[E ~string](values []E) []string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, string(v))
	}
	return names
}
