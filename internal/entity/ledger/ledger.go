// Package ledger holds the tracker's records: accounts, categories, budgets,
// transactions and recurring expenses.
package ledger

import (
	"max.ks1230/expense-tracker/internal/model/customerr"
	"max.ks1230/expense-tracker/internal/model/validation"
)

const (
	maxNameLength        = 255
	maxDescriptionLength = 1000
)

// Length limits of the text fields, shared with the input prompts.
var (
	NameLimits         = validation.Between(1, maxNameLength)
	OptionalNameLimits = validation.AtMost(maxNameLength)
	DescriptionLimits  = validation.AtMost(maxDescriptionLength)
)

// Account contains checking, savings and credit card accounts.
type Account struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

func (a *Account) Validate() error {
	return checkLength("name", a.Name, NameLimits)
}

// Category classifies transactions.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *Category) Validate() error {
	if err := checkLength("name", c.Name, NameLimits); err != nil {
		return err
	}
	return checkLength("description", c.Description, DescriptionLimits)
}

// Budget caps spending in one category. A missing start or end date means
// the current calendar month bound is used in reports.
type Budget struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	CategoryID int64   `json:"category_id"`
	StartDate  Date    `json:"start_date"`
	EndDate    Date    `json:"end_date"`
}

func (b *Budget) Validate() error {
	if err := checkLength("name", b.Name, OptionalNameLimits); err != nil {
		return err
	}
	if b.Amount < 0 {
		return customerr.Invalid("amount", "must not be negative")
	}
	if b.CategoryID <= 0 {
		return customerr.Invalid("category_id", "is required")
	}
	if !b.StartDate.IsZero() && !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
		return customerr.Invalid("end_date", "must not be before start_date")
	}
	return nil
}

// Transaction is a manually entered, imported or materialized money movement.
type Transaction struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Amount      float64         `json:"amount"`
	AccountID   int64           `json:"account_id"`
	CategoryID  int64           `json:"category_id"`
	Date        Date            `json:"date"`
	Type        TransactionType `json:"type"`
	Interval    IntervalType    `json:"interval"`
	BillingDate Date            `json:"billing_date"`
	Description string          `json:"description"`
}

func (t *Transaction) Validate() error {
	if t.Interval == "" {
		t.Interval = Once
	}
	if err := checkLength("name", t.Name, NameLimits); err != nil {
		return err
	}
	if t.Amount <= 0 {
		return customerr.Invalid("amount", "must be positive")
	}
	if t.AccountID <= 0 {
		return customerr.Invalid("account_id", "is required")
	}
	if t.CategoryID <= 0 {
		return customerr.Invalid("category_id", "is required")
	}
	if t.Date.IsZero() {
		return customerr.Invalid("date", "is required")
	}
	if !t.Type.Valid() {
		return customerr.Invalid("type", "unknown transaction type %q", t.Type)
	}
	if !t.Interval.Valid() {
		return customerr.Invalid("interval", "unknown interval %q", t.Interval)
	}
	return checkLength("description", t.Description, DescriptionLimits)
}

// RecurringExpense is a subscription or bill charged every Interval,
// next on BillingDate. BillingDay is the day of month monthly based
// intervals return to after a shorter month moved BillingDate earlier.
type RecurringExpense struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Amount      float64      `json:"amount"`
	Interval    IntervalType `json:"interval"`
	BillingDate Date         `json:"billing_date"`
	BillingDay  int          `json:"billing_day"`
	CategoryID  int64        `json:"category_id"`
	AccountID   int64        `json:"account_id"`
	Description string       `json:"description"`
}

func (r *RecurringExpense) Validate() error {
	if err := checkLength("name", r.Name, NameLimits); err != nil {
		return err
	}
	if r.Amount <= 0 {
		return customerr.Invalid("amount", "must be positive")
	}
	if !r.Interval.Valid() || r.Interval == Once {
		return customerr.Invalid("interval", "must be a repeating interval, got %q", r.Interval)
	}
	if r.BillingDate.IsZero() {
		return customerr.Invalid("billing_date", "is required")
	}
	r.syncBillingDay()
	if r.AccountID <= 0 {
		return customerr.Invalid("account_id", "is required")
	}
	if r.CategoryID <= 0 {
		return customerr.Invalid("category_id", "is required")
	}
	return checkLength("description", r.Description, DescriptionLimits)
}

// syncBillingDay keeps BillingDay only while BillingDate is that day or a
// month end clamped from it; any other date restarts the schedule on its day.
func (r *RecurringExpense) syncBillingDay() {
	day := r.BillingDate.Day()
	if r.BillingDay == day {
		return
	}
	if r.BillingDay > day && r.BillingDay <= 31 && r.BillingDate.IsMonthEnd() {
		return
	}
	r.BillingDay = day
}

// Advance moves BillingDate to the next occurrence.
func (r *RecurringExpense) Advance() {
	r.BillingDate = r.Interval.NextOn(r.BillingDate, r.BillingDay)
}

// Occurrence builds the expense transaction charged on the current billing date.
func (r *RecurringExpense) Occurrence() Transaction {
	return Transaction{
		Name:        r.Name,
		Amount:      r.Amount,
		AccountID:   r.AccountID,
		CategoryID:  r.CategoryID,
		Date:        r.BillingDate,
		Type:        Expense,
		Interval:    r.Interval,
		BillingDate: r.BillingDate,
		Description: r.Description,
	}
}

func checkLength(field, value string, limits validation.Limits[int]) error {
	if !validation.CheckStringLength(value, limits) {
		return &customerr.ValidationError{Field: field, Msg: validation.StringMessage(value, limits)}
	}
	return nil
}
