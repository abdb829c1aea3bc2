package ledger

import "time"

const (
	EntityAccount          = "account"
	EntityCategory         = "category"
	EntityBudget           = "budget"
	EntityTransaction      = "transaction"
	EntityRecurringExpense = "recurring_expense"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpImport Op = "import"
)

// Change describes one committed write. CategoryID is set for records that
// belong to a category so budget watchers can narrow their work.
type Change struct {
	Entity     string
	Op         Op
	ID         int64
	CategoryID int64
	Type       TransactionType
	At         time.Time
}
