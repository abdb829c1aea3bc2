package messages

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/model/customerr"
	"max.ks1230/expense-tracker/internal/model/reports"
)

const dateLayout = "02.01.2006"

const (
	dontUnderstandMessage = "I don't understand you :("
	helloMessage          = "Hello! I am your expense tracker bot 🤖\nSend /help to see what I can do."
	helpMessage           = `/expense <category> <amount> [dd.mm.yyyy] - add an expense
/report [week|month|year] [currency] - spending by category
/budgets - how much of every budget is used`
	loveToTalkMessage = "I would love to talk about it more!"
	okMessage         = "Gotcha!"
	noExpensesMessage = "You have no expenses yet"
	noBudgetsMessage  = "You have no budgets yet"

	incorrectUsageMessage    = "That is an incorrect command usage"
	incorrectExpenseMessage  = "Your expense amount is incorrect"
	incorrectDateMessage     = "The date is incorrect. Should be dd.mm.yyyy"
	noAccountMessage         = "No default account is configured for expenses"
	cannotGetExpensesMessage = "Can't get your expenses atm. Try later"
	cannotSaveExpenseMessage = "Can't save your expense atm. Try later"
)

const (
	startCommand   = "/start"
	helpCommand    = "/help"
	expenseCommand = "/expense"
	reportCommand  = "/report"
	budgetsCommand = "/budgets"
)

type ledgerBook interface {
	EnsureCategory(ctx context.Context, name string) (*ledger.Category, error)
	AddTransaction(ctx context.Context, tx *ledger.Transaction) error
}

type reporter interface {
	CategoryReport(ctx context.Context, period, curr string) (*reports.CategoryReport, error)
	BudgetStatuses(ctx context.Context) ([]reports.BudgetStatus, error)
}

type config interface {
	DefaultAccountID() int64
}

type handler func(ctx context.Context, arg string, user int64) (string, error)

type handlerMap map[string]handler

type HandlerService struct {
	handlersMap handlerMap
	book        ledgerBook
	reporter    reporter
	accountID   int64
	today       func() time.Time
}

func newHandler(book ledgerBook, reporter reporter, config config) *HandlerService {
	res := &HandlerService{
		book:      book,
		reporter:  reporter,
		accountID: config.DefaultAccountID(),
		today:     time.Now,
	}
	res.handlersMap = newMap(res)
	return res
}

func (s *HandlerService) HandleMessage(ctx context.Context, text string, userID int64) (string, error) {
	cmd, arg := parseCommand(text)

	handler, ok := s.handlersMap[strings.ToLower(cmd)]
	if ok {
		return handler(ctx, arg, userID)
	}
	return dontUnderstandMessage, nil
}

func newMap(s *HandlerService) handlerMap {
	m := make(handlerMap)
	m[startCommand] = s.handleStart
	m[helpCommand] = s.handleHelp
	m[expenseCommand] = s.handleExpense
	m[reportCommand] = s.handleReport
	m[budgetsCommand] = s.handleBudgets

	m[""] = s.handleNoCommand

	return m
}

func (s *HandlerService) handleStart(context.Context, string, int64) (string, error) {
	return helloMessage, nil
}

func (s *HandlerService) handleHelp(context.Context, string, int64) (string, error) {
	return helpMessage, nil
}

func (s *HandlerService) handleExpense(ctx context.Context, arg string, _ int64) (string, error) {
	args := strings.Fields(arg)
	if len(args) < 2 || len(args) > 3 {
		return incorrectUsageMessage, nil
	}
	amount, err := strconv.ParseFloat(strings.Replace(args[1], ",", ".", 1), 64)
	if err != nil || amount <= 0 {
		return incorrectExpenseMessage, nil
	}
	date := ledger.DateOf(s.today())
	if len(args) > 2 {
		t, err := time.Parse(dateLayout, args[2])
		if err != nil {
			return incorrectDateMessage, nil
		}
		date = ledger.DateOf(t)
	}
	if s.accountID <= 0 {
		return noAccountMessage, nil
	}

	category, err := s.book.EnsureCategory(ctx, args[0])
	if err != nil {
		return cannotSaveExpenseMessage, errors.Wrap(err, "handle expense")
	}
	expense := ledger.Transaction{
		Name:       category.Name,
		Amount:     amount,
		AccountID:  s.accountID,
		CategoryID: category.ID,
		Date:       date,
		Type:       ledger.Expense,
	}
	err = s.book.AddTransaction(ctx, &expense)
	if customerr.IsValidation(err) {
		return err.Error(), nil
	}
	if err != nil {
		return cannotSaveExpenseMessage, errors.Wrap(err, "handle expense")
	}
	return okMessage, nil
}

func (s *HandlerService) handleReport(ctx context.Context, arg string, _ int64) (string, error) {
	args := strings.Fields(arg)
	if len(args) > 2 {
		return incorrectUsageMessage, nil
	}
	period, curr := "", ""
	if len(args) > 0 {
		period = args[0]
	}
	if len(args) > 1 {
		curr = args[1]
	}

	report, err := s.reporter.CategoryReport(ctx, period, curr)
	var verr *customerr.ValidationError
	if errors.As(err, &verr) {
		if verr.Field == "period" {
			return incorrectPeriodMessage(), nil
		}
		return verr.Error(), nil
	}
	if err != nil {
		return cannotGetExpensesMessage, errors.Wrap(err, "handle report")
	}
	if len(report.Records) == 0 {
		return noExpensesMessage, nil
	}
	return formatReport(report), nil
}

func (s *HandlerService) handleBudgets(ctx context.Context, _ string, _ int64) (string, error) {
	statuses, err := s.reporter.BudgetStatuses(ctx)
	if err != nil {
		return cannotGetExpensesMessage, errors.Wrap(err, "handle budgets")
	}
	if len(statuses) == 0 {
		return noBudgetsMessage, nil
	}

	lines := make([]string, 0, len(statuses))
	for _, st := range statuses {
		lines = append(lines, FormatBudgetStatus(st))
	}
	return strings.Join(lines, "\n"), nil
}

func (s *HandlerService) handleNoCommand(context.Context, string, int64) (string, error) {
	return loveToTalkMessage, nil
}

func incorrectPeriodMessage() string {
	return "Unknown period. Use " + strings.Join(reports.Periods(), ", ")
}

// FormatBudgetStatus renders one budget as a single chat line.
func FormatBudgetStatus(st reports.BudgetStatus) string {
	name := st.Name
	if name == "" {
		name = st.Category
	}
	mark := "✅"
	if st.Exceeded {
		mark = "⚠️"
	}
	return fmt.Sprintf("%s %s: %s of %s (%s%%) %s..%s",
		mark, name, st.Spent.StringFixed(2), st.Amount.StringFixed(2),
		st.UsedPercent.String(), st.From, st.To)
}
