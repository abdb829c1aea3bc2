package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/model/reports"
)

func Test_RenderTable(t *testing.T) {
	out := RenderTable(Table{
		Headers:    []string{"Name", "Amount"},
		Rows:       [][]string{{"Coffee", "3.50"}, {separatorRow}, {"Total", "13.50"}},
		RightAlign: map[int]bool{1: true},
	})

	assert.Contains(t, out, "Coffee")
	assert.Contains(t, out, "13.50")
	assert.Equal(t, 7, strings.Count(out, "\n"))
}

func Test_RenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(Table{}))
}

func Test_RenderCategoryReport(t *testing.T) {
	out := RenderCategoryReport(&reports.CategoryReport{
		Currency: "USD",
		Records: []reports.CategoryTotal{
			{CategoryID: 1, Category: "Food", Amount: decimal.NewFromFloat(12.5)},
		},
		Total: decimal.NewFromFloat(12.5),
	})

	assert.Contains(t, out, "all time")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "12.50")
}

func Test_RenderBudgetStatuses(t *testing.T) {
	assert.Equal(t, "No budgets found.\n", RenderBudgetStatuses(nil))

	out := RenderBudgetStatuses([]reports.BudgetStatus{{
		Name:        "Groceries",
		Category:    "Food",
		From:        ledger.NewDate(2024, time.May, 1),
		To:          ledger.NewDate(2024, time.May, 31),
		Amount:      decimal.NewFromInt(100),
		Spent:       decimal.NewFromInt(120),
		Remaining:   decimal.NewFromInt(-20),
		UsedPercent: decimal.NewFromInt(120),
		Exceeded:    true,
	}})
	assert.Contains(t, out, "2024-05-01 .. 2024-05-31")
	assert.Contains(t, out, "120.0%")
	assert.Contains(t, out, "exceeded")
}
