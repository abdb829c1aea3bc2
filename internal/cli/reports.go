package cli

import (
	"fmt"

	"max.ks1230/expense-tracker/internal/model/reports"
)

func RenderCategoryReport(r *reports.CategoryReport) string {
	period := r.Period
	if period == "" {
		period = "all time"
	}
	title := fmt.Sprintf("Expenses by category, %s (%s)", period, r.Currency)

	rows := make([][]string, 0, len(r.Records)+2)
	for _, rec := range r.Records {
		rows = append(rows, []string{rec.Category, rec.Amount.StringFixed(2)})
	}
	rows = append(rows, []string{separatorRow}, []string{"Total", r.Total.StringFixed(2)})

	return RenderTable(Table{
		Title:      title,
		Headers:    []string{"Category", "Amount"},
		Rows:       rows,
		RightAlign: map[int]bool{1: true},
	})
}

func RenderBudgetStatuses(statuses []reports.BudgetStatus) string {
	if len(statuses) == 0 {
		return "No budgets found.\n"
	}

	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		state := "ok"
		if s.Exceeded {
			state = RenderAlert("exceeded")
		}
		rows = append(rows, []string{
			s.Name,
			s.Category,
			s.From.String() + " .. " + s.To.String(),
			s.Amount.StringFixed(2),
			s.Spent.StringFixed(2),
			s.Remaining.StringFixed(2),
			s.UsedPercent.StringFixed(1) + "%",
			state,
		})
	}
	return RenderTable(Table{
		Title:      "Budgets",
		Headers:    []string{"Budget", "Category", "Window", "Amount", "Spent", "Remaining", "Used", "State"},
		Rows:       rows,
		RightAlign: map[int]bool{3: true, 4: true, 5: true, 6: true},
	})
}
