package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"max.ks1230/expense-tracker/internal/cli"
)

var (
	flagPeriod   string
	flagCurrency string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print spending reports",
}

var reportCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Expenses grouped by category",
	RunE:  runReportCategories,
}

var reportBudgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "How much of every budget is used",
	RunE:  runReportBudgets,
}

func init() {
	reportCategoriesCmd.Flags().StringVarP(&flagPeriod, "period", "p", "", "week, month, year or empty for all time")
	reportCategoriesCmd.Flags().StringVar(&flagCurrency, "currency", "", "Report currency, base currency by default")

	reportCmd.AddCommand(reportCategoriesCmd, reportBudgetsCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportCategories(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.generator.CategoryReport(cmd.Context(), flagPeriod, flagCurrency)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), cli.RenderCategoryReport(report))
	return nil
}

func runReportBudgets(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	statuses, err := a.generator.BudgetStatuses(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), cli.RenderBudgetStatuses(statuses))
	return nil
}
