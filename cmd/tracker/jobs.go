package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"max.ks1230/expense-tracker/internal/clients/fixer"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/model/rates"
	"max.ks1230/expense-tracker/internal/model/recurring"
)

var flagDate string

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Currency rates",
}

var ratesPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch current rates once",
	RunE:  runRatesPull,
}

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Recurring expenses",
}

var recurringRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Charge every recurring expense that is due",
	RunE:  runRecurring,
}

func init() {
	recurringRunCmd.Flags().StringVar(&flagDate, "date", "", "Charge as of this day (YYYY-MM-DD), today by default")

	ratesCmd.AddCommand(ratesPullCmd)
	recurringCmd.AddCommand(recurringRunCmd)
	rootCmd.AddCommand(ratesCmd, recurringCmd)
}

func runRatesPull(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if a.conf.Fixer().ApiKey() == "" {
		return errors.New("fixer api key is not configured")
	}
	puller, err := rates.NewPuller(cmd.Context(), a.storage, fixer.New(a.conf.Fixer()), a.generator, a.conf.App())
	if err != nil {
		return err
	}
	if err = puller.PullOnce(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Rates updated")
	return nil
}

func runRecurring(cmd *cobra.Command, _ []string) error {
	today := ledger.Today()
	if flagDate != "" {
		d, err := ledger.ParseDate(flagDate)
		if err != nil {
			return errors.Wrap(err, "--date")
		}
		today = d
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	res, err := recurring.NewScheduler(a.storage, a.book, a.conf.App()).RunDue(cmd.Context(), today)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Charged %d recurring expenses with %d transactions, %d failed\n",
		res.Expenses, res.Transactions, res.Failed)
	return nil
}
