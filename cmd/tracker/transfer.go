package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/model/transfer"
)

var (
	flagOutput string
	flagFrom   string
	flagTo     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write transactions as CSV",
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Load transactions from CSV, all or nothing",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file, stdout by default")
	exportCmd.Flags().StringVar(&flagFrom, "from", "", "First date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&flagTo, "to", "", "Last date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd, importCmd)
}

func parseOptionalDate(flag, value string) (ledger.Date, error) {
	if value == "" {
		return ledger.Date{}, nil
	}
	d, err := ledger.ParseDate(value)
	if err != nil {
		return ledger.Date{}, errors.Wrapf(err, "--%s", flag)
	}
	return d, nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	from, err := parseOptionalDate("from", flagFrom)
	if err != nil {
		return err
	}
	to, err := parseOptionalDate("to", flagTo)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	var w io.Writer = cmd.OutOrStdout()
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return errors.Wrap(err, "create export file")
		}
		defer f.Close()
		w = f
	}

	n, err := transfer.Export(cmd.Context(), w, a.storage, from, to)
	if err != nil {
		return err
	}
	if flagOutput != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", n, flagOutput)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrap(err, "open import file")
	}
	defer f.Close()

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	n, err := transfer.Import(cmd.Context(), f, a.book)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions\n", n)
	return nil
}
