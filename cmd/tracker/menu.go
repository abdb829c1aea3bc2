package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"max.ks1230/expense-tracker/internal/cli"
)

var menuCmd = &cobra.Command{
	Use:         "menu",
	Short:       "Manage records in an interactive menu",
	Annotations: map[string]string{annotationQuiet: ""},
	RunE:        runMenu,
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create missing tables",
	RunE:  runInitDB,
}

func init() {
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(initDBCmd)
}

func runMenu(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	p := cli.NewPrompter(os.Stdin, os.Stdout)
	return cli.NewMenu(a.book, p, cli.DefaultSelector(p)).Run(ctx)
}

func runInitDB(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Fprintf(cmd.OutOrStdout(), "Database ready (%s)\n", a.conf.Storage().Driver())
	return nil
}
