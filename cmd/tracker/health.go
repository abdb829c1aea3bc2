package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"max.ks1230/expense-tracker/internal/api/health"
)

const probeTimeout = 5 * time.Second

var flagHealthAddr string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Ask a running tracker for its gRPC health status",
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().StringVar(&flagHealthAddr, "addr", "127.0.0.1:50051", "gRPC health endpoint")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	probe, err := health.NewProbe(flagHealthAddr)
	if err != nil {
		return err
	}
	defer probe.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
	defer cancel()

	status, err := probe.Check(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), status)
	return nil
}
