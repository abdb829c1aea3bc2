package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"max.ks1230/expense-tracker/internal/config"
	"max.ks1230/expense-tracker/internal/logger"
)

const (
	version = "0.1.0"

	// annotationQuiet keeps info logs off the console of interactive commands.
	annotationQuiet = "quiet-console"
)

var (
	flagConfig  string
	flagLogFile string
)

var rootCmd = &cobra.Command{
	Use:               "tracker",
	Short:             "Personal budget and expense tracker",
	Long:              "Track accounts, categories, budgets, transactions and recurring expenses.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", config.DefaultFile, "Config file (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Rotating log file, LOG_FILE by default")
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads .env and rebuilds the logger before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("cannot load .env", zap.Error(err))
	}

	env := os.Getenv("LOG_ENV")
	if env == "" {
		env = "dev"
	}
	file := flagLogFile
	if file == "" {
		file = os.Getenv("LOG_FILE")
	}
	level := zapcore.DebugLevel
	if env == "prod" {
		level = zapcore.InfoLevel
	}
	if _, ok := cmd.Annotations[annotationQuiet]; ok {
		level = zapcore.ErrorLevel
	}

	logger.Configure(logger.Options{Env: env, File: file, ConsoleLevel: level})
	return nil
}
