package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/api/health"
	"max.ks1230/expense-tracker/internal/api/rest"
	"max.ks1230/expense-tracker/internal/clients/fixer"
	"max.ks1230/expense-tracker/internal/clients/kafka"
	"max.ks1230/expense-tracker/internal/clients/tg"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/alerts"
	"max.ks1230/expense-tracker/internal/model/rates"
	"max.ks1230/expense-tracker/internal/model/recurring"
	"max.ks1230/expense-tracker/internal/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API with the background jobs",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger.Info("Tracker init - start")

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	tracer, err := tracing.Init(a.conf.Tracing())
	if err != nil {
		return err
	}
	defer tracer.Close()

	if a.conf.Kafka().Enabled() {
		producer, err := kafka.NewProducer(a.conf.Kafka())
		if err != nil {
			return err
		}
		defer producer.Close()
		a.book.AddHook(producer)
	}

	if a.conf.Telegram().Token() != "" && a.conf.Telegram().AlertChatID() != 0 {
		client, err := tg.New(a.conf.Telegram())
		if err != nil {
			return err
		}
		a.book.AddHook(alerts.NewWatcher(a.generator, client, a.conf.Telegram()))
	}

	var wg sync.WaitGroup
	run := func(job func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job(ctx)
		}()
	}

	if a.conf.Fixer().ApiKey() != "" {
		puller, err := rates.NewPuller(ctx, a.storage, fixer.New(a.conf.Fixer()), a.generator, a.conf.App())
		if err != nil {
			return err
		}
		run(puller.Pull)
	} else {
		logger.Warn("fixer api key is not set, currency rates are not pulled")
	}

	run(recurring.NewScheduler(a.storage, a.book, a.conf.App()).Run)

	if port := a.conf.HTTP().HealthPort(); port > 0 {
		hs, err := health.NewServer(port, a.storage)
		if err != nil {
			return err
		}
		run(hs.Serve)
		run(func(ctx context.Context) {
			<-ctx.Done()
			hs.Shutdown()
		})
	}

	logger.Info("Tracker init - end")

	err = rest.NewServer(a.conf.HTTP(), a.book, a.generator, a.storage).Run(ctx)
	if err != nil {
		logger.Error("http server failed", zap.Error(err))
	}
	cancel()
	wg.Wait()
	return err
}
