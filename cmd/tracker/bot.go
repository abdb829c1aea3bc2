package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"max.ks1230/expense-tracker/internal/clients/kafka"
	"max.ks1230/expense-tracker/internal/clients/tg"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/alerts"
	"max.ks1230/expense-tracker/internal/model/messages"
	"max.ks1230/expense-tracker/internal/tracing"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE:  runBot,
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Drop cached reports when other instances publish ledger changes",
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(botCmd, workerCmd)
}

func runBot(cmd *cobra.Command, _ []string) error {
	logger.Info("Bot init - start")

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if a.conf.Telegram().Token() == "" {
		return errors.New("telegram token is not configured")
	}

	tracer, err := tracing.Init(a.conf.Tracing())
	if err != nil {
		return err
	}
	defer tracer.Close()

	client, err := tg.New(a.conf.Telegram())
	if err != nil {
		return errors.Wrap(err, "init telegram client")
	}

	if a.conf.Kafka().Enabled() {
		producer, err := kafka.NewProducer(a.conf.Kafka())
		if err != nil {
			return err
		}
		defer producer.Close()
		a.book.AddHook(producer)
	}
	if a.conf.Telegram().AlertChatID() != 0 {
		a.book.AddHook(alerts.NewWatcher(a.generator, client, a.conf.Telegram()))
	}

	msgService := messages.NewService(client, a.book, a.generator, a.conf.Telegram())

	logger.Info("Bot init - end")
	client.ListenUpdates(ctx, msgService)
	return nil
}

func runWorker(cmd *cobra.Command, _ []string) error {
	logger.Info("Worker init - start")

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if !a.conf.Kafka().Enabled() {
		return errors.New("kafka brokers are not configured")
	}

	consumer, err := kafka.NewConsumer(a.conf.Kafka(), a.generator)
	if err != nil {
		return errors.Wrap(err, "init kafka consumer")
	}
	defer consumer.Close()

	logger.Info("Worker init - end")
	return consumer.StartConsuming(ctx)
}
