package kafka

import (
	"context"

	"github.com/Shopify/sarama"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/logger"
)

type producerConfig interface {
	Brokers() []string
	EventsTopic() string
}

// Producer publishes committed ledger changes.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg producerConfig) (*Producer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers(), config)
	if err != nil {
		return nil, err
	}
	return newProducer(producer, cfg.EventsTopic()), nil
}

func newProducer(producer sarama.SyncProducer, topic string) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
	}
}

func (p *Producer) ProduceMessage(key string, message []byte) error {
	_, _, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(message),
	})
	return err
}

// LedgerChanged publishes change keyed by entity so changes of one entity
// keep their order.
func (p *Producer) LedgerChanged(_ context.Context, change ledger.Change) {
	msg, err := encodeChange(change)
	if err == nil {
		err = p.ProduceMessage(change.Entity, msg)
	}
	if err != nil {
		logger.Error("failed to publish ledger change", zap.Error(err), zap.String("entity", change.Entity))
	}
}

func (p *Producer) Close() {
	err := p.producer.Close()
	if err != nil {
		logger.Error("failed to close producer", zap.Error(err))
	}
}
