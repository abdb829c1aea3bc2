package config

type KafkaConfig struct {
	BrokerList []string `yaml:"brokers" toml:"brokers"`
	Consumer   string   `yaml:"consumer-group" toml:"consumer-group"`
	Topic      string   `yaml:"events-topic" toml:"events-topic"`
}

func (s *KafkaConfig) Brokers() []string {
	return s.BrokerList
}

func (s *KafkaConfig) ConsumerGroup() string {
	return s.Consumer
}

func (s *KafkaConfig) EventsTopic() string {
	return s.Topic
}

func (s *KafkaConfig) Enabled() bool {
	return len(s.BrokerList) > 0
}
