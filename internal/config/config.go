package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"max.ks1230/expense-tracker/internal/crypto"
)

const (
	DefaultFile = "data/config.yaml"

	encryptedPrefix  = "enc:"
	encryptionKeyEnv = "ENCRYPTION_KEY"
	dbPasswordEnv    = "DB_PASSWORD"
)

type config struct {
	App       AppConfig       `yaml:"app" toml:"app"`
	Storage   StorageConfig   `yaml:"storage" toml:"storage"`
	Postgres  PostgresConfig  `yaml:"postgres" toml:"postgres"`
	HTTP      HTTPConfig      `yaml:"http" toml:"http"`
	Fixer     FixerConfig     `yaml:"fixer" toml:"fixer"`
	Memcached MemcachedConfig `yaml:"memcached" toml:"memcached"`
	Kafka     KafkaConfig     `yaml:"kafka" toml:"kafka"`
	Telegram  TelegramConfig  `yaml:"telegram" toml:"telegram"`
	Tracing   TracingConfig   `yaml:"tracing" toml:"tracing"`
}

type Service struct {
	config config
}

func defaults() config {
	return config{
		App: AppConfig{
			BaseCurrencyName:        "USD",
			RatePullingDelayMinutes: 60,
			RecurringCheckMinutes:   60,
		},
		Storage: StorageConfig{
			DriverName: DriverSQLite,
			Path:       "data/database.db",
		},
		Postgres: PostgresConfig{SSL: "disable"},
		HTTP:     HTTPConfig{ListenAddr: ":8080", ListSize: 10},
		Kafka: KafkaConfig{
			Consumer: "expense-tracker",
			Topic:    "ledger-changes",
		},
		Tracing: TracingConfig{Service: "expense-tracker"},
	}
}

// New reads the config file at path. A missing file yields the defaults so
// the tracker works out of the box with a local SQLite database.
func New(path string) (*Service, error) {
	s := &Service{config: defaults()}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.Wrap(err, "reading config file")
	default:
		if err = s.decode(path, raw); err != nil {
			return nil, err
		}
	}

	if err = s.resolveSecrets(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) decode(path string, raw []byte) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(raw, &s.config); err != nil {
			return errors.Wrap(err, "parsing toml")
		}
		return nil
	}
	if err := yaml.Unmarshal(raw, &s.config); err != nil {
		return errors.Wrap(err, "parsing yaml")
	}
	return nil
}

func (s *Service) resolveSecrets() error {
	pg := &s.config.Postgres
	if env := os.Getenv(dbPasswordEnv); env != "" {
		pg.Pswd = env
	}
	if !strings.HasPrefix(pg.Pswd, encryptedPrefix) {
		return nil
	}

	key := os.Getenv(encryptionKeyEnv)
	if key == "" {
		return errors.Errorf("postgres password is encrypted but %s is not set", encryptionKeyEnv)
	}
	plain, err := crypto.Decrypt(key, strings.TrimPrefix(pg.Pswd, encryptedPrefix))
	if err != nil {
		return errors.Wrap(err, "decrypting postgres password")
	}
	pg.Pswd = plain
	return nil
}

// EncryptedValue formats a sealed secret the way the config file expects it.
func EncryptedValue(token string) string {
	return encryptedPrefix + token
}

func (s *Service) App() *AppConfig {
	return &s.config.App
}

func (s *Service) Storage() *StorageConfig {
	return &s.config.Storage
}

func (s *Service) Postgres() *PostgresConfig {
	return &s.config.Postgres
}

func (s *Service) HTTP() *HTTPConfig {
	return &s.config.HTTP
}

func (s *Service) Fixer() *FixerConfig {
	return &s.config.Fixer
}

func (s *Service) Memcached() *MemcachedConfig {
	return &s.config.Memcached
}

func (s *Service) Kafka() *KafkaConfig {
	return &s.config.Kafka
}

func (s *Service) Telegram() *TelegramConfig {
	return &s.config.Telegram
}

func (s *Service) Tracing() *TracingConfig {
	return &s.config.Tracing
}
