package config

import "max.ks1230/expense-tracker/internal/entity/currency"

type AppConfig struct {
	BaseCurrencyName        string   `yaml:"base-currency" toml:"base-currency"`
	CurrencyList            []string `yaml:"currencies" toml:"currencies"`
	RatePullingDelayMinutes int64    `yaml:"rate-pulling-delay-minutes" toml:"rate-pulling-delay-minutes"`
	RecurringCheckMinutes   int64    `yaml:"recurring-check-minutes" toml:"recurring-check-minutes"`
}

func (s *AppConfig) BaseCurrency() string {
	return s.BaseCurrencyName
}

func (s *AppConfig) Currencies() []string {
	if len(s.CurrencyList) == 0 {
		return currency.Currencies
	}
	return s.CurrencyList
}

func (s *AppConfig) PullingDelayMinutes() int64 {
	return s.RatePullingDelayMinutes
}

func (s *AppConfig) RecurringDelayMinutes() int64 {
	return s.RecurringCheckMinutes
}
