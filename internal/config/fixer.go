package config

type FixerConfig struct {
	FixerApiKey string `yaml:"api-key" toml:"api-key"`
	URL         string `yaml:"url" toml:"url"`
}

func (f *FixerConfig) ApiKey() string {
	return f.FixerApiKey
}

func (f *FixerConfig) BaseURL() string {
	return f.URL
}
