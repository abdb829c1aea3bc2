package config

type TracingConfig struct {
	Service   string `yaml:"service-name" toml:"service-name"`
	AgentAddr string `yaml:"agent-host-port" toml:"agent-host-port"`
}

func (t *TracingConfig) ServiceName() string {
	return t.Service
}

func (t *TracingConfig) AgentHostPort() string {
	return t.AgentAddr
}

func (t *TracingConfig) Enabled() bool {
	return t.AgentAddr != ""
}
