package config

type MemcachedConfig struct {
	NodeHosts []string `yaml:"hosts" toml:"hosts"`
}

func (s *MemcachedConfig) Hosts() []string {
	return s.NodeHosts
}

func (s *MemcachedConfig) Enabled() bool {
	return len(s.NodeHosts) > 0
}
