package config

type HTTPConfig struct {
	ListenAddr string `yaml:"addr" toml:"addr"`
	Key        string `yaml:"api-key" toml:"api-key"`
	GRPCPort   int    `yaml:"grpc-port" toml:"grpc-port"`
	ListSize   int    `yaml:"page-size" toml:"page-size"`
}

func (h *HTTPConfig) Addr() string {
	return h.ListenAddr
}

func (h *HTTPConfig) APIKey() string {
	return h.Key
}

// PageSize is the number of records a listing returns without per_page.
func (h *HTTPConfig) PageSize() int {
	return h.ListSize
}

// HealthPort is the gRPC health endpoint port, 0 disables it.
func (h *HTTPConfig) HealthPort() int {
	return h.GRPCPort
}
