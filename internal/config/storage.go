package config

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type StorageConfig struct {
	DriverName string `yaml:"driver" toml:"driver"`
	Path       string `yaml:"sqlite-path" toml:"sqlite-path"`
}

func (s *StorageConfig) Driver() string {
	return s.DriverName
}

func (s *StorageConfig) SQLitePath() string {
	return s.Path
}
