package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/expense-tracker/internal/crypto"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_New_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := New(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage().Driver())
	assert.Equal(t, "USD", cfg.App().BaseCurrency())
	assert.Equal(t, 10, cfg.HTTP().PageSize())
	assert.Equal(t, ":8080", cfg.HTTP().Addr())
	assert.False(t, cfg.Kafka().Enabled())
	assert.NotEmpty(t, cfg.App().Currencies())
}

func Test_New_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
app:
  base-currency: EUR
  currencies: [EUR, USD]
storage:
  driver: postgres
postgres:
  host: db.local
  db: tracker
  username: tracker
  password: plain
memcached:
  hosts: ["127.0.0.1:11211"]
`)
	cfg, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, "EUR", cfg.App().BaseCurrency())
	assert.Equal(t, []string{"EUR", "USD"}, cfg.App().Currencies())
	assert.Equal(t, DriverPostgres, cfg.Storage().Driver())
	assert.Equal(t, "db.local", cfg.Postgres().Host())
	assert.Equal(t, "plain", cfg.Postgres().Password())
	assert.Equal(t, "disable", cfg.Postgres().SSLMode())
	assert.True(t, cfg.Memcached().Enabled())
	// untouched sections keep their defaults
	assert.Equal(t, int64(60), cfg.App().PullingDelayMinutes())
}

func Test_New_TOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
[http]
addr = ":9090"
api-key = "k"
page-size = 25

[telegram]
alert-chat-id = 42
`)
	cfg, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP().Addr())
	assert.Equal(t, "k", cfg.HTTP().APIKey())
	assert.Equal(t, 25, cfg.HTTP().PageSize())
	assert.Equal(t, int64(42), cfg.Telegram().AlertChatID())
}

func Test_New_DecryptsPassword(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	token, err := crypto.Encrypt(key, "hunter2")
	require.NoError(t, err)

	t.Setenv(encryptionKeyEnv, key)
	t.Setenv(dbPasswordEnv, "")
	path := writeFile(t, "config.yaml", "postgres:\n  password: \""+EncryptedValue(token)+"\"\n")

	cfg, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Postgres().Password())
}

func Test_New_EncryptedPasswordWithoutKey(t *testing.T) {
	t.Setenv(encryptionKeyEnv, "")
	t.Setenv(dbPasswordEnv, "")
	path := writeFile(t, "config.yaml", "postgres:\n  password: \"enc:abc\"\n")

	_, err := New(path)
	assert.Error(t, err)
}

func Test_New_PasswordFromEnv(t *testing.T) {
	t.Setenv(dbPasswordEnv, "from-env")
	path := writeFile(t, "config.yaml", "postgres:\n  password: file\n")

	cfg, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Postgres().Password())
}
