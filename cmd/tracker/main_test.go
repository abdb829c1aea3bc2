package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/expense-tracker/internal/crypto"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "storage:\n  driver: sqlite\n  sqlite-path: " + filepath.Join(dir, "tracker.db") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_Version(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "0.1.0\n", out)
}

func Test_SecretEncrypt(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	t.Setenv(encryptionKeyEnv, key)

	out, err := execute(t, "secret", "encrypt", "hunter2")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "enc:"))

	plain, err := crypto.Decrypt(key, strings.TrimSpace(strings.TrimPrefix(out, "enc:")))
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plain)
}

func Test_SecretEncrypt_NoKey(t *testing.T) {
	t.Setenv(encryptionKeyEnv, "")
	_, err := execute(t, "secret", "encrypt", "hunter2")
	assert.Error(t, err)
}

func Test_InitDBAndBatchCommands(t *testing.T) {
	cfg := testConfig(t)

	out, err := execute(t, "--config", cfg, "init-db")
	require.NoError(t, err)
	assert.Contains(t, out, "Database ready (sqlite)")

	out, err = execute(t, "--config", cfg, "export")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "id,name,amount,account_id,category_id,date"))

	out, err = execute(t, "--config", cfg, "recurring", "run", "--date", "2024-01-31")
	require.NoError(t, err)
	assert.Contains(t, out, "Charged 0 recurring expenses")

	out, err = execute(t, "--config", cfg, "report", "budgets")
	require.NoError(t, err)
	assert.Contains(t, out, "No budgets found.")
}

func Test_Export_BadDate(t *testing.T) {
	cfg := testConfig(t)
	_, err := execute(t, "--config", cfg, "export", "--from", "01.01.2024")
	assert.Error(t, err)
	flagFrom = ""
}
