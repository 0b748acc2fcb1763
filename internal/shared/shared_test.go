package shared

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	c, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "./lracheck.db", c.Database.DSN)
	assert.Equal(t, 1, c.Analysis.Parallelism)
	assert.Equal(t, ":8080", c.Server.Addr)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "lracheck.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
database:
  dsn: ./from-file.db
analysis:
  paths: [a, b]
  parallelism: 4
  disabled_rules: [WRONG-PLAIN-SIGNATURE]
`), 0o644))

	t.Setenv("LRACHECK_DB_DSN", "./from-env.db")
	t.Setenv("LRACHECK_FAIL_WHEN_PATH_NOT_EXIST", "true")
	t.Setenv("LRACHECK_ALLOWED_ORIGINS", "http://a, http://b")

	c, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "./from-env.db", c.Database.DSN)
	assert.Equal(t, []string{"a", "b"}, c.Analysis.Paths)
	assert.Equal(t, 4, c.Analysis.Parallelism)
	assert.True(t, c.Analysis.FailWhenPathNotExist)
	assert.Equal(t, []string{"WRONG-PLAIN-SIGNATURE"}, c.Analysis.DisabledRules)
	assert.Equal(t, []string{"http://a", "http://b"}, c.Server.AllowedOrigins)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "./reports", c.Reporting.OutDir)
}

func TestLoadConfigMalformed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("analysis: [unterminated"), 0o644))
	_, err := LoadConfig(p)
	assert.Error(t, err)
}

func TestLoadConfigDatabaseDriver(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "pg.yaml")
	require.NoError(t, os.WriteFile(p, []byte("database:\n  driver: postgres\n"), 0o644))
	_, err := LoadConfig(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported database driver "postgres"`)

	p = filepath.Join(dir, "sqlite3.yaml")
	require.NoError(t, os.WriteFile(p, []byte("database:\n  driver: SQLite3\n"), 0o644))
	c, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.Database.Driver)
}

func TestNewLoggerRenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "json", "debug")
	log.Debug("boom", "error", "bad thing")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "bad thing", rec["err"])
	assert.NotContains(t, rec, "error")
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "text", "warn").Info("hidden")
	assert.Empty(t, buf.String())
}

func TestNewLoggerAutoFormatIsJSONForPipes(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "auto", "info").Info("hello")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
}
