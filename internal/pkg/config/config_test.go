package config

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestLoad(t *testing.T) {
	cfg, err := Load("./config_test.json")
	assert.NilError(t, err)

	assert.Equal(t, cfg.Server.Port, ":8080")
	assert.Equal(t, cfg.Log.Environment, "production")
	assert.Equal(t, cfg.Gradebook.Driver, "mysql")
	assert.Equal(t, cfg.Gradebook.Port, 3306)
	assert.Equal(t, cfg.Mongo.Port, "27017")
	assert.Equal(t, cfg.NATS.Subject, "digilab.reports")
	assert.Assert(t, cfg.Gradebook.Enabled())
	assert.Assert(t, cfg.Mongo.Enabled())
	assert.Assert(t, cfg.NATS.Enabled())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	assert.NilError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{}`))
	assert.NilError(t, err)
	assert.Equal(t, cfg.Server.Port, ":8080")
	assert.Equal(t, cfg.Log.Environment, "development")
	assert.Assert(t, !cfg.Gradebook.Enabled())
	assert.Assert(t, !cfg.Mongo.Enabled())
	assert.Assert(t, !cfg.NATS.Enabled())
}

func TestLoadBadDriver(t *testing.T) {
	_, err := Load(writeConfig(t, `{"Gradebook": {"Driver": "sqlite", "Server": "db"}}`))
	assert.ErrorContains(t, err, "mysql or postgres")
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeConfig(t, `{"Server":`))
	assert.ErrorContains(t, err, "parse")

	_, err = Load("./missing.json")
	assert.Assert(t, err != nil)
}
