package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/conceptcheck/internal/errors"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, AutoModel, cfg.DataModel)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Positive(t, cfg.Batch.Workers)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "conceptcheck.yaml")
	signed := false
	cfg := DefaultConfig()
	cfg.DataModel = "llp64"
	cfg.CharSigned = &signed
	cfg.Logging = LoggingConfig{Level: "debug", JSON: true}
	cfg.Batch.Workers = 3
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	m, err := got.Model()
	require.NoError(t, err)
	assert.Equal(t, "llp64", m.Name)
	assert.False(t, m.CharSigned)
	assert.True(t, types.LLP64.CharSigned, "override must not leak into the shared model")
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_model: lp64\nlogging:\n  level: warn\n"), 0644))

	t.Setenv(EnvDataModel, "ILP32")
	t.Setenv(EnvLogLevel, "error")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ilp32", cfg.DataModel)
	assert.Equal(t, "error", cfg.Logging.Level)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "ilp32", cfg.DataModel)
}

func TestValidate(t *testing.T) {
	tests := map[string]string{
		"data_model":    "data_model: pdp11\n",
		"logging.level": "logging:\n  level: chatty\n",
		"batch.workers": "batch:\n  workers: -2\n",
	}
	for field, body := range tests {
		t.Run(field, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_model: [\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestModelForMachine(t *testing.T) {
	for machine, want := range map[string]string{
		"x86_64":  "lp64",
		"aarch64": "lp64",
		"i686":    "ilp32",
		"armv7l":  "ilp32",
		"riscv64": "lp64",
	} {
		assert.Equal(t, want, modelForMachine(machine).Name, machine)
	}

	cfg := DefaultConfig()
	m, err := cfg.Model()
	require.NoError(t, err)
	assert.Equal(t, HostModel().Name, m.Name)
}
