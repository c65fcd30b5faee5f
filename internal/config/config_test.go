package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "strict", cfg.Evaluation.Mode)
	assert.Equal(t, "max-utility", cfg.Evaluation.Policy)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "canopy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
evaluation:
  mode: optimal
  policy: net-benefit
  willingness_to_pay: 20000
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "optimal", cfg.Evaluation.Mode)
	assert.Equal(t, "net-benefit", cfg.Evaluation.Policy)
	assert.Equal(t, 20000.0, cfg.Evaluation.WillingnessToPay)

	t.Setenv(EnvWTP, "50000")
	t.Setenv(EnvHTTPAddr, ":9090")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, cfg.Evaluation.WillingnessToPay)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CANOPY_POLICY=min-cost\n"), 0o644))
	// godotenv never overrides variables that are already set.
	t.Setenv(EnvPolicy, "")
	require.NoError(t, os.Unsetenv(EnvPolicy))

	cfg, err := Load("missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, "min-cost", cfg.Evaluation.Policy)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("log: ["), 0o644))
	_, err := Load(bad)
	assert.ErrorContains(t, err, "parse config yaml")

	t.Setenv(EnvWTP, "lots")
	_, err = Load("")
	assert.ErrorContains(t, err, EnvWTP)
}
