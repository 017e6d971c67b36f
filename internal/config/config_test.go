package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/azaryc2s/vrptw-cg/internal/config"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestDefaultsValidate(t *testing.T) {
	require.NoError(t, config.Defaults().Validate())
}

func TestLoadMergesOntoDefaults(t *testing.T) {
	path := writeFile(t, `
instance:
  path: instance.txt
  num_customers: 25
column_generation:
  max_iterations: 50
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "instance.txt", cfg.Instance.Path)
	require.Equal(t, 25, cfg.Instance.NumCustomers)
	require.Equal(t, 50, cfg.CG.MaxIterations)
	// Unset fields keep the default.
	require.InDelta(t, 1e-6, cfg.CG.Tolerance, 1e-12)
	require.Equal(t, "native", cfg.CG.Backend)
}

func TestLoadRejectsUnreadableFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeFile(t, "not: [valid yaml")
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestValidateRejectsIncompatibleSchemaVersion(t *testing.T) {
	cfg := config.Defaults()
	cfg.SchemaVersion = "2.0.0"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsMalformedSchemaVersion(t *testing.T) {
	cfg := config.Defaults()
	cfg.SchemaVersion = "not-a-version"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveMaxIterations(t *testing.T) {
	cfg := config.Defaults()
	cfg.CG.MaxIterations = 0
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNegativeTolerance(t *testing.T) {
	cfg := config.Defaults()
	cfg.CG.Tolerance = -1
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNegativeNumCustomers(t *testing.T) {
	cfg := config.Defaults()
	cfg.Instance.NumCustomers = -5
	require.Error(t, cfg.Validate())
}
