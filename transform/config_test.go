package transform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transform.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFull(t *testing.T) {
	path := writeConfig(t, `
method: pca
estimation: across
n_components: 5
scaling:
  method: standard
  with_std: false
selection:
  n_vox: 0.5
  critical_value: 0.1
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "pca", cfg.Method.String())
	assert.Equal(t, EstimationAcross, cfg.Estimation)
	assert.Equal(t, 5, cfg.NComponents)
	require.NotNil(t, cfg.Scaling.WithStd)
	assert.False(t, *cfg.Scaling.WithStd)

	require.NotNil(t, cfg.Selection)
	require.NotNil(t, cfg.Selection.NVox)
	n, err := cfg.Selection.NVox.TargetCount(10)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.NotNil(t, cfg.Selection.CriticalValue)
	assert.Equal(t, 0.1, *cfg.Selection.CriticalValue)
}

func TestLoadConfigNVoxVariants(t *testing.T) {
	t.Run("all token", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, "selection:\n  n_vox: all\n"))
		require.NoError(t, err)
		assert.True(t, cfg.Selection.NVox.IsAll())
	})

	t.Run("integer count", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, "selection:\n  n_vox: 100\n"))
		require.NoError(t, err)
		n, err := cfg.Selection.NVox.TargetCount(500)
		require.NoError(t, err)
		assert.Equal(t, 100, n)
	})

	t.Run("unrecognized token is fatal", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "selection:\n  n_vox: some\n"))
		require.Error(t, err)
	})

	t.Run("negative count is fatal", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "selection:\n  n_vox: -3\n"))
		require.Error(t, err)
	})
}

func TestLoadConfigDefaultsMethodToPCA(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "estimation: all\n"))
	require.NoError(t, err)
	assert.Equal(t, "pca", cfg.Method.String())
	assert.Equal(t, EstimationAll, cfg.Estimation)
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "methd: pca\n"))
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
