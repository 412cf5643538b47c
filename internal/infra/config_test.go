package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chrisconley/metcorr/specs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metcorr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("without file uses documented defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")

		require.NoError(t, err)
		assert.Empty(t, cfg.JECPayloads)
		assert.Equal(t, specs.DefaultEMFractionThreshold, cfg.Policy.EMFractionThreshold)
		assert.Equal(t, specs.DefaultJetPtThreshold, cfg.Policy.JetPtThreshold)
		assert.Equal(t, specs.DefaultJetEtaMax, cfg.Policy.JetEtaMax)
		assert.Equal(t, 1, cfg.Workers)
		assert.Equal(t, "INFO", cfg.LogLevel)
	})

	t.Run("reads payloads in order and policy overrides from yaml", func(t *testing.T) {
		path := writeConfigFile(t, `
jec_payloads:
  - L1FastJet.txt
  - L2Relative.txt
  - L3Absolute.txt
policy:
  jet_pt_threshold: 10
workers: 4
log_level: debug
output: out.parquet
`)

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		dir := filepath.Dir(path)
		assert.Equal(t, []string{
			filepath.Join(dir, "L1FastJet.txt"),
			filepath.Join(dir, "L2Relative.txt"),
			filepath.Join(dir, "L3Absolute.txt"),
		}, cfg.JECPayloads)
		assert.Equal(t, 10.0, cfg.Policy.JetPtThreshold)
		assert.Equal(t, specs.DefaultEMFractionThreshold, cfg.Policy.EMFractionThreshold, "unset keys keep defaults")
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, "out.parquet", cfg.Output)
	})

	t.Run("environment overrides file values", func(t *testing.T) {
		path := writeConfigFile(t, "workers: 2\n")
		t.Setenv("METCORR_WORKERS", "8")
		t.Setenv("METCORR_POLICY_JET_ETA_MAX", "4.7")

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Workers)
		assert.Equal(t, 4.7, cfg.Policy.JetEtaMax)
	})

	t.Run("with missing file returns error", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config")
	})

	t.Run("payload paths resolve against the config directory", func(t *testing.T) {
		abs := filepath.Join(t.TempDir(), "Residual.txt")
		path := writeConfigFile(t, "jec_payloads:\n  - ../shared/L2Relative.txt\n  - sub/L2L3Residual.txt#Central\n  - "+abs+"\n")

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		dir := filepath.Dir(path)
		assert.Equal(t, []string{
			filepath.Join(filepath.Dir(dir), "shared", "L2Relative.txt"),
			filepath.Join(dir, "sub", "L2L3Residual.txt#Central"),
			abs,
		}, cfg.JECPayloads)
	})

	t.Run("overrides apply before validation", func(t *testing.T) {
		path := writeConfigFile(t, "workers: 0\nlog_level: chatty\n")

		cfg, err := LoadConfig(path,
			func(c *Config) { c.Workers = 2 },
			func(c *Config) { c.LogLevel = "WARN" },
		)

		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Workers)
		assert.Equal(t, "WARN", cfg.LogLevel)
	})

	t.Run("override can still fail validation", func(t *testing.T) {
		path := writeConfigFile(t, "workers: 3\n")

		_, err := LoadConfig(path, func(c *Config) { c.Workers = 0 })

		require.Error(t, err)
		assert.Contains(t, err.Error(), "workers must be at least 1, got 0")
	})

	t.Run("with zero workers returns error", func(t *testing.T) {
		path := writeConfigFile(t, "workers: 0\n")

		_, err := LoadConfig(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "workers must be at least 1")
	})

	t.Run("with unknown log level returns error", func(t *testing.T) {
		path := writeConfigFile(t, "log_level: chatty\n")

		_, err := LoadConfig(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestConfigTypeICorrectionConfig(t *testing.T) {
	t.Run("always carries an explicit policy", func(t *testing.T) {
		cfg := Config{
			JECPayloads: []string{"a.txt"},
			Policy:      PolicyConfig{EMFractionThreshold: 0.8, JetPtThreshold: 20, JetEtaMax: 5},
			Workers:     1,
		}

		spec := cfg.TypeICorrectionConfig()

		assert.Equal(t, []string{"a.txt"}, spec.JECPayloads)
		require.NotNil(t, spec.Policy)
		assert.Equal(t, specs.TypeIPolicySpec{EMFractionThreshold: 0.8, JetPtThreshold: 20, JetEtaMax: 5}, *spec.Policy)
	})
}
