package infra

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chrisconley/metcorr/specs"
	"github.com/spf13/viper"
)

// Config is the job configuration of a correction run.
type Config struct {
	JECPayloads []string     `mapstructure:"jec_payloads"`
	Policy      PolicyConfig `mapstructure:"policy"`
	Workers     int          `mapstructure:"workers"`
	LogLevel    string       `mapstructure:"log_level"`
	Output      string       `mapstructure:"output"`
}

type PolicyConfig struct {
	EMFractionThreshold float64 `mapstructure:"em_fraction_threshold"`
	JetPtThreshold      float64 `mapstructure:"jet_pt_threshold"`
	JetEtaMax           float64 `mapstructure:"jet_eta_max"`
}

// ConfigOverride adjusts a loaded configuration before it is validated.
type ConfigOverride func(*Config)

// LoadConfig reads the YAML file at path (if any), applies METCORR_*
// environment overrides, e.g. METCORR_POLICY_JET_PT_THRESHOLD, then the given
// overrides in order, and validates the result.
//
// Relative payload paths are resolved against the directory of the config
// file. The output path stays relative to the working directory.
func LoadConfig(path string, overrides ...ConfigOverride) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("METCORR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if path != "" {
		cfg.JECPayloads = resolvePayloads(filepath.Dir(path), cfg.JECPayloads)
	}
	for _, override := range overrides {
		override(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func resolvePayloads(dir string, payloads []string) []string {
	resolved := make([]string, len(payloads))
	for i, p := range payloads {
		if strings.TrimSpace(p) == "" || filepath.IsAbs(p) {
			resolved[i] = p
			continue
		}
		resolved[i] = filepath.Join(dir, p)
	}
	return resolved
}

func setDefaults(v *viper.Viper) {
	defaults := specs.DefaultTypeIPolicy()
	v.SetDefault("jec_payloads", []string{})
	v.SetDefault("policy.em_fraction_threshold", defaults.EMFractionThreshold)
	v.SetDefault("policy.jet_pt_threshold", defaults.JetPtThreshold)
	v.SetDefault("policy.jet_eta_max", defaults.JetEtaMax)
	v.SetDefault("workers", 1)
	v.SetDefault("log_level", "INFO")
	v.SetDefault("output", "")
}

// Validate checks values viper cannot type-check.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	for i, p := range c.JECPayloads {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("jec payload %d is empty", i)
		}
	}
	return nil
}

// TypeICorrectionConfig converts the job configuration into the engine
// configuration. The policy is always explicit here since viper fills the
// defaults.
func (c Config) TypeICorrectionConfig() specs.TypeICorrectionConfigSpec {
	return specs.TypeICorrectionConfigSpec{
		JECPayloads: append([]string(nil), c.JECPayloads...),
		Policy: &specs.TypeIPolicySpec{
			EMFractionThreshold: c.Policy.EMFractionThreshold,
			JetPtThreshold:      c.Policy.JetPtThreshold,
			JetEtaMax:           c.Policy.JetEtaMax,
		},
	}
}
