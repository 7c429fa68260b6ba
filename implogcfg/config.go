// Package implogcfg loads process configuration: the netlist bound
// overrides of spec.md §7 kind 2 (max fanout, max level, max flip-flop
// count, max tie count) and the opt-in toggle for resetting flip-flops
// from an .initState file (spec.md §6, disabled by default).
//
// Grounded on niceyeti-tabular's FromYaml config loader
// (other_examples/...reinforcement-learning.go.go): a bare *viper.Viper
// pointed at an explicit file path and type, read once, then unmarshaled
// into a plain struct, rather than relying on viper's global instance.
package implogcfg

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the process-wide tunable state. Zero value is the default:
// no reset from .initState, and bounds large enough not to reject any
// real netlist (spec.md §7 kind 2 only fires when a bound is configured
// and exceeded).
type Config struct {
	ResetFromInitState bool `mapstructure:"reset_from_init_state"`
	MaxFanout          int  `mapstructure:"max_fanout"`
	MaxLevels          int  `mapstructure:"max_levels"`
	MaxFFs             int  `mapstructure:"max_ffs"`
	MaxTies            int  `mapstructure:"max_ties"`
	Verbose            bool `mapstructure:"verbose"`
}

// Default returns the zero-value configuration: no bounds enforced, no
// .initState reset.
func Default() Config {
	return Config{}
}

// Load reads an optional implog.yaml (or implog.json/.toml, per viper's
// usual extension sniffing) from path and overlays it onto Default(). A
// missing file is not an error — the CLI runs fine with Default() alone
// (spec.md §6's .initState reset is "disabled by default").
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	vp := viper.New()
	vp.SetConfigName(strippedBase(path))
	vp.AddConfigPath(filepath.Dir(path))
	vp.SetEnvPrefix("IMPLOG")
	vp.AutomaticEnv()

	if err := vp.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "implogcfg: reading %s", path)
	}
	if err := vp.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "implogcfg: decoding %s", path)
	}
	return cfg, nil
}

func strippedBase(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
