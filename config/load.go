package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// outer is the generic {kind, def} envelope a config file is wrapped in.
// Load strictly decodes def into a Config; kind is not inspected.
type outer struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// Load reads a YAML config file at path and returns the parsed Config.
// The double-unmarshal (viper -> generic map -> re-marshal -> strict
// struct) exists because viper is good at locating/parsing the file but
// mapstructure's loose decoding isn't a great fit for the fixed-size
// array fields this Config needs, so the inner document is round-tripped
// through yaml.v3 for a strict decode.
func Load(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(filepath.Base(path))
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var o outer
	if err := vp.Unmarshal(&o); err != nil {
		return nil, fmt.Errorf("config: unmarshal envelope: %w", err)
	}

	raw, err := yaml.Marshal(o.Def)
	if err != nil {
		return nil, fmt.Errorf("config: re-marshal def: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal def: %w", err)
	}

	return cfg, nil
}
