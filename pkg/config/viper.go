package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Gorgooo61/AI-character/pkg/dotdir"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "CHARACTER"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the CHARACTER_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (CHARACTER_CAPTURE_MODE, CHARACTER_API_LISTEN, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	v.AddConfigPath(target)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: CHARACTER_GENERATION_MODEL, CHARACTER_STORAGE_SQLITE_PATH, etc.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// FromViper resolves the effective Config from v, applying the full
// precedence chain to every registered key.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := NewDefaultConfig()

	cfg.Version = v.GetInt("version")
	if err := checkVersion(cfg.Version); err != nil {
		return nil, err
	}

	for _, k := range keyRegistry {
		if err := k.info.set(cfg, viperString(v, k.name)); err != nil {
			return nil, err
		}
	}

	if hotkeys := v.GetStringMapString("animation.hotkeys"); len(hotkeys) > 0 {
		cfg.Animation.Hotkeys = hotkeys
	}
	if lexicon := v.GetStringMapStringSlice("emotion.lexicon"); len(lexicon) > 0 {
		cfg.Emotion.Lexicon = lexicon
	}

	return cfg, nil
}

// viperString returns key as a string, joining TOML arrays with commas.
func viperString(v *viper.Viper, key string) string {
	switch v.Get(key).(type) {
	case []any, []string:
		return strings.Join(v.GetStringSlice(key), ",")
	}
	return v.GetString(key)
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)
	for _, k := range keyRegistry {
		v.SetDefault(k.name, k.info.get(d))
	}
}
