// Package config resolves settings from flags, the environment and an
// optional ampersand.yaml.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	KeyLogLevel     = "log-level"
	KeyDataDir      = "data-dir"
	KeyPersist      = "persist"
	KeyEvalNoise    = "eval-noise"
	KeyNoiseSeed    = "noise-seed"
	KeyBenchDepth   = "bench-depth"
	KeyBenchWorkers = "bench-workers"
)

const envPrefix = "AMPERSAND"

type Config struct {
	LogLevel     zerolog.Level
	DataDir      string
	Persist      bool
	EvalNoise    bool
	NoiseSeed    uint64
	BenchDepth   int
	BenchWorkers int
}

// New returns a viper instance with defaults, environment binding and the
// config file search path set up. Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDataDir, filepath.Join(xdg.DataHome, "ampersand"))
	v.SetDefault(KeyPersist, false)
	v.SetDefault(KeyEvalNoise, false)
	v.SetDefault(KeyNoiseSeed, 0)
	v.SetDefault(KeyBenchDepth, 5)
	v.SetDefault(KeyBenchWorkers, runtime.NumCPU())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("ampersand")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(xdg.ConfigHome, "ampersand"))
	return v
}

// Load reads the config file if there is one and returns the validated
// settings.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}

	level, err := zerolog.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", KeyLogLevel, err)
	}

	c := Config{
		LogLevel:     level,
		DataDir:      v.GetString(KeyDataDir),
		Persist:      v.GetBool(KeyPersist),
		EvalNoise:    v.GetBool(KeyEvalNoise),
		NoiseSeed:    v.GetUint64(KeyNoiseSeed),
		BenchDepth:   v.GetInt(KeyBenchDepth),
		BenchWorkers: v.GetInt(KeyBenchWorkers),
	}
	if c.BenchDepth < 1 {
		return Config{}, fmt.Errorf("config: %s must be at least 1, got %d", KeyBenchDepth, c.BenchDepth)
	}
	if c.BenchWorkers < 1 {
		return Config{}, fmt.Errorf("config: %s must be at least 1, got %d", KeyBenchWorkers, c.BenchWorkers)
	}
	return c, nil
}
