// Package config loads the client configuration from a yaml file, environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathangreen/tuque-sub001/pkg/cache"
	"github.com/jonathangreen/tuque-sub001/pkg/dlogger"
	"github.com/jonathangreen/tuque-sub001/pkg/transport/embedded"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// Store kinds
const (
	StoreLocalFS = "localfs"
	StoreBadger  = "badger"
	StoreMemory  = "memory"
)

// EnvPrefix prefixes the environment variables overriding the configuration, e.g. TUQUE_STORE_DIR
const EnvPrefix = "TUQUE"

// Config describes the client configuration.
type Config struct {
	LogLevel  string      `mapstructure:"loglevel" yaml:"loglevel"`
	Namespace string      `mapstructure:"namespace" yaml:"namespace"`
	UUIDs     bool        `mapstructure:"uuids" yaml:"uuids"`
	Store     StoreConfig `mapstructure:"store" yaml:"store"`
	Cache     CacheConfig `mapstructure:"cache" yaml:"cache"`
}

// StoreConfig tells where the embedded repository keeps its records
type StoreConfig struct {
	Kind string `mapstructure:"kind" yaml:"kind"`
	Dir  string `mapstructure:"dir" yaml:"dir"`
}

// CacheConfig sizes the object cache
type CacheConfig struct {
	Capacity int  `mapstructure:"capacity" yaml:"capacity"`
	Metrics  bool `mapstructure:"metrics" yaml:"metrics"`
}

// SetDefaults registers the default values
func SetDefaults(v *viper.Viper) {
	v.SetDefault("loglevel", dlogger.LogLevelInfo)
	v.SetDefault("namespace", embedded.DefaultNamespace)
	v.SetDefault("uuids", false)
	v.SetDefault("store.kind", StoreLocalFS)
	v.SetDefault("store.dir", ".tuque")
	v.SetDefault("cache.capacity", cache.DefaultCapacity)
	v.SetDefault("cache.metrics", false)
}

// Option is a functor to customize how the configuration is loaded
type Option func(*loader)

type loader struct {
	fs   afero.Fs
	file string
}

// File reads the configuration from a file. Without it, tuque.yaml is looked up in the
// current directory, then in $HOME/.tuque.
func File(path string) Option {
	return func(l *loader) {
		l.file = path
	}
}

// Fs sets the file system the configuration file is read from
func Fs(fs afero.Fs) Option {
	return func(l *loader) {
		if fs != nil {
			l.fs = fs
		}
	}
}

// Load reads the configuration. A missing configuration file is not an error,
// unless it was explicitly requested.
func Load(v *viper.Viper, opts ...Option) (*Config, error) {
	l := loader{fs: afero.NewOsFs()}
	for _, apply := range opts {
		apply(&l)
	}

	SetDefaults(v)
	v.SetFs(l.fs)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.file != "" {
		v.SetConfigFile(l.file)
	} else {
		v.SetConfigName("tuque")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.tuque")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading configuration: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values
func (c Config) Validate() error {
	switch c.Store.Kind {
	case StoreLocalFS, StoreBadger:
		if c.Store.Dir == "" {
			return fmt.Errorf("store %s requires a directory", c.Store.Kind)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store kind %q: expected one of %s, %s, %s", c.Store.Kind, StoreLocalFS, StoreBadger, StoreMemory)
	}
	if c.Cache.Capacity < 1 {
		return fmt.Errorf("cache capacity must be positive, got %d", c.Cache.Capacity)
	}
	return nil
}

// Marshal yields the yaml representation of the configuration
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
