package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/pipeline"
)

// envPrefix prefixes environment overrides, e.g. ARCHGRAPH_CACHE_BACKEND.
const envPrefix = "ARCHGRAPH"

// Cache backends selectable with cache.backend.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

// Config holds file and environment defaults. Command-line flags override it.
type Config struct {
	MaxFanOut int    `mapstructure:"max_fan_out"`
	MaxChains int    `mapstructure:"max_chains"`
	TopN      int    `mapstructure:"top_n"`
	Direction string `mapstructure:"direction"`

	Cache CacheConfig `mapstructure:"cache"`
	Store StoreConfig `mapstructure:"store"`
	Serve ServeConfig `mapstructure:"serve"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend  string `mapstructure:"backend"`
	Dir      string `mapstructure:"dir"`
	RedisURL string `mapstructure:"redis_url"`
}

// StoreConfig selects the run archive. A MongoDB URI wins over Dir.
type StoreConfig struct {
	Dir      string `mapstructure:"dir"`
	MongoURI string `mapstructure:"mongo_uri"`
	Database string `mapstructure:"database"`
}

// ServeConfig configures "archgraph serve".
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// defaultConfig returns the configuration used when no file is present.
func defaultConfig() *Config {
	return &Config{
		MaxFanOut: pipeline.DefaultMaxFanOut,
		MaxChains: pipeline.DefaultMaxChains,
		TopN:      pipeline.DefaultTopN,
		Direction: pipeline.DefaultDirection,
		Cache:     CacheConfig{Backend: cacheBackendFile},
		Store:     StoreConfig{Database: "archgraph"},
		Serve:     ServeConfig{Addr: ":8080"},
	}
}

// loadConfig reads archgraph.{yaml,toml,json} from path, or when path is
// empty from the working directory and then the user config directory.
// A missing file is not an error unless path was given explicitly.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	setConfigDefaults(v, defaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(appName)
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read config")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setConfigDefaults registers every key so that environment overrides are
// seen by Unmarshal.
func setConfigDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("max_fan_out", d.MaxFanOut)
	v.SetDefault("max_chains", d.MaxChains)
	v.SetDefault("top_n", d.TopN)
	v.SetDefault("direction", d.Direction)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.redis_url", d.Cache.RedisURL)
	v.SetDefault("store.dir", d.Store.Dir)
	v.SetDefault("store.mongo_uri", d.Store.MongoURI)
	v.SetDefault("store.database", d.Store.Database)
	v.SetDefault("serve.addr", d.Serve.Addr)
}

// Validate checks the values a file or environment can get wrong.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case cacheBackendFile, cacheBackendNone:
	case cacheBackendRedis:
		if c.Cache.RedisURL == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
		if err := apperrors.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "cache.redis_url")
		}
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig,
			"invalid cache.backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Store.MongoURI != "" {
		if err := apperrors.ValidateURL(c.Store.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "store.mongo_uri")
		}
	}
	opts := c.Options()
	return opts.ValidateAndSetDefaults()
}

// Options returns pipeline options seeded from the configuration.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		MaxFanOut: c.MaxFanOut,
		MaxChains: c.MaxChains,
		TopN:      c.TopN,
		Direction: c.Direction,
	}
}

// configDir returns the config directory using XDG standard (~/.config/archgraph/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
