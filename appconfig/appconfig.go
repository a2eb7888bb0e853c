// Package appconfig loads process settings from defaults, an optional
// config file, DATATABLE_* environment variables and command-line flags.
package appconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"datatable/logging"
	"datatable/store"
)

const envPrefix = "datatable"

type Config struct {
	Addr    string      `mapstructure:"addr"`
	Store   StoreConfig `mapstructure:"store"`
	Catalog string      `mapstructure:"catalog"`
	Log     LogConfig   `mapstructure:"log"`
	Locale  string      `mapstructure:"locale"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"addr":          "addr",
	"store-backend": "store.backend",
	"store-path":    "store.path",
	"catalog":       "catalog",
	"log-level":     "log.level",
	"log-format":    "log.format",
	"locale":        "locale",
}

// AddFlags registers the flags Load understands on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("addr", "", "listen address (default \":8080\")")
	fs.String("store-backend", "", "preset store backend: file, memory, badger or sqlite")
	fs.String("store-path", "", "preset store location")
	fs.String("catalog", "", "YAML file replacing the built-in preset catalog")
	fs.String("log-level", "", "log level: debug, info, warn or error")
	fs.String("log-format", "", "log format: text, json or json-pretty")
	fs.String("locale", "", "BCP 47 locale used to sort strings")
}

// Load resolves the configuration. path names an optional YAML or JSON file;
// fs, if non-nil, supplies flags registered with AddFlags. Flags set on the
// command line win over the environment, which wins over the file.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("store.backend", store.BackendFile)
	v.SetDefault("store.path", "/data/presets.json")
	v.SetDefault("catalog", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("locale", "en")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("store.path", "DATATABLE_STORE_PATH", "PRESET_FILE"); err != nil {
		return Config{}, err
	}
	if _, ok := os.LookupEnv("DATATABLE_ADDR"); !ok {
		if port := os.Getenv("PORT"); port != "" {
			v.SetDefault("addr", ":"+port)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case store.BackendFile, store.BackendMemory, store.BackendBadger, store.BackendSQLite:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if _, err := logging.GetLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json", "json-pretty":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
