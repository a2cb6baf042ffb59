package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of every environment override, e.g. PXEFIRST_APPLY_ATTEMPTS.
const EnvPrefix = "PXEFIRST"

type ApplyConfig struct {
	Attempts int           `yaml:"attempts" mapstructure:"attempts"`
	Delay    time.Duration `yaml:"delay"    mapstructure:"delay"`
}

type ReadinessConfig struct {
	Timeout  time.Duration `yaml:"timeout"  mapstructure:"timeout"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

type ServiceConfig struct {
	UnitPath   string        `yaml:"unit_path"   mapstructure:"unit_path"`
	BinaryPath string        `yaml:"binary_path" mapstructure:"binary_path"`
	Timeout    time.Duration `yaml:"timeout"     mapstructure:"timeout"`
}

// Config is the effective pxefirst configuration.
type Config struct {
	EfibootmgrPath string          `yaml:"efibootmgr_path" mapstructure:"efibootmgr_path"`
	EFIVarsDir     string          `yaml:"efivars_dir"     mapstructure:"efivars_dir"`
	VerboseReport  bool            `yaml:"verbose_report"  mapstructure:"verbose_report"`
	LogFile        string          `yaml:"log_file"        mapstructure:"log_file"`
	LogLevel       string          `yaml:"log_level"       mapstructure:"log_level"`
	Apply          ApplyConfig     `yaml:"apply"           mapstructure:"apply"`
	Readiness      ReadinessConfig `yaml:"readiness"       mapstructure:"readiness"`
	Metrics        MetricsConfig   `yaml:"metrics"         mapstructure:"metrics"`
	Service        ServiceConfig   `yaml:"service"         mapstructure:"service"`

	// Source is the config file that was read, empty when none was found.
	Source string `yaml:"-" mapstructure:"-"`

	settings map[string]interface{}
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// ConfigFile is an explicit config file; it must exist when set.
	ConfigFile string

	// Flags are bound on top of every other source. Only flags that were
	// set on the command line take effect.
	Flags *pflag.FlagSet

	// FlagKeys maps flag names to config keys, e.g. "log-file" -> "log_file".
	FlagKeys map[string]string
}

// DefaultFlagKeys is the mapping used by the CLI's global flags.
var DefaultFlagKeys = map[string]string{
	"efibootmgr": "efibootmgr_path",
	"log-file":   "log_file",
	"log-level":  "log_level",
	"metrics":    "metrics.textfile",
}

func setDefaults(v *viper.Viper, paths *Paths) {
	v.SetDefault("efibootmgr_path", "efibootmgr")
	v.SetDefault("efivars_dir", paths.EFIVarsDir)
	v.SetDefault("verbose_report", false)

	v.SetDefault("log_file", paths.LogFile)
	v.SetDefault("log_level", "info")

	v.SetDefault("apply.attempts", 3)
	v.SetDefault("apply.delay", "5s")

	v.SetDefault("readiness.timeout", "60s")
	v.SetDefault("readiness.interval", "2s")

	v.SetDefault("metrics.textfile", "")

	v.SetDefault("service.unit_path", paths.UnitFile)
	v.SetDefault("service.binary_path", "/usr/local/sbin/pxefirst")
	v.SetDefault("service.timeout", "120s")
}

// Load builds the effective configuration.
func Load(opts LoadOptions) (*Config, error) {
	paths := DefaultPaths()
	v := viper.New()
	setDefaults(v, paths)

	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	source := ""
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
		source = opts.ConfigFile
	} else {
		v.SetConfigFile(paths.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", paths.ConfigFile, err)
			}
		} else {
			source = paths.ConfigFile
		}
	}

	if opts.Flags != nil {
		for name, key := range opts.FlagKeys {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("config: unable to bind flag %s: %w", name, err)
			}
		}
	}

	conf := &Config{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	conf.Source = source
	conf.settings = v.AllSettings()

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Apply.Attempts < 1 {
		return fmt.Errorf("invalid config: apply.attempts must be at least 1, got %d", c.Apply.Attempts)
	}
	if c.Apply.Delay < 0 {
		return fmt.Errorf("invalid config: apply.delay must not be negative")
	}
	if c.Readiness.Interval <= 0 {
		return fmt.Errorf("invalid config: readiness.interval must be positive")
	}
	if c.Readiness.Timeout < 0 {
		return fmt.Errorf("invalid config: readiness.timeout must not be negative")
	}
	switch c.LogLevel {
	case "debug", "info":
	default:
		return fmt.Errorf("invalid config: log_level must be debug or info, got %q", c.LogLevel)
	}
	return nil
}

// ReadinessAttempts is the number of readiness probes that fit in the timeout.
func (c *Config) ReadinessAttempts() int {
	if c.Readiness.Interval <= 0 {
		return 1
	}
	return int(c.Readiness.Timeout/c.Readiness.Interval) + 1
}

// Settings returns the raw settings as a nested map keyed by config key.
func (c *Config) Settings() map[string]interface{} {
	return c.settings
}

// YAML renders the effective configuration, including defaults, as YAML.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
