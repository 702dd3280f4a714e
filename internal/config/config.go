package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/bamboo-dev/bamboo/internal/errors"
)

// ConfigFileName is looked up in the working directory when no explicit
// path is given.
const ConfigFileName = "bamboo.yaml"

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "BAMBOO_"

// Defaults.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 3000
	DefaultPrefix   = "b-"
	DefaultSelector = "body"
	DefaultLogLevel = "info"
)

// Config is the resolved configuration for the bamboo CLI.
type Config struct {
	// Template is a file path or s3://bucket/key URI of the view markup.
	Template string `koanf:"template"`

	// Data is a file path or s3://bucket/key URI of a JSON or YAML object.
	Data string `koanf:"data"`

	// Selector finds the host element in the template: #id, .class or tag.
	Selector string `koanf:"selector"`

	// Host and Port are where `bamboo serve` listens.
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// Prefix is the directive attribute prefix.
	Prefix string `koanf:"prefix"`

	// Pretty enables indented HTML output.
	Pretty bool `koanf:"pretty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Metrics exposes /metrics on the live server.
	Metrics bool `koanf:"metrics"`

	// Dedupe makes every dependency ignore repeated subscribers.
	Dedupe bool `koanf:"dedupe"`

	S3 S3Config `koanf:"s3"`

	// File is the config file that was read, or "" when none was found.
	File string `koanf:"-"`
}

// S3Config configures the S3 source backend.
type S3Config struct {
	Region       string `koanf:"region"`
	Endpoint     string `koanf:"endpoint"`
	UsePathStyle bool   `koanf:"use_path_style"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Host:     DefaultHost,
		Port:     DefaultPort,
		Prefix:   DefaultPrefix,
		Selector: DefaultSelector,
		LogLevel: DefaultLogLevel,
	}
}

func defaults() map[string]any {
	return map[string]any{
		"host":      DefaultHost,
		"port":      DefaultPort,
		"prefix":    DefaultPrefix,
		"selector":  DefaultSelector,
		"log_level": DefaultLogLevel,
		"pretty":    false,
		"metrics":   false,
		"dedupe":    false,
	}
}

// Load resolves configuration from defaults, the config file, the
// environment and flags. An explicit path that does not exist is an error;
// a missing bamboo.yaml in the working directory is not. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.New("E005").WithDetail("defaults").Wrap(err)
	}

	used := findConfigFile(path)
	if path != "" && used == "" {
		return nil, errors.New("E005").
			WithDetailf("config file %s not found", path)
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, errors.New("E005").
				WithDetailf("reading %s", used).
				Wrap(err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.New("E005").WithDetail("environment").Wrap(err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.New("E005").WithDetail("flags").Wrap(err)
		}
	}

	cfg := New()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.New("E005").WithDetail("decode").Wrap(err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return ""
		}
		return explicit
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	return ""
}

// envKey maps BAMBOO_LOG_LEVEL to log_level and BAMBOO_S3_REGION to s3.region.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "s3_"); ok {
		return "s3." + rest
	}
	return key
}

// flagKey maps --log-level to log_level and --s3-use-path-style to
// s3.use_path_style.
func flagKey(name string) string {
	if rest, ok := strings.CutPrefix(name, "s3-"); ok {
		return "s3." + strings.ReplaceAll(rest, "-", "_")
	}
	return strings.ReplaceAll(name, "-", "_")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.New("E005").
			WithDetailf("port %d is out of range", c.Port).
			WithSuggestion("Port must be between 0 and 65535")
	}
	if _, ok := levels[strings.ToLower(c.LogLevel)]; !ok {
		return errors.New("E005").
			WithDetailf("unknown log level %q", c.LogLevel).
			WithSuggestion("Use one of debug, info, warn, error")
	}
	if strings.TrimSpace(c.Selector) == "" {
		return errors.New("E005").
			WithDetail("empty host selector").
			WithSuggestion("Use #id, .class or a tag name")
	}
	if c.Prefix == "" || strings.ContainsAny(c.Prefix, " \t\n=\"'<>") {
		return errors.New("E005").
			WithDetailf("invalid directive prefix %q", c.Prefix).
			WithSuggestion("Prefixes look like b- or v-")
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// SlogLevel returns the configured level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	if l, ok := levels[strings.ToLower(c.LogLevel)]; ok {
		return l
	}
	return slog.LevelInfo
}

// Address returns host:port for the live server.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// String is used in debug logs.
func (c *Config) String() string {
	return fmt.Sprintf("template=%s data=%s selector=%s addr=%s prefix=%s",
		c.Template, c.Data, c.Selector, c.Address(), c.Prefix)
}
