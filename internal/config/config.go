// Package config loads the limpia application configuration from
// defaults, flags, environment variables, and an optional config file.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Normalize NormalizeConfig `mapstructure:"normalize"`
	LogLevel  string          `mapstructure:"log_level"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	MaxUploadBytes  int64  `mapstructure:"max_upload_bytes"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type NormalizeConfig struct {
	RepeatThreshold       int `mapstructure:"repeat_threshold"`
	MaxRepeatedLineLength int `mapstructure:"max_repeated_line_length"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr:      ":8080",
			MaxUploadBytes:  16 << 20, // 16 MiB
			RequestTimeout:  30,
			ShutdownTimeout: 10,
		},
		Normalize: NormalizeConfig{
			RepeatThreshold:       2,
			MaxRepeatedLineLength: 80,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int64("server-max-upload-bytes", defaults.Server.MaxUploadBytes, "Maximum accepted upload size in bytes")
	fs.Int("server-request-timeout", defaults.Server.RequestTimeout, "Per-request conversion deadline in seconds")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown deadline in seconds")
	fs.Int("normalize-repeat-threshold", defaults.Normalize.RepeatThreshold, "Occurrences a line must exceed to count as a repeated header/footer")
	fs.Int("normalize-max-repeated-line-length", defaults.Normalize.MaxRepeatedLineLength, "Length in runes at which a repeated line is kept anyway")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	v.SetEnvPrefix("LIMPIA")
	replacer := strings.NewReplacer("-", "_", ".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("limpia")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.max_upload_bytes", c.Server.MaxUploadBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("normalize.repeat_threshold", c.Normalize.RepeatThreshold)
	v.SetDefault("normalize.max_repeated_line_length", c.Normalize.MaxRepeatedLineLength)
	v.SetDefault("log_level", c.LogLevel)
}

// bindFlags binds each config key to its flag. A changed flag overrides
// env and config-file values; an unchanged flag does not shadow them.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	binds := map[string]string{
		"server.listen_addr":                 "server-listen-addr",
		"server.max_upload_bytes":            "server-max-upload-bytes",
		"server.request_timeout":             "server-request-timeout",
		"server.shutdown_timeout":            "server-shutdown-timeout",
		"normalize.repeat_threshold":         "normalize-repeat-threshold",
		"normalize.max_repeated_line_length": "normalize-max-repeated-line-length",
		"log_level":                          "log-level",
	}
	for key, name := range binds {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func validate(cfg Config) error {
	if cfg.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", cfg.Server.MaxUploadBytes)
	}
	if cfg.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive, got %d", cfg.Server.RequestTimeout)
	}
	if cfg.Normalize.RepeatThreshold <= 0 {
		return fmt.Errorf("normalize.repeat_threshold must be positive, got %d", cfg.Normalize.RepeatThreshold)
	}
	if cfg.Normalize.MaxRepeatedLineLength <= 0 {
		return fmt.Errorf("normalize.max_repeated_line_length must be positive, got %d", cfg.Normalize.MaxRepeatedLineLength)
	}
	return nil
}
