package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/KonishchevDmitry/rssreader/pkg/fetch"
	"github.com/KonishchevDmitry/rssreader/pkg/rss"
)

const envPrefix = "RSSREADER"

type Config struct {
	Fetch struct {
		ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
		UserAgent      string        `mapstructure:"user_agent"`
	} `mapstructure:"fetch"`

	Parser struct {
		// Match item fields only inside <item> elements
		ScopeToItem bool `mapstructure:"scope_to_item"`
	} `mapstructure:"parser"`

	Snapshot struct {
		// Where the reader state is saved on exit and restored from on start. Empty disables snapshots.
		Path string `mapstructure:"path"`
	} `mapstructure:"snapshot"`

	Server struct {
		Listen        string `mapstructure:"listen"`
		MetricsListen string `mapstructure:"metrics_listen"`
	} `mapstructure:"server"`

	Log struct {
		Level string `mapstructure:"level"`
		File  string `mapstructure:"file"`
	} `mapstructure:"log"`
}

// Load reads the YAML configuration file. Empty path means defaults (with environment overrides) only.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("fetch.connect_timeout", fetch.DefaultConnectTimeout)
	v.SetDefault("fetch.user_agent", fetch.DefaultUserAgent)
	v.SetDefault("parser.scope_to_item", false)
	v.SetDefault("snapshot.path", "")
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.metrics_listen", ":9101")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %q configuration file: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Fetch.ConnectTimeout <= 0 {
		return errors.New("fetch.connect_timeout must be positive")
	}
	if c.Server.Listen == "" || c.Server.MetricsListen == "" {
		return errors.New("server listen addresses must be set")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	return nil
}

func (c *Config) FetchOptions() []fetch.Option {
	return []fetch.Option{
		fetch.ConnectTimeout(c.Fetch.ConnectTimeout),
		fetch.UserAgent(c.Fetch.UserAgent),
	}
}

func (c *Config) ParserOptions() []rss.Option {
	var options []rss.Option
	if c.Parser.ScopeToItem {
		options = append(options, rss.ScopeToItem())
	}
	return options
}
