// Package config loads the monitor configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/acctmon/internal/acct/display"
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
	"github.com/spf13/viper"
)

// ErrNotFound is returned when the configuration file does not exist.
var ErrNotFound = errors.New("configuration file not found")

type Config struct {
	Settings SettingsConfig `mapstructure:"settings"`
	Display  DisplayConfig  `mapstructure:"display"`
	Formats  FormatsConfig  `mapstructure:"formats"`
	Log      LogConfig      `mapstructure:"log"`
	Watches  []WatchConfig  `mapstructure:"watches"`
}

type SettingsConfig struct {
	Name string `mapstructure:"name"`
}

// DisplayConfig holds the display toggles. Logs, Trace, Parse, Bloom and Debug
// only raise log verbosity.
type DisplayConfig struct {
	Accounting bool `mapstructure:"accounting"`
	Logs       bool `mapstructure:"logs"`
	Trace      bool `mapstructure:"trace"`
	Parse      bool `mapstructure:"parse"`
	Bloom      bool `mapstructure:"bloom"`
	Debug      bool `mapstructure:"debug"`
	Single     bool `mapstructure:"single"`
	Color      bool `mapstructure:"color"`
}

type FormatsConfig struct {
	ScreenFmt string `mapstructure:"screen_fmt"`
}

type WatchConfig struct {
	Address    string `mapstructure:"address"`
	Name       string `mapstructure:"name"`
	Color      string `mapstructure:"color"`
	FirstBlock uint64 `mapstructure:"first_block"`
	LastBlock  uint64 `mapstructure:"last_block"`
}

// Load reads the TOML file at path. Keys may be overridden by ACCTMON_
// prefixed environment variables (ACCTMON_SETTINGS_NAME, ...).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix("acctmon")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("formats.screen_fmt", display.DefaultFormat)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	for _, key := range []string{"accounting", "logs", "trace", "parse", "bloom", "debug", "single", "color"} {
		v.SetDefault("display."+key, false)
	}
	v.SetDefault("settings.name", "")

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if _, err := cfg.ToWatches(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ToWatches validates the watch list and converts it to model watches.
func (c *Config) ToWatches() (model.Watches, error) {
	if len(c.Watches) == 0 {
		return nil, errors.New("config has no watches")
	}
	watches := make(model.Watches, 0, len(c.Watches))
	seen := make(map[common.Address]bool, len(c.Watches))
	for i, wc := range c.Watches {
		if !common.IsHexAddress(wc.Address) {
			return nil, fmt.Errorf("watch %d: invalid address %q", i, wc.Address)
		}
		addr := common.HexToAddress(wc.Address)
		if seen[addr] {
			return nil, fmt.Errorf("watch %d: duplicate address %s", i, addr.Hex())
		}
		seen[addr] = true
		if wc.LastBlock != 0 && wc.LastBlock < wc.FirstBlock {
			return nil, fmt.Errorf("watch %d: last_block %d before first_block %d", i, wc.LastBlock, wc.FirstBlock)
		}
		name := wc.Name
		if name == "" {
			name = addr.Hex()
		}
		watches = append(watches, &model.Watch{
			Address:    addr,
			Name:       name,
			Color:      wc.Color,
			FirstBlock: wc.FirstBlock,
			LastBlock:  wc.LastBlock,
		})
	}
	return watches, nil
}

// Verbose reports whether any display toggle asks for debug logging.
func (d DisplayConfig) Verbose() bool {
	return d.Logs || d.Trace || d.Parse || d.Bloom || d.Debug
}
