package main

import (
	"strings"

	"github.com/hkwi/nlcodec"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type config struct {
	LogLevel string `mapstructure:"log-level"`
	MaxDepth int    `mapstructure:"max-depth"`
	Strict   bool   `mapstructure:"strict"`
	Family   string `mapstructure:"family"`
}

func addConfigFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "config file (yaml, toml or json)")
	flags.String("log-level", "info", "logrus level")
	flags.Int("max-depth", nlcodec.DefaultMaxDepth, "nesting limit of the generic attribute walk")
	flags.Bool("strict", false, "decode with the typed codecs and stop at the first error")
	flags.String("family", "route", "netlink protocol of the input: "+strings.Join(protocolNames(), ", "))
}

// loadConfig merges, by priority, flags, NLDUMP_* environment variables
// and the config file.
func loadConfig(flags *pflag.FlagSet) (config, error) {
	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return config{}, errors.Wrap(err, "bind flags")
	}
	v.SetEnvPrefix("NLDUMP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config{}, errors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, errors.Wrap(err, "unmarshal config")
	}
	if cfg.MaxDepth < 0 {
		return config{}, errors.Errorf("max-depth %d is negative", cfg.MaxDepth)
	}
	if _, ok := protocols[cfg.Family]; !ok {
		return config{}, errors.Errorf("unknown family %q", cfg.Family)
	}
	return cfg, nil
}

func newLogger(cfg config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log-level")
	}
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(level)
	return log, nil
}
