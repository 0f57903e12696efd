package config

import (
	"errors"
	"strings"
	"sync"

	"github.com/HavvokLab/solix-setup/setting"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const EnvPrefix = "SOLIX"

var (
	config *Config
	once   sync.Once
)

// GetConfig loads config.yaml from the working directory once and returns it.
func GetConfig() *Config {
	once.Do(func() {
		c, err := Load("")
		if err != nil {
			log.Panic().Err(err).Msg("failed to load config")
		}
		config = c
	})

	return config
}

// Load reads the given file, or searches config.yaml in . and ./config when
// path is empty. A missing searched file falls back to defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "database.db")
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.session_ttl", 86400)
	v.SetDefault("elasticsearch.enabled", false)
	v.SetDefault("elasticsearch.host", "http://localhost:9200")
	v.SetDefault("elasticsearch.username", "")
	v.SetDefault("elasticsearch.password", "")
	v.SetDefault("solix.server", "")
	v.SetDefault("solix.retry_count", 3)
	v.SetDefault("solix.timeout", 10)
	v.SetDefault("solix.scene_workers", 2)
	v.SetDefault("setup.domain", setting.Domain)
	v.SetDefault("setup.allow_test_mode", false)
	v.SetDefault("setup.examples_folder", setting.ExamplesFolderName)
	v.SetDefault("setup.default_country", "DE")
	v.SetDefault("setup.terms_link", setting.TermsLink)
	v.SetDefault("crontab.reload_time", setting.CrontabReloadTime)
}
