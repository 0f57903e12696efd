package config

type Config struct {
	Database DatabaseConfig      `mapstructure:"database"`
	Redis    RedisConfig         `mapstructure:"redis"`
	Elastic  ElasticsearchConfig `mapstructure:"elasticsearch"`
	Solix    SolixConfig         `mapstructure:"solix"`
	Setup    SetupConfig         `mapstructure:"setup"`
	Crontab  CrontabConfig       `mapstructure:"crontab"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Host       string `mapstructure:"host"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	SessionTTL int    `mapstructure:"session_ttl"`
}

type ElasticsearchConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type SolixConfig struct {
	Server       string `mapstructure:"server"`
	RetryCount   int    `mapstructure:"retry_count"`
	Timeout      int    `mapstructure:"timeout"`
	SceneWorkers int    `mapstructure:"scene_workers"`
}

type SetupConfig struct {
	Domain         string `mapstructure:"domain"`
	AllowTestMode  bool   `mapstructure:"allow_test_mode"`
	ExamplesFolder string `mapstructure:"examples_folder"`
	DefaultCountry string `mapstructure:"default_country"`
	TermsLink      string `mapstructure:"terms_link"`
}

type CrontabConfig struct {
	ReloadTime string `mapstructure:"reload_time"`
}
