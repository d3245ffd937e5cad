package config

// Config 配置主体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logstash  LogstashConfig  `mapstructure:"logstash"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Collector CollectorConfig `mapstructure:"collector"`
	Providers ProvidersConfig `mapstructure:"providers"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogstashConfig 远程日志配置，Address 为空时只打 stdout
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// CollectorConfig 采集任务配置
type CollectorConfig struct {
	CronSpec       string `mapstructure:"cron_spec"`       // 默认每 15 分钟
	Workers        int    `mapstructure:"workers"`         // 并发采集的 (用户, 服务商) 对数
	TimeoutSeconds int    `mapstructure:"timeout_seconds"` // 单次上游调用超时
}

// ProvidersConfig 各服务商接入配置
type ProvidersConfig struct {
	GitHub   GitHubConfig   `mapstructure:"github"`
	LeetCode LeetCodeConfig `mapstructure:"leetcode"`
	WakaTime WakaTimeConfig `mapstructure:"wakatime"`
	Fitbit   FitbitConfig   `mapstructure:"fitbit"`
}

type GitHubConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type LeetCodeConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type WakaTimeConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type FitbitConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	TokenURL     string `mapstructure:"token_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}
