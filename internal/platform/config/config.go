package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，存储所有应用程序配置
var Cfg *Config

// Config 结构体与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	Sqlite SqliteConfig `mapstructure:"sqlite"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

// SqliteConfig 定义了SQLite的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GameConfig 定义了游戏规则中可调的参数。
// 原型阶段审判窗口在1小时和24小时之间摇摆过，所以必须可配置。
type GameConfig struct {
	TrialVotingWindowHours   int `mapstructure:"trialVotingWindowHours"`
	TrialPollIntervalSeconds int `mapstructure:"trialPollIntervalSeconds"`
}

// TrialVotingWindow 返回审判投票窗口的时长
func (g GameConfig) TrialVotingWindow() time.Duration {
	return time.Duration(g.TrialVotingWindowHours) * time.Hour
}

// TrialPollInterval 返回后台审判巡查的间隔
func (g GameConfig) TrialPollInterval() time.Duration {
	return time.Duration(g.TrialPollIntervalSeconds) * time.Second
}

// LoadConfig 查找、加载并解析配置文件。
// 它会在 ./config 和 . 中查找 config.yaml，环境变量可覆盖任意配置项。
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 缺省值，保证没有配置文件时也能以开发模式启动
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("database.sqlite.path", "mafia.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("game.trialVotingWindowHours", 24)
	v.SetDefault("game.trialPollIntervalSeconds", 30)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 配置文件可以不存在，此时完全依赖缺省值和环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	Cfg = &cfg
	return Cfg, nil
}
