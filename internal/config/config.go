package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix          = "HUMANSONLY"
	defaultHTTPAddress = "0.0.0.0:8080"
	defaultMySQLDSN    = "root:root@tcp(127.0.0.1:3306)/humansonly?charset=utf8mb4&parseTime=True"
	defaultRedisAddr   = "127.0.0.1:6379"
	defaultLogLevel    = "info"
	defaultKafkaTopic  = "humansonly.events"
)

// AppConfig 服务运行配置
type AppConfig struct {
	HTTPAddress   string
	MySQLDSN      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KafkaBrokers  []string
	KafkaTopic    string
	AccessSecret  string
	RefreshSecret string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFrom      string
	LogLevel      string
}

// NewViper 带默认值和环境变量绑定的viper实例
func NewViper() *viper.Viper {
	v := viper.New()
	ApplyDefaults(v)
	return v
}

// ApplyDefaults 设置默认值并绑定 HUMANSONLY_ 前缀环境变量
func ApplyDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.address", defaultHTTPAddress)
	v.SetDefault("mysql.dsn", defaultMySQLDSN)
	v.SetDefault("redis.addr", defaultRedisAddr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("kafka.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("kafka.topic", defaultKafkaTopic)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("smtp.port", 587)
}

// Load 从viper读出配置并校验
func Load(v *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:   v.GetString("http.address"),
		MySQLDSN:      v.GetString("mysql.dsn"),
		RedisAddr:     v.GetString("redis.addr"),
		RedisPassword: v.GetString("redis.password"),
		RedisDB:       v.GetInt("redis.db"),
		KafkaBrokers:  v.GetStringSlice("kafka.brokers"),
		KafkaTopic:    v.GetString("kafka.topic"),
		AccessSecret:  v.GetString("jwt.access_secret"),
		RefreshSecret: v.GetString("jwt.refresh_secret"),
		SMTPHost:      v.GetString("smtp.host"),
		SMTPPort:      v.GetInt("smtp.port"),
		SMTPUsername:  v.GetString("smtp.username"),
		SMTPPassword:  v.GetString("smtp.password"),
		SMTPFrom:      v.GetString("smtp.from"),
		LogLevel:      v.GetString("log.level"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.HTTPAddress) == "" {
		return fmt.Errorf("http address is required")
	}
	if strings.TrimSpace(c.MySQLDSN) == "" {
		return fmt.Errorf("mysql dsn is required")
	}
	return nil
}
