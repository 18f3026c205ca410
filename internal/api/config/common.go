package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	// IQNET_DATABASE_DSN 覆盖 database.dsn
	viper.SetEnvPrefix("IQNET")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("database.driver", "mysql")
	viper.SetDefault("jwt.expiration_hours", 24)
	viper.SetDefault("rate_limit.rps", 5)
	viper.SetDefault("rate_limit.burst", 10)
	viper.SetDefault("rate_limit.ttl_minutes", 10)
	viper.SetDefault("notification.retention_days", 30)
	viper.SetDefault("notification.cleanup_cron", "0 30 3 * * *")
	viper.SetDefault("notification.list_limit", 40)
	viper.SetDefault("notification.unread_limit", 20)
	viper.SetDefault("feed.page_size", 10)
}
