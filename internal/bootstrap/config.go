package bootstrap

import (
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort      string  `mapstructure:"SERVER_PORT"`
	RedisUrl        string  `mapstructure:"REDIS_URL"`
	MongoUri        string  `mapstructure:"MONGO_URI"`
	MongoDatabase   string  `mapstructure:"MONGO_DATABASE"`
	IsLocalCors     bool    `mapstructure:"LOCAL_CORS"`
	DefaultKomi     float64 `mapstructure:"DEFAULT_KOMI"`
	SessionTTLHours int     `mapstructure:"SESSION_TTL_HOURS"`
}

func Setup(cfgPath string) (*Config, error) {
	viper.SetConfigFile(cfgPath)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("MONGO_DATABASE", "gobaduk")
	viper.SetDefault("DEFAULT_KOMI", 6.5)
	viper.SetDefault("SESSION_TTL_HOURS", 11)

	var cfg Config

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
