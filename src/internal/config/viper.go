package config

import (
	"strings"

	"github.com/spf13/viper"
)

// NewViper loads configuration from config.json in the working directory
// when present, then lets environment variables override every key
// (REDIS_HOST overrides redis.host).
func NewViper() *viper.Viper {
	config := viper.New()

	config.SetConfigName("config")
	config.SetConfigType("json")
	config.AddConfigPath("./")
	config.AddConfigPath("./../")
	_ = config.ReadInConfig()

	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	return config
}
