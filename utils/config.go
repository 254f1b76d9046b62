package utils

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func InitConfig(cfgFile string, cfgPath string) error {
	// .env is optional, real environment variables win
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return err
		}
	}

	if cfgFile == "" {
		viper.SetConfigName("config")
		if cfgPath == "" {
			viper.AddConfigPath(".")
		} else {
			viper.AddConfigPath(cfgPath)
		}
	} else {
		viper.SetConfigFile(cfgFile)
	}
	setDefaults()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Running on environment alone is fine when no config file was asked for
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return err
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("server.bind-address", ":8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("auth.issuer", "kangyur-api")
	viper.SetDefault("auth.audience", "kangyur-client")
	viper.SetDefault("auth.access-ttl", "60m")
	viper.SetDefault("auth.refresh-ttl", "168h")
	viper.SetDefault("elasticsearch.index", "kangyur_texts")
	viper.SetDefault("nats.subject", "karchag")
	viper.SetDefault("storage.backend", "local")
	viper.SetDefault("storage.local-dir", "uploads")
	viper.SetDefault("storage.base-url", "/uploads")
	viper.SetDefault("cache.refresh-interval", "5m")
}
