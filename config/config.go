package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver  string `mapstructure:"db_driver"`
	DBDSN     string `mapstructure:"db_dsn"`
	Port      string `mapstructure:"port"`
	JWTSecret string `mapstructure:"jwt_secret"`
	GinMode   string `mapstructure:"gin_mode"`
}

// Load reads defaults, an optional config.yaml next to the binary, and
// HRMS_* environment overrides (HRMS_DB_DSN, HRMS_JWT_SECRET, ...).
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("db_driver", "mysql")
	v.SetDefault("db_dsn", "admin:12345678@tcp(127.0.0.1:3306)/hrmsdb?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("port", "8000")
	v.SetDefault("jwt_secret", "supersecretkey")
	v.SetDefault("gin_mode", "debug")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("hrms")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
