package config

import (
	"log"
	"os"
	"sync"
)

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	BaseURL  string
	LogJSON  bool
	LogDebug bool
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
			log.Printf("Warning: APP_ENV not set, defaulting to %s", env)
		}
		appConfig = &AppConfig{
			Name:     getEnvString("APP_NAME", "resume-screener"),
			Env:      env,
			Port:     getEnvString("APP_PORT", ":8000"),
			BaseURL:  os.Getenv("APP_URL"),
			LogJSON:  getEnvBool("LOG_JSON", env == "production"),
			LogDebug: getEnvBool("LOG_DEBUG", false),
		}
	})
	return appConfig
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
