package config

import (
	"os"
	"sync"
	"time"
)

type NATSConfig struct {
	URL         string
	Subject     string
	ConnTimeout time.Duration
}

var (
	natsConfig *NATSConfig
	natsOnce   sync.Once
)

func LoadNATSConfig() *NATSConfig {
	natsOnce.Do(func() {
		natsConfig = &NATSConfig{
			URL:         os.Getenv("NATS_URL"),
			Subject:     getEnvString("NATS_SUBJECT", "screener.analysis.completed"),
			ConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),
		}
	})
	return natsConfig
}
