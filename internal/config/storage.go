package config

import (
	"os"
	"sync"
)

type StorageConfig struct {
	ConnectionString string
	ResumesContainer string
}

var (
	storageConfig *StorageConfig
	storageOnce   sync.Once
)

func LoadStorageConfig() *StorageConfig {
	storageOnce.Do(func() {
		storageConfig = &StorageConfig{
			ConnectionString: os.Getenv("AZURE_STORAGE_CONNECTION_STRING"),
			ResumesContainer: getEnvString("AZURE_RESUMES_CONTAINER", "resumes"),
		}
	})
	return storageConfig
}

func (c *StorageConfig) Enabled() bool {
	return c.ConnectionString != ""
}
