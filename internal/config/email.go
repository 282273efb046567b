package config

import (
	"sync"
)

type EmailConfig struct {
	CredentialsFile string
	TokenFile       string
	From            string
}

var (
	emailConfig *EmailConfig
	emailOnce   sync.Once
)

func LoadEmailConfig() *EmailConfig {
	emailOnce.Do(func() {
		emailConfig = &EmailConfig{
			CredentialsFile: getEnvString("GMAIL_CREDENTIALS_FILE", "credentials.json"),
			TokenFile:       getEnvString("GMAIL_TOKEN_FILE", "token.json"),
			From:            getEnvString("EMAIL_FROM", "me"),
		}
	})
	return emailConfig
}
