package email

import (
	"time"

	"pareto_backend/internal/config"
)

// SMTPConfig - SMTP server settings
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

func DefaultConfig() *SMTPConfig {
	return &SMTPConfig{
		Host:    "localhost",
		Port:    587,
		UseTLS:  true,
		Timeout: 30 * time.Second,
	}
}

// ConfigFrom maps the email section of the app config
func ConfigFrom(cfg *config.Config) *SMTPConfig {
	c := DefaultConfig()
	c.Host = cfg.Email.SMTPHost
	c.Port = cfg.Email.SMTPPort
	c.Username = cfg.Email.SMTPUsername
	c.Password = cfg.Email.SMTPPassword
	c.FromEmail = cfg.Email.FromEmail
	c.FromName = cfg.Email.FromName
	c.UseTLS = cfg.Email.UseTLS
	return c
}
