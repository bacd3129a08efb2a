// config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Server          ServerConfig
	Database        DatabaseConfig
	Mpesa           MpesaConfig
	Stripe          StripeConfig
	Ledger          LedgerConfig
	BaseCallbackURL string
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MpesaConfig struct {
	Environment    string
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
}

type StripeConfig struct {
	SecretKey string
}

// LedgerConfig points the service at an external ledger. When URL is empty
// the local Postgres ledger is used instead.
type LedgerConfig struct {
	URL       string
	APIKey    string
	APISecret string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "billing"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Mpesa: MpesaConfig{
			Environment:    getEnv("MPESA_ENVIRONMENT", "sandbox"),
			BaseURL:        getEnv("MPESA_BASE_URL", ""),
			ConsumerKey:    getEnv("MPESA_CONSUMER_KEY", ""),
			ConsumerSecret: getEnv("MPESA_CONSUMER_SECRET", ""),
			ShortCode:      getEnv("MPESA_SHORT_CODE", ""),
			Passkey:        getEnv("MPESA_PASSKEY", ""),
		},
		Stripe: StripeConfig{
			SecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		},
		Ledger: LedgerConfig{
			URL:       getEnv("LEDGER_URL", ""),
			APIKey:    getEnv("LEDGER_API_KEY", ""),
			APISecret: getEnv("LEDGER_API_SECRET", ""),
		},
		BaseCallbackURL: getEnv("CALLBACK_BASE_URL", ""),
	}

	if cfg.Mpesa.BaseURL == "" {
		cfg.Mpesa.BaseURL = "https://sandbox.safaricom.co.ke"
		if cfg.Mpesa.Environment == "production" {
			cfg.Mpesa.BaseURL = "https://api.safaricom.co.ke"
		}
	}

	var missing []string
	for key, val := range map[string]string{
		"MPESA_CONSUMER_KEY":    cfg.Mpesa.ConsumerKey,
		"MPESA_CONSUMER_SECRET": cfg.Mpesa.ConsumerSecret,
		"MPESA_SHORT_CODE":      cfg.Mpesa.ShortCode,
		"MPESA_PASSKEY":         cfg.Mpesa.Passkey,
		"STRIPE_SECRET_KEY":     cfg.Stripe.SecretKey,
		"CALLBACK_BASE_URL":     cfg.BaseCallbackURL,
	} {
		if val == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if cfg.Ledger.URL != "" && (cfg.Ledger.APIKey == "" || cfg.Ledger.APISecret == "") {
		return nil, fmt.Errorf("LEDGER_URL is set but LEDGER_API_KEY/LEDGER_API_SECRET are missing")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
