package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Secret backends for API credentials
const (
	SecretsBackendEnv   = "env"
	SecretsBackendAWS   = "aws"
	SecretsBackendVault = "vault"
	SecretsBackendLocal = "local"
)

// Config holds all application configuration
type Config struct {
	Paycek   PaycekConfig
	Secrets  SecretsConfig
	Callback CallbackConfig
	Logger   LoggerConfig
}

// PaycekConfig holds API client configuration
type PaycekConfig struct {
	Host      string // e.g. https://paycek.io
	APIKey    string // Only read when the secrets backend is "env"
	APISecret string // Only read when the secrets backend is "env"
	Timeout   int    // Request timeout in seconds (default: 30)
}

// TimeoutDuration returns the request timeout as a duration
func (c *PaycekConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// SecretsConfig selects where API credentials come from
type SecretsConfig struct {
	Backend string // env, aws, vault, local
	Path    string // Secret name/path holding {"api_key": ..., "api_secret": ...}

	AWSRegion   string
	AWSProfile  string
	AWSEndpoint string // LocalStack and other custom endpoints

	VaultAddr       string
	VaultAuthMethod string // token or approle
	VaultToken      string
	VaultRoleID     string
	VaultSecretID   string
	VaultNamespace  string // Vault Enterprise
	VaultMount      string
	VaultKVVersion  string // v1 or v2

	LocalDir string
}

// CallbackConfig holds the callback receiver configuration
type CallbackConfig struct {
	Addr        string // Listen address for callbacks (default: :8080)
	Path        string // Path callbacks are delivered to
	MetricsPort int
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Paycek: PaycekConfig{
			Host:      getEnv("PAYCEK_API_HOST", "https://paycek.io"),
			APIKey:    getEnv("PAYCEK_API_KEY", ""),
			APISecret: getEnv("PAYCEK_API_SECRET", ""),
			Timeout:   getEnvAsInt("PAYCEK_TIMEOUT", 30),
		},
		Secrets: SecretsConfig{
			Backend:         getEnv("SECRETS_BACKEND", SecretsBackendEnv),
			Path:            getEnv("SECRETS_PATH", ""),
			AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
			AWSProfile:      getEnv("AWS_PROFILE", ""),
			AWSEndpoint:     getEnv("AWS_ENDPOINT", ""),
			VaultAddr:       getEnv("VAULT_ADDR", "http://127.0.0.1:8200"),
			VaultAuthMethod: getEnv("VAULT_AUTH_METHOD", "token"),
			VaultToken:      getEnv("VAULT_TOKEN", ""),
			VaultRoleID:     getEnv("VAULT_ROLE_ID", ""),
			VaultSecretID:   getEnv("VAULT_SECRET_ID", ""),
			VaultNamespace:  getEnv("VAULT_NAMESPACE", ""),
			VaultMount:      getEnv("VAULT_MOUNT", "secret"),
			VaultKVVersion:  getEnv("VAULT_KV_VERSION", "v2"),
			LocalDir:        getEnv("LOCAL_SECRETS_DIR", "./secrets"),
		},
		Callback: CallbackConfig{
			Addr:        getEnv("CALLBACK_ADDR", ":8080"),
			Path:        getEnv("CALLBACK_PATH", "/paycek/callback"),
			MetricsPort: getEnvAsInt("METRICS_PORT", 9090),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields for the selected secrets backend
func (c *Config) Validate() error {
	if c.Paycek.Timeout <= 0 {
		return fmt.Errorf("PAYCEK_TIMEOUT must be positive")
	}

	switch c.Secrets.Backend {
	case SecretsBackendEnv:
		if c.Paycek.APIKey == "" {
			return fmt.Errorf("PAYCEK_API_KEY is required")
		}
		if c.Paycek.APISecret == "" {
			return fmt.Errorf("PAYCEK_API_SECRET is required")
		}
	case SecretsBackendAWS, SecretsBackendLocal:
		if c.Secrets.Path == "" {
			return fmt.Errorf("SECRETS_PATH is required for the %s backend", c.Secrets.Backend)
		}
	case SecretsBackendVault:
		if c.Secrets.Path == "" {
			return fmt.Errorf("SECRETS_PATH is required for the vault backend")
		}
		switch c.Secrets.VaultAuthMethod {
		case "token":
			if c.Secrets.VaultToken == "" {
				return fmt.Errorf("VAULT_TOKEN is required for token auth")
			}
		case "approle":
			if c.Secrets.VaultRoleID == "" || c.Secrets.VaultSecretID == "" {
				return fmt.Errorf("VAULT_ROLE_ID and VAULT_SECRET_ID are required for approle auth")
			}
		default:
			return fmt.Errorf("unknown VAULT_AUTH_METHOD %q", c.Secrets.VaultAuthMethod)
		}
		if c.Secrets.VaultKVVersion != "v1" && c.Secrets.VaultKVVersion != "v2" {
			return fmt.Errorf("VAULT_KV_VERSION must be v1 or v2")
		}
	default:
		return fmt.Errorf("unknown SECRETS_BACKEND %q", c.Secrets.Backend)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
