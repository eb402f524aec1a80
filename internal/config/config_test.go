package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"PAYCEK_API_HOST", "PAYCEK_API_KEY", "PAYCEK_API_SECRET", "PAYCEK_TIMEOUT",
	"SECRETS_BACKEND", "SECRETS_PATH", "VAULT_AUTH_METHOD", "VAULT_TOKEN", "VAULT_ROLE_ID", "VAULT_SECRET_ID", "VAULT_NAMESPACE",
	"VAULT_MOUNT", "VAULT_KV_VERSION",
	"CALLBACK_ADDR", "CALLBACK_PATH", "METRICS_PORT", "LOG_LEVEL", "LOG_DEVELOPMENT",
}

// clearEnv blanks every variable LoadFromEnv reads so defaults apply
func clearEnv(t *testing.T) {
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("PAYCEK_API_KEY", "key")
	t.Setenv("PAYCEK_API_SECRET", "secret")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://paycek.io", cfg.Paycek.Host)
	assert.Equal(t, "key", cfg.Paycek.APIKey)
	assert.Equal(t, "secret", cfg.Paycek.APISecret)
	assert.Equal(t, 30*time.Second, cfg.Paycek.TimeoutDuration())
	assert.Equal(t, SecretsBackendEnv, cfg.Secrets.Backend)
	assert.Equal(t, ":8080", cfg.Callback.Addr)
	assert.Equal(t, "/paycek/callback", cfg.Callback.Path)
	assert.Equal(t, 9090, cfg.Callback.MetricsPort)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.Logger.Development)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PAYCEK_API_HOST", "https://sandbox.paycek.test")
	t.Setenv("PAYCEK_TIMEOUT", "5")
	t.Setenv("SECRETS_BACKEND", "vault")
	t.Setenv("SECRETS_PATH", "paycek/merchant")
	t.Setenv("VAULT_TOKEN", "root")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_DEVELOPMENT", "true")
	t.Setenv("METRICS_PORT", "not-a-number")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://sandbox.paycek.test", cfg.Paycek.Host)
	assert.Equal(t, 5*time.Second, cfg.Paycek.TimeoutDuration())
	assert.Equal(t, SecretsBackendVault, cfg.Secrets.Backend)
	assert.Equal(t, "paycek/merchant", cfg.Secrets.Path)
	assert.Equal(t, "secret", cfg.Secrets.VaultMount)
	assert.Equal(t, "token", cfg.Secrets.VaultAuthMethod)
	assert.Equal(t, "v2", cfg.Secrets.VaultKVVersion)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Logger.Development)
	assert.Equal(t, 9090, cfg.Callback.MetricsPort, "invalid ints fall back to the default")
}

func TestLoadFromEnv_VaultAppRole(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECRETS_BACKEND", "vault")
	t.Setenv("SECRETS_PATH", "paycek/merchant")
	t.Setenv("VAULT_AUTH_METHOD", "approle")
	t.Setenv("VAULT_ROLE_ID", "role-1")
	t.Setenv("VAULT_SECRET_ID", "secret-1")
	t.Setenv("VAULT_NAMESPACE", "payments")
	t.Setenv("VAULT_KV_VERSION", "v1")

	cfg, err := LoadFromEnv()
	require.NoError(t, err, "approle does not need VAULT_TOKEN")

	assert.Equal(t, "approle", cfg.Secrets.VaultAuthMethod)
	assert.Equal(t, "role-1", cfg.Secrets.VaultRoleID)
	assert.Equal(t, "secret-1", cfg.Secrets.VaultSecretID)
	assert.Equal(t, "payments", cfg.Secrets.VaultNamespace)
	assert.Equal(t, "v1", cfg.Secrets.VaultKVVersion)
}

func TestLoadFromEnv_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing api key",
			env:     map[string]string{"PAYCEK_API_SECRET": "secret"},
			wantErr: "PAYCEK_API_KEY is required",
		},
		{
			name:    "missing api secret",
			env:     map[string]string{"PAYCEK_API_KEY": "key"},
			wantErr: "PAYCEK_API_SECRET is required",
		},
		{
			name:    "aws without path",
			env:     map[string]string{"SECRETS_BACKEND": "aws"},
			wantErr: "SECRETS_PATH is required for the aws backend",
		},
		{
			name:    "vault without token",
			env:     map[string]string{"SECRETS_BACKEND": "vault", "SECRETS_PATH": "paycek"},
			wantErr: "VAULT_TOKEN is required",
		},
		{
			name:    "vault approle without secret id",
			env:     map[string]string{"SECRETS_BACKEND": "vault", "SECRETS_PATH": "paycek", "VAULT_AUTH_METHOD": "approle", "VAULT_ROLE_ID": "role"},
			wantErr: "VAULT_ROLE_ID and VAULT_SECRET_ID are required",
		},
		{
			name:    "vault unknown auth method",
			env:     map[string]string{"SECRETS_BACKEND": "vault", "SECRETS_PATH": "paycek", "VAULT_AUTH_METHOD": "ldap"},
			wantErr: `unknown VAULT_AUTH_METHOD "ldap"`,
		},
		{
			name:    "vault bad kv version",
			env:     map[string]string{"SECRETS_BACKEND": "vault", "SECRETS_PATH": "paycek", "VAULT_TOKEN": "root", "VAULT_KV_VERSION": "v3"},
			wantErr: "VAULT_KV_VERSION must be v1 or v2",
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"SECRETS_BACKEND": "gcp"},
			wantErr: `unknown SECRETS_BACKEND "gcp"`,
		},
		{
			name:    "non-positive timeout",
			env:     map[string]string{"PAYCEK_API_KEY": "key", "PAYCEK_API_SECRET": "secret", "PAYCEK_TIMEOUT": "0"},
			wantErr: "PAYCEK_TIMEOUT must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadFromEnv()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
