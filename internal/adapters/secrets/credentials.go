package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kevin07696/paycek-go/internal/config"
	"github.com/kevin07696/paycek-go/pkg/paycek"
	"github.com/kevin07696/paycek-go/pkg/ports"
	"go.uber.org/zap"
)

// credentialsDocument is the JSON layout of a stored Paycek key pair
type credentialsDocument struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
}

// NewSecretManager builds the secret manager selected by cfg.Backend.
// The env backend has no secret manager and returns nil.
func NewSecretManager(ctx context.Context, cfg config.SecretsConfig, logger *zap.Logger) (ports.SecretManager, error) {
	switch cfg.Backend {
	case config.SecretsBackendEnv:
		return nil, nil

	case config.SecretsBackendAWS:
		awsCfg := DefaultAWSSecretsManagerConfig(cfg.AWSRegion)
		awsCfg.Profile = cfg.AWSProfile
		awsCfg.Endpoint = cfg.AWSEndpoint
		return NewAWSSecretsManagerAdapter(ctx, awsCfg, logger)

	case config.SecretsBackendVault:
		vaultCfg := DefaultVaultConfig(cfg.VaultAddr)
		if cfg.VaultAuthMethod != "" {
			vaultCfg.AuthMethod = cfg.VaultAuthMethod
		}
		vaultCfg.Token = cfg.VaultToken
		vaultCfg.RoleID = cfg.VaultRoleID
		vaultCfg.SecretID = cfg.VaultSecretID
		vaultCfg.Namespace = cfg.VaultNamespace
		vaultCfg.MountPath = cfg.VaultMount
		if cfg.VaultKVVersion != "" {
			vaultCfg.KVVersion = cfg.VaultKVVersion
		}
		return NewVaultAdapter(ctx, vaultCfg, logger)

	case config.SecretsBackendLocal:
		return NewLocalSecretManager(cfg.LocalDir, logger), nil

	default:
		return nil, fmt.Errorf("unsupported secrets backend: %s", cfg.Backend)
	}
}

// LoadCredentials reads a {"api_key", "api_secret"} document from the secret manager
func LoadCredentials(ctx context.Context, sm ports.SecretManager, path string) (paycek.Credentials, error) {
	secret, err := sm.GetSecret(ctx, path)
	if err != nil {
		return paycek.Credentials{}, fmt.Errorf("failed to load Paycek credentials: %w", err)
	}

	var doc credentialsDocument
	if err := json.Unmarshal([]byte(secret.Value), &doc); err != nil {
		return paycek.Credentials{}, fmt.Errorf("secret %s is not a credentials document: %w", path, err)
	}

	creds := paycek.Credentials{APIKey: doc.APIKey, APISecret: doc.APISecret}
	if err := creds.Validate(); err != nil {
		return paycek.Credentials{}, fmt.Errorf("secret %s: %w", path, err)
	}
	return creds, nil
}

// ResolveCredentials returns the key pair from the environment or from the configured
// secret manager.
func ResolveCredentials(ctx context.Context, cfg *config.Config, logger *zap.Logger) (paycek.Credentials, error) {
	if cfg.Secrets.Backend == config.SecretsBackendEnv {
		creds := paycek.Credentials{APIKey: cfg.Paycek.APIKey, APISecret: cfg.Paycek.APISecret}
		return creds, creds.Validate()
	}

	sm, err := NewSecretManager(ctx, cfg.Secrets, logger)
	if err != nil {
		return paycek.Credentials{}, err
	}
	return LoadCredentials(ctx, sm, cfg.Secrets.Path)
}
