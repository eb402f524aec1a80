package ports

import (
	"context"
)

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value     string            // The secret payload (JSON credentials document)
	Version   string            // Secret version identifier
	Metadata  map[string]string // Additional secret metadata
	CreatedAt string            // When this version was created
}

// SecretManager defines the port for retrieving secrets from a secret management service
// Supports multiple backends: AWS Secrets Manager, HashiCorp Vault, local filesystem
type SecretManager interface {
	// GetSecret retrieves a secret by its path/name
	// Path format depends on implementation:
	//   - AWS: "paycek/merchant/credentials" or full ARN
	//   - Vault: "paycek/merchant" (under the configured KV mount)
	//   - Local: file path relative to the base directory
	// Returns error if:
	//   - Secret does not exist
	//   - Insufficient permissions
	//   - Network communication fails
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
