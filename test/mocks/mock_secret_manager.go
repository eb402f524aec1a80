package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/kevin07696/paycek-go/pkg/ports"
)

// MockSecretManager is an in-memory ports.SecretManager for testing
type MockSecretManager struct {
	mu      sync.Mutex
	secrets map[string]string
	Err     error

	GetCalls []string
}

// NewMockSecretManager creates a mock seeded with path -> value pairs
func NewMockSecretManager(secrets map[string]string) *MockSecretManager {
	if secrets == nil {
		secrets = make(map[string]string)
	}
	return &MockSecretManager{secrets: secrets}
}

// GetSecret implements ports.SecretManager
func (m *MockSecretManager) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, path)

	if m.Err != nil {
		return nil, m.Err
	}
	value, ok := m.secrets[path]
	if !ok {
		return nil, fmt.Errorf("secret not found: %s", path)
	}
	return &ports.Secret{Value: value, Version: "v1"}, nil
}
