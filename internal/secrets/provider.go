package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// SecretSource defines where secrets are loaded from
type SecretSource string

const (
	// SourceEnvironment loads secrets from environment variables
	SourceEnvironment SecretSource = "environment"
	// SourceVault loads secrets from Azure Key Vault
	SourceVault SecretSource = "vault"
	// SourceAuto uses vault in staging/production and environment everywhere else
	SourceAuto SecretSource = "auto"
)

// ErrSecretNotFound is returned when a secret has no value in the selected source
var ErrSecretNotFound = errors.New("secret not found")

// Getter fetches a secret by its vault name
type Getter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// Binding maps a vault secret and its environment override onto a config field
type Binding struct {
	Secret string
	Env    string
	Target *string
}

// Provider abstracts secret retrieval from different sources
type Provider struct {
	source SecretSource
	vault  Getter
	logger *zap.Logger
}

// ProviderConfig holds configuration for the secrets provider
type ProviderConfig struct {
	Source       SecretSource
	VaultName    string
	Environment  string // "development", "staging", "production"
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ResolveSource turns SourceAuto into a concrete source for the environment
func ResolveSource(source SecretSource, environment string) SecretSource {
	if source != SourceAuto {
		return source
	}
	switch environment {
	case "development", "local", "test", "":
		return SourceEnvironment
	default:
		return SourceVault
	}
}

// NewProvider creates a provider, connecting to Key Vault when the source requires it
func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	source := ResolveSource(cfg.Source, cfg.Environment)
	if source != SourceVault {
		return NewProviderWithGetter(source, nil, logger), nil
	}

	if cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name required when using vault secret source")
	}
	vaultClient, err := NewVaultClient(&VaultConfig{
		VaultName:    cfg.VaultName,
		CacheEnabled: cfg.CacheEnabled,
		CacheTTL:     cfg.CacheTTL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vault client: %w", err)
	}

	logger.Info("Secrets provider initialized",
		zap.String("source", string(source)),
		zap.String("environment", cfg.Environment),
	)
	return NewProviderWithGetter(source, vaultClient, logger), nil
}

// NewProviderWithGetter builds a provider around an existing vault getter
func NewProviderWithGetter(source SecretSource, vault Getter, logger *zap.Logger) *Provider {
	return &Provider{source: source, vault: vault, logger: logger}
}

// Lookup returns the environment override when set, otherwise the value from the configured source
func (p *Provider) Lookup(ctx context.Context, secretName, envName string) (string, error) {
	if envName != "" {
		if value := os.Getenv(envName); value != "" {
			p.logger.Debug("Using environment variable override", zap.String("env_name", envName))
			return value, nil
		}
	}

	switch p.source {
	case SourceEnvironment:
		return "", fmt.Errorf("%w: environment variable '%s' not set", ErrSecretNotFound, envName)
	case SourceVault:
		if p.vault == nil {
			return "", fmt.Errorf("vault client not initialized")
		}
		return p.vault.GetSecret(ctx, secretName)
	default:
		return "", fmt.Errorf("unknown secret source: %s", p.source)
	}
}

// Apply resolves every binding and writes found values to their targets.
// Missing secrets leave the target untouched; other failures are returned joined.
func (p *Provider) Apply(ctx context.Context, bindings []Binding) (int, error) {
	applied := 0
	var errs []error
	for _, b := range bindings {
		value, err := p.Lookup(ctx, b.Secret, b.Env)
		if errors.Is(err, ErrSecretNotFound) {
			p.logger.Debug("Secret not set, keeping configured value",
				zap.String("secret_name", b.Secret),
				zap.String("env_name", b.Env),
			)
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if value == "" {
			continue
		}
		*b.Target = value
		applied++
	}
	return applied, errors.Join(errs...)
}

// Source returns the current secret source
func (p *Provider) Source() SecretSource {
	return p.source
}

// IsVaultEnabled returns true if secrets are loaded from vault
func (p *Provider) IsVaultEnabled() bool {
	return p.source == SourceVault
}
