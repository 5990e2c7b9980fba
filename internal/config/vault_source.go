package config

import (
	"context"
	"fmt"
	"os"
	"time"

	vault "github.com/hashicorp/vault/api"
	log "github.com/sirupsen/logrus"
)

const vaultReadTimeout = 10 * time.Second

// VaultSource reads secrets from a HashiCorp Vault KV v2 mount. Each secret
// stores its value under the "value" key.
type VaultSource struct {
	client *vault.Client
	mount  string
}

// NewVaultSource connects to the Vault server at addr. An empty mount
// selects "secret".
func NewVaultSource(addr, token, mount string) (*VaultSource, error) {
	if addr == "" || token == "" {
		return nil, fmt.Errorf("vault source requires an address and a token")
	}
	if mount == "" {
		mount = "secret"
	}

	client, err := vault.NewClient(&vault.Config{Address: addr})
	if err != nil {
		return nil, fmt.Errorf("vault client init error: %w", err)
	}
	client.SetToken(token)
	return &VaultSource{client: client, mount: mount}, nil
}

// NewVaultSourceFromEnv reads VAULT_ADDR, VAULT_TOKEN and VAULT_PATH.
func NewVaultSourceFromEnv() (*VaultSource, error) {
	return NewVaultSource(os.Getenv("VAULT_ADDR"), os.Getenv("VAULT_TOKEN"), os.Getenv("VAULT_PATH"))
}

func (v *VaultSource) Name() string {
	return "vault"
}

// Get prefers an environment variable named key, then reads key from Vault.
func (v *VaultSource) Get(key string) (string, error) {
	if val := os.Getenv(key); val != "" {
		return val, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), vaultReadTimeout)
	defer cancel()

	secret, err := v.client.KVv2(v.mount).Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("vault read error (%s/%s): %w", v.mount, key, err)
	}
	val, ok := secret.Data["value"].(string)
	if !ok || val == "" {
		return "", fmt.Errorf("no 'value' field found in vault secret: %s", key)
	}
	log.WithFields(log.Fields{
		"mount": v.mount,
		"key":   key,
	}).Debug("secret read from vault")
	return val, nil
}
