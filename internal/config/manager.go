// Package config resolves named settings and secrets from a pluggable source.
package config

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Source describes a backend that can provide configuration values.
type Source interface {
	Get(key string) (string, error)
	Name() string
}

// Manager wraps a single Source.
type Manager struct {
	source Source
}

func NewManager(source Source) *Manager {
	return &Manager{source: source}
}

// FromEnv selects a source from CONFIG_PROVIDER (env, dotenv or vault).
// An empty value selects env.
func FromEnv() (*Manager, error) {
	name := strings.ToLower(strings.TrimSpace(os.Getenv("CONFIG_PROVIDER")))
	if name == "" {
		name = "env"
	}
	source, err := newSource(name)
	if err != nil {
		return nil, err
	}
	log.WithField("provider", source.Name()).Debug("config source selected")
	return NewManager(source), nil
}

// Source returns the underlying source name.
func (m *Manager) Source() string {
	return m.source.Name()
}

// Get returns the value for a given key from the configured source.
func (m *Manager) Get(key string) (string, error) {
	return m.source.Get(key)
}

func newSource(name string) (Source, error) {
	switch name {
	case "env":
		return NewEnvSource(), nil
	case "dotenv":
		path := os.Getenv("DOTENV_PATH")
		if path == "" {
			path = ".env"
		}
		return NewDotenvSource(path)
	case "vault":
		return NewVaultSourceFromEnv()
	default:
		return nil, fmt.Errorf("unknown config provider: %s", name)
	}
}
