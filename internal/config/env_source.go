package config

import (
	"fmt"
	"os"
	"strings"
)

// EnvSource reads values from the process environment.
type EnvSource struct{}

func NewEnvSource() *EnvSource {
	return &EnvSource{}
}

func (e *EnvSource) Name() string {
	return "env"
}

// Get returns the trimmed value of key. Unset and blank variables are errors.
func (e *EnvSource) Get(key string) (string, error) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("environment variable %s not set", key)
	}
	val = strings.TrimSpace(val)
	if val == "" {
		return "", fmt.Errorf("environment variable %s is empty", key)
	}
	return val, nil
}
