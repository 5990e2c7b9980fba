// Package policy loads validator settings from a JSON file.
package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/berkan-cetinkaya/captcha/internal/verifier"
)

const defaultSecretKey = "TURNSTILE_SECRET_KEY"

// Policy is the validated settings file.
type Policy struct {
	// SecretKey names the secret in the config source, not its value.
	SecretKey      string
	Endpoint       string
	ExplicitErrors bool
	Timeout        time.Duration
	Field          string
	Message        string
	Params         []verifier.Param
}

type rawParam struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type rawPolicy struct {
	SecretKey      string     `json:"secret_key,omitempty"`
	Endpoint       string     `json:"endpoint,omitempty"`
	ExplicitErrors bool       `json:"explicit_errors,omitempty"`
	Timeout        string     `json:"timeout,omitempty"`
	Field          string     `json:"field,omitempty"`
	Message        string     `json:"message,omitempty"`
	Params         []rawParam `json:"params,omitempty"`
}

// Load reads and parses the settings file at path.
func Load(path string) (Policy, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Policy{}, fmt.Errorf("captcha policy path must be set")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("could not open captcha policy config: %w", err)
	}
	return Parse(data)
}

// Parse validates a settings document.
func Parse(data []byte) (Policy, error) {
	var raw rawPolicy
	if err := json.Unmarshal(data, &raw); err != nil {
		return Policy{}, fmt.Errorf("could not parse captcha policy config: %w", err)
	}

	p := Policy{
		SecretKey:      strings.TrimSpace(raw.SecretKey),
		Endpoint:       strings.TrimSpace(raw.Endpoint),
		ExplicitErrors: raw.ExplicitErrors,
		Field:          strings.TrimSpace(raw.Field),
		Message:        strings.TrimSpace(raw.Message),
	}
	if p.SecretKey == "" {
		p.SecretKey = defaultSecretKey
	}
	if p.Endpoint != "" && !strings.HasPrefix(p.Endpoint, "https://") && !strings.HasPrefix(p.Endpoint, "http://") {
		return Policy{}, fmt.Errorf("captcha policy endpoint must use http or https, got: %s", p.Endpoint)
	}
	if t := strings.TrimSpace(raw.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return Policy{}, fmt.Errorf("invalid captcha policy timeout: %w", err)
		}
		if d <= 0 {
			return Policy{}, fmt.Errorf("captcha policy timeout must be positive, got: %s", t)
		}
		p.Timeout = d
	}
	for i, rp := range raw.Params {
		name := strings.TrimSpace(rp.Name)
		if name == "" {
			return Policy{}, fmt.Errorf("captcha policy param %d has no name", i)
		}
		if name == "secret" || name == "response" {
			return Policy{}, fmt.Errorf("captcha policy param %q is reserved", name)
		}
		p.Params = append(p.Params, verifier.Param{Name: name, Value: rp.Value})
	}
	return p, nil
}
