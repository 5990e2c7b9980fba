package captcha

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/berkan-cetinkaya/captcha/internal/config"
	"github.com/berkan-cetinkaya/captcha/internal/policy"
)

// LoadValidator builds a Validator from the settings file named by
// CAPTCHA_CONFIG. The config source is selected by CONFIG_PROVIDER and also
// supplies the secret.
func LoadValidator() (*Validator, error) {
	mgr, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	path, err := mgr.Get("CAPTCHA_CONFIG")
	if err != nil {
		return nil, fmt.Errorf("CAPTCHA_CONFIG must be set: %w", err)
	}
	return loadValidator(mgr, path)
}

// LoadValidatorFrom builds a Validator from the settings file at path,
// resolving the secret from the environment.
func LoadValidatorFrom(path string) (*Validator, error) {
	return loadValidator(config.NewManager(config.NewEnvSource()), path)
}

func loadValidator(mgr *config.Manager, path string) (*Validator, error) {
	p, err := policy.Load(path)
	if err != nil {
		return nil, err
	}
	secret, err := mgr.Get(p.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load secret '%s': %w", p.SecretKey, err)
	}

	client, err := NewClient(ClientConfig{
		Secret:   secret,
		Endpoint: p.Endpoint,
		Params:   p.Params,
		Timeout:  p.Timeout,
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"source":          mgr.Source(),
		"endpoint":        client.Endpoint(),
		"explicit_errors": p.ExplicitErrors,
	}).Info("captcha validator configured")

	return New(client,
		WithExplicitErrors(p.ExplicitErrors),
		WithField(p.Field),
		WithMessage(p.Message),
	), nil
}
