package captcha

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/berkan-cetinkaya/captcha/internal/metrics"
	"github.com/berkan-cetinkaya/captcha/internal/verifier"
)

// Param is an extra form parameter sent with a verification request, such as
// "remoteip" or "idempotency_key".
type Param = verifier.Param

// Client verifies a captcha token against the remote service.
type Client interface {
	// Verify reports whether the service accepted token. Any fault is
	// returned as an ErrAPIFailure.
	Verify(ctx context.Context, token string, extra ...Param) (bool, error)
}

// ClientConfig configures a TurnstileClient.
type ClientConfig struct {
	Secret   string
	Endpoint string
	Params   []Param
	Timeout  time.Duration
}

// TurnstileClient is the production Client.
type TurnstileClient struct {
	secret string
	params []Param
	sv     *verifier.Siteverify
}

func NewClient(cfg ClientConfig) (*TurnstileClient, error) {
	if cfg.Secret == "" {
		return nil, errors.New("captcha secret key cannot be empty")
	}
	return &TurnstileClient{
		secret: cfg.Secret,
		params: append([]Param(nil), cfg.Params...),
		sv:     verifier.NewSiteverify(cfg.Endpoint, cfg.Timeout),
	}, nil
}

// Endpoint returns the siteverify URL in use.
func (c *TurnstileClient) Endpoint() string {
	return c.sv.Endpoint
}

func (c *TurnstileClient) Verify(ctx context.Context, token string, extra ...Param) (bool, error) {
	params := make([]Param, 0, len(c.params)+len(extra))
	params = append(params, c.params...)
	params = append(params, extra...)

	start := time.Now()
	res, err := c.sv.Verify(ctx, verifier.Request{
		Secret:   c.secret,
		Response: token,
		Params:   params,
	})
	if err != nil {
		metrics.VerifyDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return false, apiFailure("verification request failed", err)
	}
	metrics.VerifyDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	if !res.Success {
		for _, code := range res.ErrorCodes {
			metrics.RemoteErrorCodesTotal.WithLabelValues(code).Inc()
		}
		log.WithFields(log.Fields{
			"error_codes": res.ErrorCodes,
			"hostname":    res.Hostname,
		}).Info("captcha rejected by verification endpoint")
	}
	return res.Success, nil
}
