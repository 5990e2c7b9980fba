package verifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// TurnstileEndpoint is Cloudflare's siteverify URL.
const TurnstileEndpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// DefaultTimeout bounds a verification round trip when none is configured.
const DefaultTimeout = 5 * time.Second

var (
	// ErrStatus is returned for a non-2xx response.
	ErrStatus = errors.New("unexpected status")
	// ErrMissingSuccess is returned when the body has no "success" field.
	ErrMissingSuccess = errors.New("response has no success field")
)

// Siteverify posts tokens to a siteverify endpoint.
type Siteverify struct {
	Endpoint string
	Client   *http.Client
}

func NewSiteverify(endpoint string, timeout time.Duration) *Siteverify {
	if endpoint == "" {
		endpoint = TurnstileEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Siteverify{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: timeout},
	}
}

type rawResult struct {
	Success     *bool    `json:"success"`
	ErrorCodes  []string `json:"error-codes,omitempty"`
	ChallengeTS string   `json:"challenge_ts,omitempty"`
	Hostname    string   `json:"hostname,omitempty"`
	Action      string   `json:"action,omitempty"`
	CData       string   `json:"cdata,omitempty"`
}

// Verify sends r and decodes the response. Transport failures, non-2xx
// statuses and malformed bodies are all returned as errors.
func (s *Siteverify) Verify(ctx context.Context, r Request) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, strings.NewReader(r.Encode()))
	if err != nil {
		return Result{}, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("siteverify request failed: %w", err)
	}
	defer func() {
		// Drain so the keep-alive connection can be reused.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	var raw rawResult
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Result{}, fmt.Errorf("siteverify decode error: %w", err)
	}
	if raw.Success == nil {
		return Result{}, ErrMissingSuccess
	}

	log.WithFields(log.Fields{
		"success":     *raw.Success,
		"error_codes": raw.ErrorCodes,
		"hostname":    raw.Hostname,
	}).Debug("siteverify response decoded")

	return Result{
		Success:     *raw.Success,
		ErrorCodes:  raw.ErrorCodes,
		ChallengeTS: raw.ChallengeTS,
		Hostname:    raw.Hostname,
		Action:      raw.Action,
		CData:       raw.CData,
	}, nil
}
