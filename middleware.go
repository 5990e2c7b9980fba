package captcha

import (
	"encoding/json"
	"errors"
	"mime"
	"net"
	"net/http"
)

// Statuses reported in VerificationResult.
const (
	StatusVerified        = "verified"
	StatusRejected        = "rejected"
	StatusInvalidResponse = "invalid_response"
	StatusAPIFailure      = "api_failure"
)

// VerificationResult is the body written by JSONFailureHandler.
type VerificationResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type FailureHandler func(http.ResponseWriter, *http.Request, Result)

type middlewareConfig struct {
	failureHandler FailureHandler
	remoteIP       bool
}

type MiddlewareOption func(*middlewareConfig)

func WithFailureHandler(handler FailureHandler) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		if handler != nil {
			cfg.failureHandler = handler
		}
	}
}

// WithRemoteIP forwards the client address to the verification endpoint as
// the "remoteip" parameter.
func WithRemoteIP() MiddlewareOption {
	return func(cfg *middlewareConfig) {
		cfg.remoteIP = true
	}
}

// Middleware rejects requests whose captcha response does not validate.
func Middleware(v *Validator, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{
		failureHandler: JSONFailureHandler(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var extra []Param
			if cfg.remoteIP {
				if ip := remoteIP(r); ip != "" {
					extra = append(extra, Param{Name: "remoteip", Value: ip})
				}
			}

			res := v.Validate(r.Context(), RequestFields(r), extra...)
			if !res.Valid {
				cfg.failureHandler(w, r, res)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestFields picks JSONFields or FormFields from the request content type.
func RequestFields(r *http.Request) FieldSource {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		return JSONFields(r)
	}
	return FormFields(r)
}

// Describe converts a Result into the status and body reported to clients.
func Describe(res Result) (int, VerificationResult) {
	if res.Valid {
		return http.StatusOK, VerificationResult{Success: true, Status: StatusVerified}
	}
	body := VerificationResult{Status: StatusRejected, Message: res.Message}
	switch {
	case errors.Is(res.Err, ErrAPIFailure):
		body.Status = StatusAPIFailure
		return http.StatusBadGateway, body
	case errors.Is(res.Err, ErrInvalidResponse):
		body.Status = StatusInvalidResponse
	}
	return http.StatusBadRequest, body
}

func JSONFailureHandler() FailureHandler {
	return func(w http.ResponseWriter, _ *http.Request, res Result) {
		status, body := Describe(res)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
