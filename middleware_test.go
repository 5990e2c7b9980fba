package captcha

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		remote      string
		remoteCode  int
		explicit    bool
		contentType string
		body        string
		wantCode    int
		wantStatus  string
	}{
		{
			name:        "verified form",
			remote:      `{"success":true}`,
			contentType: "application/x-www-form-urlencoded",
			body:        "cf-turnstile-response=abc123",
			wantCode:    http.StatusNoContent,
		},
		{
			name:        "verified json",
			remote:      `{"success":true}`,
			contentType: "application/json",
			body:        `{"cf-turnstile-response":"abc123"}`,
			wantCode:    http.StatusNoContent,
		},
		{
			name:        "rejected",
			remote:      `{"success":false,"error-codes":["invalid-input-response"]}`,
			explicit:    true,
			contentType: "application/x-www-form-urlencoded",
			body:        "cf-turnstile-response=abc123",
			wantCode:    http.StatusBadRequest,
			wantStatus:  StatusRejected,
		},
		{
			name:        "duplicate field with explicit errors",
			remote:      `{"success":true}`,
			explicit:    true,
			contentType: "application/x-www-form-urlencoded",
			body:        "cf-turnstile-response=a&cf-turnstile-response=b",
			wantCode:    http.StatusBadRequest,
			wantStatus:  StatusInvalidResponse,
		},
		{
			name:        "array json with explicit errors",
			remote:      `{"success":true}`,
			explicit:    true,
			contentType: "application/json",
			body:        `{"cf-turnstile-response":["x","y"]}`,
			wantCode:    http.StatusBadRequest,
			wantStatus:  StatusInvalidResponse,
		},
		{
			name:        "outage with explicit errors",
			remoteCode:  http.StatusServiceUnavailable,
			explicit:    true,
			contentType: "application/x-www-form-urlencoded",
			body:        "cf-turnstile-response=abc123",
			wantCode:    http.StatusBadGateway,
			wantStatus:  StatusAPIFailure,
		},
		{
			name:        "outage without explicit errors",
			remoteCode:  http.StatusServiceUnavailable,
			contentType: "application/x-www-form-urlencoded",
			body:        "cf-turnstile-response=abc123",
			wantCode:    http.StatusBadRequest,
			wantStatus:  StatusRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &siteverifyStub{status: tt.remoteCode, body: tt.remote}
			srv := stub.serve(t)
			c, err := NewClient(ClientConfig{Secret: "s3cret", Endpoint: srv.URL})
			require.NoError(t, err)

			h := Middleware(New(c, WithExplicitErrors(tt.explicit)))(okHandler())
			req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantStatus == "" {
				return
			}
			var body VerificationResult
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, DefaultMessage, body.Message)
		})
	}
}

func TestMiddlewareRemoteIP(t *testing.T) {
	stub := &siteverifyStub{body: `{"success":true}`}
	srv := stub.serve(t)
	c, err := NewClient(ClientConfig{Secret: "s3cret", Endpoint: srv.URL})
	require.NoError(t, err)

	h := Middleware(New(c), WithRemoteIP())(okHandler())
	req := formRequest("cf-turnstile-response=abc123")
	req.RemoteAddr = "203.0.113.7:51234"
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "secret=s3cret&response=abc123&remoteip=203.0.113.7", stub.form())
}

func TestMiddlewareCustomFailureHandler(t *testing.T) {
	stub := &siteverifyStub{body: `{"success":false}`}
	srv := stub.serve(t)
	c, err := NewClient(ClientConfig{Secret: "s3cret", Endpoint: srv.URL})
	require.NoError(t, err)

	var got Result
	h := Middleware(New(c), WithFailureHandler(func(w http.ResponseWriter, _ *http.Request, res Result) {
		got = res
		w.WriteHeader(http.StatusTeapot)
	}))(okHandler())
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, formRequest("cf-turnstile-response=abc123"))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.False(t, got.Valid)
	assert.Equal(t, DefaultMessage, got.Message)
}

func TestDescribe(t *testing.T) {
	code, body := Describe(Result{Valid: true})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, VerificationResult{Success: true, Status: StatusVerified}, body)

	code, body = Describe(Result{Message: "m", Err: invalidResponse("x", nil)})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, StatusInvalidResponse, body.Status)

	code, body = Describe(Result{Message: "m", Err: apiFailure("x", nil)})
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, StatusAPIFailure, body.Status)
}
