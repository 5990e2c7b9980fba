package captcha

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/berkan-cetinkaya/captcha/internal/metrics"
)

// DefaultMessage is reported for every rejected captcha.
const DefaultMessage = "The captcha is invalid. Please try again."

// Result is the outcome of a validation. Err is set only when explicit errors
// are enabled and the rejection was caused by a failure rather than by the
// verification endpoint refusing the token.
type Result struct {
	Valid   bool
	Message string
	Err     error
}

// Validator checks the captcha response carried by a request.
type Validator struct {
	client  Client
	errors  *ErrorManager
	field   string
	message string
}

// Option configures a Validator.
type Option func(*Validator)

// WithExplicitErrors sets whether failures are returned in Result.Err.
func WithExplicitErrors(enabled bool) Option {
	return func(v *Validator) {
		v.errors = NewErrorManager(enabled)
	}
}

// WithErrorManager shares an existing ErrorManager.
func WithErrorManager(m *ErrorManager) Option {
	return func(v *Validator) {
		if m != nil {
			v.errors = m
		}
	}
}

// WithField overrides the request field holding the captcha response.
func WithField(name string) Option {
	return func(v *Validator) {
		if name != "" {
			v.field = name
		}
	}
}

// WithMessage overrides the rejection message.
func WithMessage(msg string) Option {
	return func(v *Validator) {
		if msg != "" {
			v.message = msg
		}
	}
}

// New returns a Validator that verifies tokens with client. Explicit errors
// are disabled unless an option enables them.
func New(client Client, opts ...Option) *Validator {
	v := &Validator{
		client:  client,
		errors:  NewErrorManager(false),
		field:   DefaultField,
		message: DefaultMessage,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Field returns the request field the validator reads.
func (v *Validator) Field() string {
	return v.field
}

// Validate extracts the captcha response from src and verifies it. extra is
// forwarded to the client with the request.
func (v *Validator) Validate(ctx context.Context, src FieldSource, extra ...Param) Result {
	tok, err := ExtractToken(src, v.field)
	if err != nil {
		return v.fail(err)
	}

	ok, err := v.client.Verify(ctx, tok.Value(), extra...)
	if err != nil {
		return v.fail(err)
	}
	if !ok {
		metrics.ValidationsTotal.WithLabelValues("rejected").Inc()
		return Result{Message: v.message}
	}

	metrics.ValidationsTotal.WithLabelValues("valid").Inc()
	return Result{Valid: true}
}

func (v *Validator) fail(err error) Result {
	var cerr *Error
	if !errors.As(err, &cerr) {
		cerr = apiFailure("verification failed", err)
	}
	metrics.ValidationsTotal.WithLabelValues(cerr.Kind.String()).Inc()

	propagated := v.errors.ThrowIfExplicitErrorsEnabled(cerr)
	if propagated == nil {
		log.WithFields(log.Fields{
			"kind":  cerr.Kind.String(),
			"field": v.field,
		}).WithError(cerr).Warn("captcha failure treated as rejection")
	}
	return Result{Message: v.message, Err: propagated}
}
