package captcha

// ErrorManager decides whether validation failures are surfaced to the caller.
// The flag is fixed at construction.
type ErrorManager struct {
	explicitErrors bool
}

func NewErrorManager(explicitErrors bool) *ErrorManager {
	return &ErrorManager{explicitErrors: explicitErrors}
}

// ThrowIfExplicitErrorsEnabled returns err unchanged when explicit errors are
// enabled and nil otherwise.
func (m *ErrorManager) ThrowIfExplicitErrorsEnabled(err error) error {
	if m.explicitErrors {
		return err
	}
	return nil
}
