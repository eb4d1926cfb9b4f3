package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds shared across packages. Adapters and the resolver never
// inspect status codes directly; they match against these sentinels
// with errors.Is.
var (
	ErrConfig     = errors.New("configuration error")
	ErrAuth       = errors.New("authentication failed")
	ErrPermission = errors.New("permission denied")
	ErrNotFound   = errors.New("resource not found")
	ErrTransport  = errors.New("transport error")
)

// ConfigError reports missing or invalid credentials, detected before
// any network call is made.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, message string) error {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// APIError represents a failure reported by an upstream provider API.
// It unwraps to one of the sentinel kinds above so callers can branch
// on the kind without knowing which provider produced it.
type APIError struct {
	Provider string
	Status   int
	Message  string
	Kind     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %v (HTTP %d): %s", e.Provider, e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %v (HTTP %d)", e.Provider, e.Kind, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// FromStatus maps an HTTP status code to an APIError of the right kind.
// 401 -> ErrAuth, 403 -> ErrPermission, 404 -> ErrNotFound, everything
// else -> ErrTransport.
func FromStatus(provider string, status int, message string) error {
	kind := ErrTransport
	switch status {
	case http.StatusUnauthorized:
		kind = ErrAuth
	case http.StatusForbidden:
		kind = ErrPermission
	case http.StatusNotFound:
		kind = ErrNotFound
	}
	return &APIError{
		Provider: provider,
		Status:   status,
		Message:  message,
		Kind:     kind,
	}
}

// AuthError reports a token-acquisition failure that happened before a
// request was ever issued (key parsing, token endpoint rejection).
type AuthError struct {
	Provider string
	Wrapped  error
}

func (e *AuthError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: token acquisition failed: %v", e.Provider, e.Wrapped)
	}
	return fmt.Sprintf("%s: token acquisition failed", e.Provider)
}

func (e *AuthError) Unwrap() error {
	return ErrAuth
}

// NewAuthError creates a new AuthError
func NewAuthError(provider string, wrapped error) error {
	return &AuthError{
		Provider: provider,
		Wrapped:  wrapped,
	}
}

// NotFound creates a not-found error with a formatted message.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Is reports whether target matches err.
// It enables errors.Is() to work with our custom error types.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// It enables errors.As() to work with our custom error types.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
