package application

import "errors"

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a unique resource would be duplicated.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrConflict is returned when the user already holds a pending or active reservation.
	ErrConflict = errors.New("application: active reservation exists")
	// ErrDepleted is returned when a referenced material has no remaining quantity.
	ErrDepleted = errors.New("application: material depleted")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrSessionExpired is returned when a presented session token has expired.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned when a presented session token was revoked.
	ErrSessionRevoked = errors.New("application: session revoked")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
