package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrAuthenticationFailed wraps rejected credentials and unreachable
	// auth service failures. The existing session is never touched.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidResponse means the auth API accepted the login but
	// returned a user record missing its id or email.
	ErrInvalidResponse = errors.New("auth api returned an incomplete user record")

	// ErrRegistrationFailed wraps registration rejections that carry no
	// field-level detail.
	ErrRegistrationFailed = errors.New("registration failed")
)

// ValidationError reports field-level registration errors from the auth
// API.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return fmt.Sprintf("registration rejected: invalid fields: %s", strings.Join(names, ", "))
}
