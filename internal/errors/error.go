package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyAuth        = errors.New("missing authorization")
	ErrEmptySubject     = errors.New("missing subject")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrMissingGuestID   = errors.New("missing guest cart id")
	ErrLineNotFound     = errors.New("cart line not found")
	ErrDuplicateLine    = errors.New("cart line already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("an account with this email already exists")
	ErrPasswordMismatch = errors.New("password mismatch")
	ErrProvisioning     = errors.New("failed to create account")
	ErrOrderPersistence = errors.New("failed to create order")
	ErrEmptyCart        = errors.New("cart is empty")
)

// ValidationError reports required request fields that are missing or
// malformed. It is raised before any mutation happens.
type ValidationError struct {
	Fields []string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}
