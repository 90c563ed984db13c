package services

import (
	"errors"
	"fmt"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/repositories"
)

var (
	// ErrValidation covers malformed input: non-positive hours, an end
	// date before the start date, an unknown status.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyPeriod is returned when a requested range contains no
	// business days.
	ErrEmptyPeriod = errors.New("no business days in period")

	// ErrPermission is returned when the acting user lacks the required
	// capability.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound is returned when a referenced task, entry or user does
	// not exist in the store.
	ErrNotFound = errors.New("not found")

	// ErrTaskArchived rejects transition commands on archived tasks until
	// they are unarchived.
	ErrTaskArchived = errors.New("task is archived")
)

// DomainError wraps one of the sentinel errors above with caller-facing
// context (the offending date, the required role). Store-layer errors are
// never wrapped; they propagate unmodified.
type DomainError struct {
	Kind error
	Msg  string
}

func (e *DomainError) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *DomainError) Unwrap() error { return e.Kind }

func validationf(format string, args ...any) error {
	return &DomainError{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func permissionf(format string, args ...any) error {
	return &DomainError{Kind: ErrPermission, Msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &DomainError{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// storeErr translates the repository not-found sentinel into the service
// taxonomy and leaves every other store error untouched.
func storeErr(err error, format string, args ...any) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFoundf(format, args...)
	}
	return err
}
