package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDataProvided is the root of every request validation error.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrInvalidEmail         = fmt.Errorf("%w: invalid email address", ErrInvalidDataProvided)
	ErrPasswordTooShort     = fmt.Errorf("%w: password is too short", ErrInvalidDataProvided)
	ErrPasswordTooLong      = fmt.Errorf("%w: password is too long", ErrInvalidDataProvided)
	ErrInvalidRole          = fmt.Errorf("%w: invalid role", ErrInvalidDataProvided)
	ErrNameRequired         = fmt.Errorf("%w: name is required", ErrInvalidDataProvided)
	ErrNameTooLong          = fmt.Errorf("%w: name is too long", ErrInvalidDataProvided)
	ErrDescriptionTooLong   = fmt.Errorf("%w: description is too long", ErrInvalidDataProvided)
	ErrTooManyTags          = fmt.Errorf("%w: too many tags", ErrInvalidDataProvided)
	ErrInvalidVisibility    = fmt.Errorf("%w: visibility must be public or private", ErrInvalidDataProvided)
	ErrCategoryRequired     = fmt.Errorf("%w: category is required", ErrInvalidDataProvided)
	ErrAgentTypeRequired    = fmt.Errorf("%w: agent type is required", ErrInvalidDataProvided)
	ErrInvalidStatus        = fmt.Errorf("%w: invalid status", ErrInvalidDataProvided)
	ErrInvalidDate          = fmt.Errorf("%w: dates must use YYYY-MM-DD", ErrInvalidDataProvided)
	ErrNegativeCounter      = fmt.Errorf("%w: counters must not be negative", ErrInvalidDataProvided)
	ErrEmptyFile            = fmt.Errorf("%w: file is empty", ErrInvalidDataProvided)
	ErrInvalidFileExtension = fmt.Errorf("%w: archive extension is not allowed", ErrInvalidDataProvided)

	// Business rule violations. They are reported as bad requests rather
	// than validation failures.
	ErrCopyrightNotConfirmed = errors.New("copyright must be confirmed")
	ErrAgentLimitReached     = errors.New("maximum number of agents reached")

	// ErrInvalidCredentials covers both an unknown login and a wrong
	// password.
	ErrInvalidCredentials      = errors.New("incorrect login or password")
	ErrTokenIsExpiredOrInvalid = errors.New("could not validate credentials")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrInactiveUser            = errors.New("inactive user")
	ErrForbidden               = errors.New("not enough permissions")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
