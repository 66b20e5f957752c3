package services

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("not authorized")
	ErrOutsideWindow      = errors.New("cannot mark habit outside start/end dates")
	ErrAlreadyDone        = errors.New("already done today")
	ErrInsufficientPoints = errors.New("not enough points")
	ErrAlreadyClaimed     = errors.New("reward already claimed")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
