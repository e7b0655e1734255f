package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrNoSteps       = errors.New("brew method has no steps")
	ErrInvalidField  = errors.New("invalid field")
)
