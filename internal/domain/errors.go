package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was hit.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation indicates caller input was rejected before any
	// state change.
	ErrValidation = errors.New("validation failed")
	// ErrEmptyCart indicates an operation that needs cart contents ran
	// against an empty or missing cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrUnavailable indicates the durable store could not be reached;
	// callers must not mistake it for an empty result.
	ErrUnavailable = errors.New("store unavailable")
)
