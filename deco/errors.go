package deco

import "errors"

// Domain errors for model construction and accessors.
var (
	// ErrInvalidParameter indicates a constructor or setter argument outside
	// its documented range, for the variants that reject rather than clamp.
	ErrInvalidParameter = errors.New("deco: invalid parameter")

	// ErrCompartmentIndex indicates a 1-based compartment number outside the
	// model's valid range.
	ErrCompartmentIndex = errors.New("deco: compartment index out of range")

	// ErrCompartmentMismatch indicates a tissue-state copy between models with
	// different compartment counts.
	ErrCompartmentMismatch = errors.New("deco: compartment count mismatch")
)
