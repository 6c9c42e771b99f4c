package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGenerationUnavailable indicates the text-generation service could
	// not be reached or failed. Answers degrade to a handoff response.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrMalformedPayload indicates the generation service returned output
	// that does not match the response contract. The caller must fall back
	// to the templated answer rather than surface this to the transport.
	ErrMalformedPayload = errors.New("malformed generation payload")
)
