package model

import "errors"

var (
	// ErrAttributeNotFound is returned when an attribute key is absent.
	ErrAttributeNotFound = errors.New("attribute not found")

	// ErrVertexNotFound is returned when no endpoint matches a vertex id.
	ErrVertexNotFound = errors.New("vertex not found")

	// ErrNilVertex is returned when an edge endpoint would be set to nil.
	ErrNilVertex = errors.New("vertex must not be nil")
)
