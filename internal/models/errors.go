package models

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is the parent of every client input error.
var ErrInvalidRequest = errors.New("invalid request")

// Sentinel errors for traversal request validation.
var (
	ErrMissingStartID     = fmt.Errorf("%w: start_id is required", ErrInvalidRequest)
	ErrInvalidStartID     = fmt.Errorf("%w: start_id must be a positive integer", ErrInvalidRequest)
	ErrInvalidStartType   = fmt.Errorf("%w: start_type must be one of property, entity, company, principal", ErrInvalidRequest)
	ErrInvalidDirection   = fmt.Errorf("%w: direction must be one of up, down, both", ErrInvalidRequest)
	ErrMaxDepthOutOfRange = fmt.Errorf("%w: max_depth must be between %d and %d", ErrInvalidRequest, MinTraverseDepth, MaxTraverseDepth)
)

// ErrNodeNotFound is returned by display lookups that match no record.
var ErrNodeNotFound = errors.New("node not found")

// ErrStoreUnavailable marks a failure to reach the underlying store at all.
// Traversals abort on it instead of degrading.
var ErrStoreUnavailable = errors.New("store unavailable")

// IsClientError reports whether err stems from invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}
