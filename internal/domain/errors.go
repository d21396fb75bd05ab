package domain

import "errors"

// Sentinel errors for catalog operations
var (
	// ErrServerOffline indicates the catalog API is unreachable
	ErrServerOffline = errors.New("catalog API is unreachable")

	// ErrAuthFailed indicates the API key was rejected
	ErrAuthFailed = errors.New("API key is invalid")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrUnexpectedStatus indicates a non-success HTTP status
	ErrUnexpectedStatus = errors.New("unexpected status code")
)
