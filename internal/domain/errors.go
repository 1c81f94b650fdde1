package domain

import "errors"

var (
	// Cache errors
	ErrCacheMiss = errors.New("cache miss")
	ErrEmptyKey  = errors.New("cache key must not be empty")

	// Fetch errors
	ErrEmptyResponse = errors.New("empty response body")

	// Extraction errors
	ErrMissingAPIToken   = errors.New("OPENROUTER_API_TOKEN is not configured")
	ErrInvalidExtraction = errors.New("invalid comic extraction")

	// Typesetting errors
	ErrTypesetterNotFound = errors.New("sile not found")
	ErrEntrypointNotFound = errors.New("sile entrypoint not found")
)
