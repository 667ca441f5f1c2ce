package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks requests rejected before any I/O.
	ErrValidation = errors.New("validation failed")

	// ErrPayloadTooLarge is the cause carried by a FetchError when a
	// response body exceeds the configured ceiling.
	ErrPayloadTooLarge = errors.New("payload exceeds configured size limit")

	// ErrAllFetchesFailed is returned by the bulk archive path when not a
	// single item could be retrieved.
	ErrAllFetchesFailed = errors.New("no image could be fetched")
)

// FetchError reports a failed retrieval of one remote URL. Status is the
// HTTP status code when the remote answered, 0 for transport failures.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a page body that could not be parsed as HTML.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
