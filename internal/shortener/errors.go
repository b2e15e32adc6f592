package shortener

import "errors"

var (
	// ErrNotFound means no record exists for the requested code.
	ErrNotFound = errors.New("url not found")

	// ErrStorage means the store was reached but the operation failed.
	ErrStorage = errors.New("storage error")

	// ErrStorageUnavailable means the store could not be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidPage is returned for negative page numbers.
	ErrInvalidPage = errors.New("invalid page")
)
