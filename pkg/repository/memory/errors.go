package memory

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNotFound is returned when a referenced record does not exist
	ErrNotFound = goerr.New("not found")

	// ErrInvalidArgument is returned for malformed records
	ErrInvalidArgument = goerr.New("invalid argument")
)
