package tool

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrUnknownTool is returned for names outside the tool set
	ErrUnknownTool = goerr.New("unknown tool")

	// ErrDuplicateTool is returned when two handlers share a name
	ErrDuplicateTool = goerr.New("duplicate tool")

	// ErrInvalidArgument is returned when tool arguments do not match the declaration
	ErrInvalidArgument = goerr.New("invalid argument")

	// ErrTimeout is returned when a handler exceeds its time budget
	ErrTimeout = goerr.New("tool timed out")

	// ErrPanic is returned when a handler panics
	ErrPanic = goerr.New("tool panicked")
)
