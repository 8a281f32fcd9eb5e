package domain

import "errors"

var (
	// ErrFileNotFound is returned by a FileContentProvider when the path has
	// no content in the snapshot.
	ErrFileNotFound = errors.New("file not found")

	// ErrPathEscape is returned when a relative path resolves outside the
	// workspace root.
	ErrPathEscape = errors.New("path escapes workspace root")

	// ErrInvalidSolution wraps every well-formedness failure of a Solution.
	ErrInvalidSolution = errors.New("invalid solution")
)
