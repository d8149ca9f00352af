package artifact

import "errors"

var (
	// ErrNotFound is returned when no ad is stored under the given name.
	ErrNotFound = errors.New("artifact not found")
	// ErrEmptyName is returned when a name sanitizes to nothing.
	ErrEmptyName = errors.New("artifact name is empty after sanitizing")
)
