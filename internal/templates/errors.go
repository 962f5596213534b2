package templates

import "errors"

var (
	// ErrCapacity is returned by Save when the collection already holds
	// MaxTemplates entries.
	ErrCapacity = errors.New("template limit reached")

	ErrNotFound = errors.New("template not found")

	// ErrPersist wraps backend write failures. The in-memory collection is
	// left as it was before the failed call.
	ErrPersist = errors.New("failed to persist templates")

	// ErrNoValue is returned by a KV when nothing is stored under a key.
	ErrNoValue = errors.New("no value stored")

	errCorrupt = errors.New("corrupt template collection")
)
