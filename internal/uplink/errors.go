package uplink

import (
	"errors"
	"fmt"
)

// Error categories. Handlers map these to client/server errors; nothing
// in this package retries or rolls back on its own.
var (
	// ErrInvalidField rejects a request before any mutation happens.
	ErrInvalidField = errors.New("invalid field")

	// ErrRegistry means the interface registry rejected or failed the
	// type/enablement update; the config store was not touched.
	ErrRegistry = errors.New("interface registry update failed")

	// ErrPersistence means the collection could not be loaded, marshaled
	// or written. The registry may already have been updated; the next
	// successful update for the interface heals the divergence.
	ErrPersistence = errors.New("failed to persist collection")

	// ErrRender means a daemon artifact could not be generated or
	// written. The durable JSON record was already saved, so record and
	// live daemon file diverge until the next successful merge.
	ErrRender = errors.New("failed to generate daemon configuration")
)

func invalidFieldErr(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidField, err)
}

func registryErr(err error) error {
	return fmt.Errorf("%w: %w", ErrRegistry, err)
}

func persistenceErr(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

func renderErr(err error) error {
	return fmt.Errorf("%w: %w", ErrRender, err)
}
