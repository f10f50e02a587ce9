package gui

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/dgellow/zig-gui-sub000/internal/dirty"
	"github.com/dgellow/zig-gui-sub000/internal/scratch"
	"github.com/dgellow/zig-gui-sub000/internal/tree"
)

var (
	// ErrCapacityExceeded is returned when the element store or the dirty
	// queue is full.
	ErrCapacityExceeded = errors.New("gui: capacity exceeded")
	// ErrInvalidElement is returned for ids that do not name a live element
	// and for structural changes that would break the tree.
	ErrInvalidElement = errors.New("gui: invalid element")
	// ErrAllocationFailure is returned when a pass runs out of scratch memory.
	ErrAllocationFailure = errors.New("gui: allocation failure")
	// ErrInvalidConfig is returned by New and LoadConfig for unusable
	// configuration.
	ErrInvalidConfig = errors.New("gui: invalid config")
)

// translate maps internal sentinels onto the public ones, keeping the
// internal message and the call context.
func translate(err error, format string, args ...any) error {
	var sentinel error
	switch {
	case errors.Is(err, tree.ErrFull), errors.Is(err, dirty.ErrQueueFull):
		sentinel = ErrCapacityExceeded
	case errors.Is(err, scratch.ErrExhausted):
		sentinel = ErrAllocationFailure
	default:
		return errors.Wrapf(err, format, args...)
	}
	return errors.Wrapf(sentinel, "%s: %v", fmt.Sprintf(format, args...), err)
}
