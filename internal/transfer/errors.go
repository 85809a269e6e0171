package transfer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for arrays with an unsupported element type,
	// dimensionality, channel count or size.
	ErrInvalidInput = errors.New("transfer: invalid input")

	// ErrResourceUnavailable is returned when the handoff directory or one of
	// its files cannot be created.
	ErrResourceUnavailable = errors.New("transfer: temp storage unavailable")

	// ErrLaunchFailed is returned when the viewer executable cannot be found
	// or started.
	ErrLaunchFailed = errors.New("transfer: viewer launch failed")

	// ErrViewerExited is returned when the viewer terminates before it has
	// acknowledged the handed-off files.
	ErrViewerExited = errors.New("transfer: viewer exited before reading images")
)

// DecodeError reports a file that could not be turned into an image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("transfer: can't read %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
