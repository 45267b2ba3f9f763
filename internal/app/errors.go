package app

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyStarted is returned by Start on a controller that was started before.
	ErrAlreadyStarted = errors.New("pipeline already started")
	// ErrNotRunning is returned by Stop and Wait before Start.
	ErrNotRunning = errors.New("pipeline not started")
)

// DeviceUnavailableError is the fatal camera failure. Failures is zero when
// the device could not be opened at all.
type DeviceUnavailableError struct {
	Device   int
	Failures int
	Err      error
}

func (e *DeviceUnavailableError) Error() string {
	if e.Failures == 0 {
		return fmt.Sprintf("camera %d unavailable: %v", e.Device, e.Err)
	}
	return fmt.Sprintf("camera %d unavailable after %d consecutive failed reads: %v", e.Device, e.Failures, e.Err)
}

func (e *DeviceUnavailableError) Unwrap() error {
	return e.Err
}
