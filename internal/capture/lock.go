package capture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrDeviceLocked is returned when another process already holds the device.
var ErrDeviceLocked = errors.New("camera device is in use by another fingercount process")

// DeviceLock is an advisory file lock that keeps two processes from reading
// the same camera device.
type DeviceLock struct {
	path string
	lock *flock.Flock
}

// NewDeviceLock creates a lock for deviceID under dir. An empty dir uses the
// OS temp directory.
func NewDeviceLock(dir string, deviceID int) *DeviceLock {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("fingercount-camera%d.lock", deviceID))
	return &DeviceLock{path: path, lock: flock.New(path)}
}

// Acquire takes the lock without blocking.
func (l *DeviceLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("ensure lock dir: %w", err)
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrDeviceLocked
	}
	return nil
}

// Release drops the lock. It is safe to call when the lock is not held.
func (l *DeviceLock) Release() error {
	if !l.lock.Locked() {
		return nil
	}
	return l.lock.Unlock()
}

// Path returns the lock file location.
func (l *DeviceLock) Path() string {
	return l.path
}
