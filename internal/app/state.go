package app

// State is the lifecycle phase of a Controller.
type State int32

const (
	// Idle: created, not started.
	Idle State = iota
	// Running: both stages may execute iterations.
	Running
	// Stopping: cancellation requested; stages finish their current iteration.
	Stopping
	// Stopped: both stages exited and the camera is released.
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}
