package app

// State represents the app lifecycle
type State string

const (
	StateCreated  State = "created"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
	StateStopped  State = "stopped"
	StateFailed   State = "failed"
)

// canStart reports whether Start may run from s
func (s State) canStart() bool {
	switch s {
	case StateCreated, StateStopped, StateFailed:
		return true
	}
	return false
}
