package engine

const (
	EventEngineCommand EventType = iota + 1
	EventUpstreamFailure
	EventMessagingConnected
	EventMessagingDisconnected
)

func (t EventType) String() string {
	switch t {
	case EventEngineCommand:
		return "engine_command"
	case EventUpstreamFailure:
		return "upstream_failure"
	case EventMessagingConnected:
		return "messaging_connected"
	case EventMessagingDisconnected:
		return "messaging_disconnected"
	default:
		return "unknown"
	}
}

// --- Event payloads ---

// EngineCommandEvent is emitted once per engine command, whatever its outcome.
type EngineCommandEvent struct {
	VehicleID string
	Action    string
	Status    string
	Reason    string
}

// UpstreamFailureEvent is emitted when a request fails in transport or
// translation, not when the upstream rejects it.
type UpstreamFailureEvent struct {
	Operation string
	VehicleID string
	Err       error
}

type ConnectionEvent struct {
	Detail string
}
