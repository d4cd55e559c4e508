package vehicle

// Operation is one of the fixed adapter operations.
type Operation int

const (
	OpInfo Operation = iota + 1
	OpDoors
	OpFuel
	OpBattery
	OpEngine
)

func (o Operation) String() string {
	switch o {
	case OpInfo:
		return "info"
	case OpDoors:
		return "doors"
	case OpFuel:
		return "fuel"
	case OpBattery:
		return "battery"
	case OpEngine:
		return "engine"
	default:
		return "unknown"
	}
}

// ParseQueryOperation maps a read-only path segment to its operation. Only
// doors, fuel and battery are addressable this way.
func ParseQueryOperation(action string) (Operation, bool) {
	switch action {
	case "doors":
		return OpDoors, true
	case "fuel":
		return OpFuel, true
	case "battery":
		return OpBattery, true
	default:
		return 0, false
	}
}

// ParseCommandOperation maps a command path segment to its operation.
func ParseCommandOperation(action string) (Operation, bool) {
	if action == "engine" {
		return OpEngine, true
	}
	return 0, false
}
