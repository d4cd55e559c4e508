package vehicle

import "context"

// Backend is the vendor-neutral interface for vehicle telemetry providers.
// Implementations wrap a vendor API and return canonical results; a business
// failure reported by the vendor is returned as an *Error of KindUpstream.
type Backend interface {
	// Info returns the static description of a vehicle.
	Info(ctx context.Context, id string) (Info, error)

	// Doors returns the lock state of every door, in vendor order.
	Doors(ctx context.Context, id string) ([]Door, error)

	// Fuel returns the fuel tank level.
	Fuel(ctx context.Context, id string) (Energy, error)

	// Battery returns the battery charge level.
	Battery(ctx context.Context, id string) (Energy, error)

	// Engine starts or stops the engine.
	Engine(ctx context.Context, id string, action EngineAction) (EngineResult, error)

	// Name returns a human-readable name for this backend (e.g. "GM API").
	Name() string
}

// Emitter receives notifications about adapter activity.
type Emitter interface {
	EmitEngineCommand(vehicleID, action, status, reason string)
	EmitUpstreamFailure(operation, vehicleID string, err error)
}
