package engine

// vehicleEmitter bridges the vehicle adapter's emitter interface to the EventBus.
type vehicleEmitter struct {
	bus *EventBus
}

func (e *vehicleEmitter) EmitEngineCommand(vehicleID, action, status, reason string) {
	e.bus.Emit(Event{Type: EventEngineCommand, Payload: EngineCommandEvent{
		VehicleID: vehicleID,
		Action:    action,
		Status:    status,
		Reason:    reason,
	}})
}

func (e *vehicleEmitter) EmitUpstreamFailure(operation, vehicleID string, err error) {
	e.bus.Emit(Event{Type: EventUpstreamFailure, Payload: UpstreamFailureEvent{
		Operation: operation,
		VehicleID: vehicleID,
		Err:       err,
	}})
}
