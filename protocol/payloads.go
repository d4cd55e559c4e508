package protocol

// EngineCommand reports the outcome of one engine command accepted over HTTP.
type EngineCommand struct {
	VehicleID string `json:"vehicle_id"`
	Action    string `json:"action"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

// UpstreamFailure reports a request that failed to reach or be understood
// by the upstream vehicle API.
type UpstreamFailure struct {
	Operation string `json:"operation"`
	VehicleID string `json:"vehicle_id"`
	Detail    string `json:"detail"`
}
