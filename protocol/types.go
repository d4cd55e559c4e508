package protocol

// Message type constants.
const (
	TypeEngineCommand   = "vehicle.engine_command"
	TypeUpstreamFailure = "vehicle.upstream_failure"
)

// Roles for Address.Role.
const (
	RoleGateway   = "gateway"
	RoleBroadcast = "broadcast"
)

// Protocol version.
const Version = 1
