package gmapi

// Service paths, relative to the client's base URL.
const (
	PathVehicleInfo    = "/getVehicleInfoService"
	PathSecurityStatus = "/getSecurityStatusService"
	PathEnergy         = "/getEnergyService"
	PathActionEngine   = "/actionEngineService"
)

// StatusOK is the envelope status of a successful call.
const StatusOK = "200"

// DefaultResponseType is sent as responseType on every request.
const DefaultResponseType = "JSON"

// Engine command tokens accepted by the action engine service.
const (
	CommandStartVehicle = "START_VEHICLE"
	CommandStopVehicle  = "STOP_VEHICLE"
)

// ActionStatus is the result of an engine action.
type ActionStatus string

const (
	ActionExecuted ActionStatus = "EXECUTED"
	ActionFailed   ActionStatus = "FAILED"
)

// --- Request ---

type Request struct {
	ID           string `json:"id"`
	Command      string `json:"command,omitempty"`
	ResponseType string `json:"responseType"`
}

// --- Envelope ---

// Envelope is the common header of every upstream response.
type Envelope struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
}

func (e *Envelope) header() *Envelope { return e }

type enveloped interface {
	header() *Envelope
}

// --- Vehicle info ---

type VehicleInfoResponse struct {
	Envelope
	Data *VehicleInfo `json:"data,omitempty"`
}

type VehicleInfo struct {
	VIN           *Field `json:"vin"`
	Color         *Field `json:"color"`
	FourDoorSedan *Field `json:"fourDoorSedan"`
	TwoDoorCoupe  *Field `json:"twoDoorCoupe"`
	DriveTrain    *Field `json:"driveTrain"`
}

// --- Security status ---

type SecurityStatusResponse struct {
	Envelope
	Data *SecurityStatus `json:"data,omitempty"`
}

type SecurityStatus struct {
	Doors *DoorList `json:"doors"`
}

// DoorList is the Array-typed doors field; its items are objects of fields.
type DoorList struct {
	Type   FieldType    `json:"type"`
	Values []DoorRecord `json:"values"`
}

type DoorRecord struct {
	Location *Field `json:"location"`
	Locked   *Field `json:"locked"`
}

// --- Energy ---

type EnergyResponse struct {
	Envelope
	Data *Energy `json:"data,omitempty"`
}

type Energy struct {
	TankLevel    *Field `json:"tankLevel"`
	BatteryLevel *Field `json:"batteryLevel"`
}

// --- Engine action ---

type ActionEngineResponse struct {
	Envelope
	ActionResult *ActionResult `json:"actionResult,omitempty"`
}

type ActionResult struct {
	Status ActionStatus `json:"status"`
}
