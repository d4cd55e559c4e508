package vehicle

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Info is the canonical vehicle description.
type Info struct {
	VIN        string    `json:"vin"`
	Color      string    `json:"color"`
	DoorCount  DoorCount `json:"doorCount"`
	DriveTrain string    `json:"driveTrain"`
}

// DoorCount is 4, 2 or unknown. Unknown serializes as the string "Unknown".
type DoorCount int

const (
	DoorCountUnknown DoorCount = 0
	DoorCountCoupe   DoorCount = 2
	DoorCountSedan   DoorCount = 4
)

const doorCountUnknownText = "Unknown"

func (d DoorCount) String() string {
	switch d {
	case DoorCountCoupe, DoorCountSedan:
		return strconv.Itoa(int(d))
	default:
		return doorCountUnknownText
	}
}

func (d DoorCount) MarshalJSON() ([]byte, error) {
	switch d {
	case DoorCountCoupe, DoorCountSedan:
		return []byte(strconv.Itoa(int(d))), nil
	default:
		return json.Marshal(doorCountUnknownText)
	}
}

func (d *DoorCount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != doorCountUnknownText {
			return fmt.Errorf("vehicle: invalid door count %q", s)
		}
		*d = DoorCountUnknown
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("vehicle: invalid door count %s", data)
	}
	switch DoorCount(n) {
	case DoorCountCoupe, DoorCountSedan:
		*d = DoorCount(n)
		return nil
	}
	return fmt.Errorf("vehicle: invalid door count %d", n)
}

// Door is the lock state of one door.
type Door struct {
	Location string `json:"location"`
	Locked   bool   `json:"locked"`
}

// Percent is a level reading that may be unavailable. The zero value is
// unavailable; unavailable readings serialize as "Unavailable".
type Percent struct {
	value     float64
	available bool
}

const percentUnavailableText = "Unavailable"

// PercentOf returns an available reading.
func PercentOf(v float64) Percent { return Percent{value: v, available: true} }

// Unavailable returns a reading the vehicle could not report.
func Unavailable() Percent { return Percent{} }

// Value returns the reading and whether it is available.
func (p Percent) Value() (float64, bool) { return p.value, p.available }

func (p Percent) String() string {
	if !p.available {
		return percentUnavailableText
	}
	return strconv.FormatFloat(p.value, 'f', -1, 64)
}

func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.available {
		return json.Marshal(percentUnavailableText)
	}
	return json.Marshal(p.value)
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != percentUnavailableText {
			return fmt.Errorf("vehicle: invalid percent %q", s)
		}
		*p = Unavailable()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("vehicle: invalid percent %s", data)
	}
	*p = PercentOf(v)
	return nil
}

// Energy is the result of a fuel or battery query.
type Energy struct {
	Percent Percent `json:"percent"`
}

// EngineAction is a validated engine command.
type EngineAction string

const (
	EngineStart EngineAction = "start"
	EngineStop  EngineAction = "stop"
)

// CommandStatus is the canonical outcome of an engine command.
type CommandStatus string

const (
	CommandSuccess CommandStatus = "success"
	CommandError   CommandStatus = "error"
)

// EngineResult is the canonical engine command response.
type EngineResult struct {
	Status CommandStatus `json:"status"`
}

// External failure body.
const (
	StatusFailed     = "Failed"
	ReasonConnection = "Connection error"
	ReasonDispatch   = "Unable to process request"
)

// ErrorResult is the single external failure shape.
type ErrorResult struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}
