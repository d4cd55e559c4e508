package gm

import (
	"fmt"
	"math"

	"vehiclegw/gmapi"
	"vehiclegw/vehicle"
)

func missing(name string) error {
	return fmt.Errorf("gm: response missing %s", name)
}

func mapInfo(d *gmapi.VehicleInfo) (vehicle.Info, error) {
	if d == nil {
		return vehicle.Info{}, missing("data")
	}
	for name, f := range map[string]*gmapi.Field{
		"vin":           d.VIN,
		"color":         d.Color,
		"fourDoorSedan": d.FourDoorSedan,
		"twoDoorCoupe":  d.TwoDoorCoupe,
		"driveTrain":    d.DriveTrain,
	} {
		if f == nil {
			return vehicle.Info{}, missing(name)
		}
	}
	return vehicle.Info{
		VIN:        d.VIN.Value,
		Color:      d.Color.Value,
		DoorCount:  mapDoorCount(*d.FourDoorSedan, *d.TwoDoorCoupe),
		DriveTrain: d.DriveTrain.Value,
	}, nil
}

// mapDoorCount prefers the sedan flag when both are set.
func mapDoorCount(sedan, coupe gmapi.Field) vehicle.DoorCount {
	switch {
	case sedan.IsTrue():
		return vehicle.DoorCountSedan
	case coupe.IsTrue():
		return vehicle.DoorCountCoupe
	default:
		return vehicle.DoorCountUnknown
	}
}

func mapDoors(s *gmapi.SecurityStatus) ([]vehicle.Door, error) {
	if s == nil {
		return nil, missing("data")
	}
	if s.Doors == nil {
		return nil, missing("doors")
	}
	doors := make([]vehicle.Door, 0, len(s.Doors.Values))
	for i, rec := range s.Doors.Values {
		if rec.Location == nil || rec.Locked == nil {
			return nil, missing(fmt.Sprintf("doors[%d]", i))
		}
		doors = append(doors, vehicle.Door{
			Location: rec.Location.Value,
			Locked:   rec.Locked.IsTrue(),
		})
	}
	return doors, nil
}

// mapPercent turns a level field into a reading. Null means the vehicle
// cannot report the level; any other tag is read as a number.
func mapPercent(f *gmapi.Field) (vehicle.Percent, error) {
	if f.IsNull() {
		return vehicle.Unavailable(), nil
	}
	n, err := f.Number()
	if err != nil {
		return vehicle.Percent{}, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return vehicle.Percent{}, fmt.Errorf("gm: non-finite level %q", f.Value)
	}
	return vehicle.PercentOf(n), nil
}

func mapFuel(e *gmapi.Energy) (vehicle.Energy, error) {
	if e == nil {
		return vehicle.Energy{}, missing("data")
	}
	if e.TankLevel == nil {
		return vehicle.Energy{}, missing("tankLevel")
	}
	p, err := mapPercent(e.TankLevel)
	if err != nil {
		return vehicle.Energy{}, fmt.Errorf("gm: tankLevel: %w", err)
	}
	return vehicle.Energy{Percent: p}, nil
}

func mapBattery(e *gmapi.Energy) (vehicle.Energy, error) {
	if e == nil {
		return vehicle.Energy{}, missing("data")
	}
	if e.BatteryLevel == nil {
		return vehicle.Energy{}, missing("batteryLevel")
	}
	p, err := mapPercent(e.BatteryLevel)
	if err != nil {
		return vehicle.Energy{}, fmt.Errorf("gm: batteryLevel: %w", err)
	}
	return vehicle.Energy{Percent: p}, nil
}

func mapEngineResult(r *gmapi.ActionResult) (vehicle.EngineResult, error) {
	if r == nil {
		return vehicle.EngineResult{}, missing("actionResult")
	}
	if r.Status == gmapi.ActionExecuted {
		return vehicle.EngineResult{Status: vehicle.CommandSuccess}, nil
	}
	return vehicle.EngineResult{Status: vehicle.CommandError}, nil
}

// commandFor maps a canonical engine action to the upstream command token.
func commandFor(a vehicle.EngineAction) (string, error) {
	switch a {
	case vehicle.EngineStart:
		return gmapi.CommandStartVehicle, nil
	case vehicle.EngineStop:
		return gmapi.CommandStopVehicle, nil
	}
	return "", fmt.Errorf("gm: no command for engine action %q", a)
}
