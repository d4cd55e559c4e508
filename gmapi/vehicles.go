package gmapi

import "context"

// GetVehicleInfo fetches the static description of a vehicle.
func (c *Client) GetVehicleInfo(ctx context.Context, id string) (*VehicleInfo, error) {
	var resp VehicleInfoResponse
	if err := c.post(ctx, PathVehicleInfo, c.request(id, ""), &resp); err != nil {
		return nil, err
	}
	if err := checkResponse(&resp.Envelope); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetSecurityStatus fetches the lock state of every door.
func (c *Client) GetSecurityStatus(ctx context.Context, id string) (*SecurityStatus, error) {
	var resp SecurityStatusResponse
	if err := c.post(ctx, PathSecurityStatus, c.request(id, ""), &resp); err != nil {
		return nil, err
	}
	if err := checkResponse(&resp.Envelope); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetEnergy fetches tank and battery levels.
func (c *Client) GetEnergy(ctx context.Context, id string) (*Energy, error) {
	var resp EnergyResponse
	if err := c.post(ctx, PathEnergy, c.request(id, ""), &resp); err != nil {
		return nil, err
	}
	if err := checkResponse(&resp.Envelope); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ActionEngine sends START_VEHICLE or STOP_VEHICLE.
func (c *Client) ActionEngine(ctx context.Context, id, command string) (*ActionResult, error) {
	var resp ActionEngineResponse
	if err := c.post(ctx, PathActionEngine, c.request(id, command), &resp); err != nil {
		return nil, err
	}
	if err := checkResponse(&resp.Envelope); err != nil {
		return nil, err
	}
	return resp.ActionResult, nil
}
