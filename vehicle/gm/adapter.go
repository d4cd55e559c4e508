// Package gm implements vehicle.Backend over the GM API.
package gm

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"

	"vehiclegw/gmapi"
	"vehiclegw/vehicle"
)

// Config holds the configuration for creating a GM API adapter.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	ResponseType string
	Logger       logr.Logger
}

// Adapter wraps a gmapi.Client to implement vehicle.Backend.
type Adapter struct {
	client *gmapi.Client
}

// New creates a new GM API adapter.
func New(cfg Config) *Adapter {
	opts := []gmapi.Option{gmapi.WithResponseType(cfg.ResponseType)}
	if cfg.Logger.GetSink() != nil {
		opts = append(opts, gmapi.WithLogger(cfg.Logger))
	}
	return &Adapter{client: gmapi.NewClient(cfg.BaseURL, cfg.Timeout, opts...)}
}

var _ vehicle.Backend = (*Adapter)(nil)

func (a *Adapter) Name() string { return "GM API" }

func (a *Adapter) Info(ctx context.Context, id string) (vehicle.Info, error) {
	data, err := a.client.GetVehicleInfo(ctx, id)
	if err != nil {
		return vehicle.Info{}, upstreamErr(err)
	}
	return mapInfo(data)
}

func (a *Adapter) Doors(ctx context.Context, id string) ([]vehicle.Door, error) {
	data, err := a.client.GetSecurityStatus(ctx, id)
	if err != nil {
		return nil, upstreamErr(err)
	}
	return mapDoors(data)
}

func (a *Adapter) Fuel(ctx context.Context, id string) (vehicle.Energy, error) {
	data, err := a.client.GetEnergy(ctx, id)
	if err != nil {
		return vehicle.Energy{}, upstreamErr(err)
	}
	return mapFuel(data)
}

func (a *Adapter) Battery(ctx context.Context, id string) (vehicle.Energy, error) {
	data, err := a.client.GetEnergy(ctx, id)
	if err != nil {
		return vehicle.Energy{}, upstreamErr(err)
	}
	return mapBattery(data)
}

func (a *Adapter) Engine(ctx context.Context, id string, action vehicle.EngineAction) (vehicle.EngineResult, error) {
	cmd, err := commandFor(action)
	if err != nil {
		return vehicle.EngineResult{}, err
	}
	res, err := a.client.ActionEngine(ctx, id, cmd)
	if err != nil {
		return vehicle.EngineResult{}, upstreamErr(err)
	}
	return mapEngineResult(res)
}

// upstreamErr lifts an envelope status failure into a vehicle.Error so the
// upstream reason reaches the caller. Other errors pass through unchanged.
func upstreamErr(err error) error {
	var se *gmapi.StatusError
	if errors.As(err, &se) {
		return vehicle.UpstreamError(se.Reason, err)
	}
	return err
}
