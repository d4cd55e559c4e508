package vehicle

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"vehiclegw/logging"
	"vehiclegw/metrics"
)

var idPattern = regexp.MustCompile(`^\d{4}$`)

// ValidateID checks that id is exactly four ASCII digits.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid vehicle id %q", id)
	}
	return nil
}

// ParseEngineAction maps a caller's command token to an EngineAction.
// Tokens are matched case-insensitively.
func ParseEngineAction(token string) (EngineAction, error) {
	switch {
	case strings.EqualFold(token, string(EngineStart)):
		return EngineStart, nil
	case strings.EqualFold(token, string(EngineStop)):
		return EngineStop, nil
	}
	return "", &Error{Kind: KindValidation, Op: OpEngine, Err: fmt.Errorf("invalid engine action %q", token)}
}

// Adapter runs every vehicle operation through the same pipeline:
// validate, call the backend, and fold any failure into an *Error.
type Adapter struct {
	backend Backend
	emitter Emitter
	log     logging.Logger
}

type Option func(*Adapter)

func WithEmitter(e Emitter) Option {
	return func(a *Adapter) { a.emitter = e }
}

func WithLogger(l logging.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

func NewAdapter(backend Backend, opts ...Option) *Adapter {
	a := &Adapter{backend: backend, log: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Backend returns the wrapped backend.
func (a *Adapter) Backend() Backend { return a.backend }

func (a *Adapter) Info(ctx context.Context, id string) (Info, error) {
	var info Info
	err := a.run(ctx, OpInfo, id, func(ctx context.Context) (err error) {
		info, err = a.backend.Info(ctx, id)
		return err
	})
	return info, err
}

func (a *Adapter) Doors(ctx context.Context, id string) ([]Door, error) {
	var doors []Door
	err := a.run(ctx, OpDoors, id, func(ctx context.Context) (err error) {
		doors, err = a.backend.Doors(ctx, id)
		return err
	})
	return doors, err
}

func (a *Adapter) Fuel(ctx context.Context, id string) (Energy, error) {
	var e Energy
	err := a.run(ctx, OpFuel, id, func(ctx context.Context) (err error) {
		e, err = a.backend.Fuel(ctx, id)
		return err
	})
	return e, err
}

func (a *Adapter) Battery(ctx context.Context, id string) (Energy, error) {
	var e Energy
	err := a.run(ctx, OpBattery, id, func(ctx context.Context) (err error) {
		e, err = a.backend.Battery(ctx, id)
		return err
	})
	return e, err
}

// Engine validates token and, if it names a known action, forwards the
// command. The outcome is reported to the emitter whatever it is.
func (a *Adapter) Engine(ctx context.Context, id, token string) (EngineResult, error) {
	var result EngineResult
	err := a.run(ctx, OpEngine, id, func(ctx context.Context) error {
		action, err := ParseEngineAction(token)
		if err != nil {
			return err
		}
		result, err = a.backend.Engine(ctx, id, action)
		return err
	})
	if a.emitter != nil {
		if err != nil {
			r := ResultFor(err)
			a.emitter.EmitEngineCommand(id, token, r.Status, r.Reason)
		} else {
			a.emitter.EmitEngineCommand(id, token, string(result.Status), "")
		}
	}
	return result, err
}

// Query runs a read-only operation and returns its canonical result.
func (a *Adapter) Query(ctx context.Context, op Operation, id string) (any, error) {
	switch op {
	case OpInfo:
		return a.Info(ctx, id)
	case OpDoors:
		return a.Doors(ctx, id)
	case OpFuel:
		return a.Fuel(ctx, id)
	case OpBattery:
		return a.Battery(ctx, id)
	default:
		return nil, &Error{Kind: KindDispatch, Op: op, Err: fmt.Errorf("%s is not a query operation", op)}
	}
}

func (a *Adapter) run(ctx context.Context, op Operation, id string, call func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered panic: %v", r)
		}
		err = a.classify(op, id, err)
		metrics.RecordRequest(op.String(), requestOutcome(err))
	}()

	if err := ValidateID(id); err != nil {
		return &Error{Kind: KindValidation, Op: op, Err: err}
	}
	return call(ctx)
}

// classify turns any error into an *Error, defaulting to KindTransport,
// and logs it.
func (a *Adapter) classify(op Operation, id string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Kind: KindTransport, Op: op, Err: err}
	}
	if e.Op == 0 {
		e.Op = op
	}

	switch e.Kind {
	case KindUpstream:
		a.log.Info("upstream rejected request", "operation", op, "id", id, "reason", e.Reason)
	case KindTransport:
		a.log.Warn("vehicle request failed", "operation", op, "id", id, "error", e.Err)
		if a.emitter != nil {
			a.emitter.EmitUpstreamFailure(op.String(), id, e)
		}
	default:
		a.log.Warn("vehicle request rejected", "operation", op, "id", id, "kind", e.Kind, "error", e.Err)
	}
	return e
}

func requestOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case IsKind(err, KindValidation):
		return metrics.OutcomeInvalid
	case IsKind(err, KindUpstream):
		return metrics.OutcomeFailed
	default:
		return metrics.OutcomeTransport
	}
}
