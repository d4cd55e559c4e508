package engine

import (
	"context"
	"sync"
	"time"

	"vehiclegw/config"
	"vehiclegw/logging"
	"vehiclegw/protocol"
	"vehiclegw/vehicle"
)

// Publisher is the subset of messaging.Client the engine publishes through.
type Publisher interface {
	PublishEnvelope(ctx context.Context, topic, key string, env interface{ Encode() ([]byte, error) }) error
	IsConnected() bool
}

type Config struct {
	AppConfig *config.Config
	Backend   vehicle.Backend
	MsgClient Publisher // nil when messaging is disabled
	Logger    logging.Logger

	// HealthInterval is how often messaging connectivity is checked. Zero
	// means 30s.
	HealthInterval time.Duration
}

type outbound struct {
	topic string
	key   string
	env   *protocol.Envelope
}

type Engine struct {
	cfg            *config.Config
	adapter        *vehicle.Adapter
	backend        vehicle.Backend
	msgClient      Publisher
	Events         *EventBus
	log            logging.Logger
	healthInterval time.Duration
	outbox         chan outbound
	stopChan       chan struct{}
	stopOnce       sync.Once
	wg             sync.WaitGroup

	mu           sync.RWMutex
	msgConnected bool
	lastFailure  time.Time
}

const outboxSize = 256

func New(c Config) *Engine {
	l := c.Logger
	if l == nil {
		l = logging.NewNopLogger()
	}
	interval := c.HealthInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	e := &Engine{
		cfg:            c.AppConfig,
		backend:        c.Backend,
		msgClient:      c.MsgClient,
		Events:         NewEventBus(WithBusLogger(l.WithName("events"))),
		log:            l.WithName("engine"),
		healthInterval: interval,
		outbox:         make(chan outbound, outboxSize),
		stopChan:       make(chan struct{}),
	}
	e.adapter = vehicle.NewAdapter(c.Backend,
		vehicle.WithEmitter(&vehicleEmitter{bus: e.Events}),
		vehicle.WithLogger(l.WithName("vehicle")),
	)
	return e
}

func (e *Engine) Start() {
	e.wireEventHandlers()

	if e.msgClient != nil {
		e.wg.Add(1)
		go e.publishLoop()
	}

	e.checkConnectionStatus()

	e.wg.Add(1)
	go e.connectionHealthLoop()

	e.log.Info("engine started", "backend", e.backend.Name())
}

// Stop halts background work and drains queued events. It is safe to call
// more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stopChan)
		e.wg.Wait()
		e.log.Info("engine stopped")
	})
}

// Run starts the engine and stops it when ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	e.Start()
	<-ctx.Done()
	e.Stop()
	return nil
}

// Accessors
func (e *Engine) Adapter() *vehicle.Adapter { return e.adapter }
func (e *Engine) AppConfig() *config.Config { return e.cfg }

// Health is a point-in-time view of the engine's dependencies.
type Health struct {
	Backend             string     `json:"backend"`
	Messaging           string     `json:"messaging"`
	LastUpstreamFailure *time.Time `json:"last_upstream_failure,omitempty"`
}

func (e *Engine) Health() Health {
	e.mu.RLock()
	defer e.mu.RUnlock()
	h := Health{Backend: e.backend.Name(), Messaging: "disabled"}
	if e.msgClient != nil {
		h.Messaging = "disconnected"
		if e.msgConnected {
			h.Messaging = "connected"
		}
	}
	if !e.lastFailure.IsZero() {
		t := e.lastFailure
		h.LastUpstreamFailure = &t
	}
	return h
}

func (e *Engine) recordFailure(at time.Time) {
	e.mu.Lock()
	e.lastFailure = at
	e.mu.Unlock()
}

func (e *Engine) checkConnectionStatus() {
	if e.msgClient == nil {
		return
	}
	connected := e.msgClient.IsConnected()

	e.mu.Lock()
	changed := connected != e.msgConnected
	e.msgConnected = connected
	e.mu.Unlock()

	if !changed {
		return
	}
	if connected {
		e.Events.Emit(Event{Type: EventMessagingConnected, Payload: ConnectionEvent{Detail: "messaging connected"}})
	} else {
		e.Events.Emit(Event{Type: EventMessagingDisconnected, Payload: ConnectionEvent{Detail: "messaging disconnected"}})
	}
}

func (e *Engine) connectionHealthLoop() {
	defer e.wg.Done()
	ticker := time.NewTicker(e.healthInterval)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			e.checkConnectionStatus()
		}
	}
}
