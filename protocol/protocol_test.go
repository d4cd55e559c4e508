package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	src := Address{Role: RoleGateway, Node: "gw-1"}
	dst := Address{Role: RoleBroadcast}

	env, err := NewEnvelope(TypeEngineCommand, src, dst, &EngineCommand{
		VehicleID: "1234",
		Action:    "start",
		Status:    "success",
	})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}

	if env.Version != Version {
		t.Errorf("version = %d, want %d", env.Version, Version)
	}
	if env.Src != src {
		t.Errorf("src = %+v, want %+v", env.Src, src)
	}
	if _, err := uuid.Parse(env.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", env.ID, err)
	}
	if got := env.ExpiresAt.Sub(env.Timestamp); got != 30*time.Minute {
		t.Errorf("TTL = %v, want 30m", got)
	}

	data, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.ID != env.ID || decoded.Type != TypeEngineCommand {
		t.Errorf("decoded = %+v, want id %q type %q", decoded, env.ID, TypeEngineCommand)
	}

	var cmd EngineCommand
	if err := decoded.DecodePayload(&cmd); err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if cmd.VehicleID != "1234" || cmd.Status != "success" {
		t.Errorf("payload = %+v", cmd)
	}
}

func TestDecodeRejectsOtherVersion(t *testing.T) {
	if _, err := Decode([]byte(`{"v":2,"type":"vehicle.engine_command"}`)); err == nil {
		t.Error("expected error for version 2")
	}
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Error("expected error for garbage")
	}
}

func TestExpired(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name string
		exp  time.Time
		want bool
	}{
		{"past", now.Add(-time.Minute), true},
		{"future", now.Add(10 * time.Minute), false},
		{"zero", time.Time{}, false},
	}
	for _, tt := range tests {
		env := &Envelope{ExpiresAt: tt.exp}
		if got := env.Expired(now); got != tt.want {
			t.Errorf("%s: Expired = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTTL(t *testing.T) {
	if ttl := TTL(TypeEngineCommand); ttl != 30*time.Minute {
		t.Errorf("engine command TTL = %v, want 30m", ttl)
	}
	if ttl := TTL(TypeUpstreamFailure); ttl != 5*time.Minute {
		t.Errorf("upstream failure TTL = %v, want 5m", ttl)
	}
	if ttl := TTL("unknown.type"); ttl != FallbackTTL {
		t.Errorf("unknown TTL = %v, want %v", ttl, FallbackTTL)
	}
}

func TestWireFormatKeys(t *testing.T) {
	env, _ := NewEnvelope(TypeUpstreamFailure,
		Address{Role: RoleGateway, Node: "gw-1"},
		Address{Role: RoleBroadcast},
		&UpstreamFailure{Operation: "fuel", VehicleID: "1234", Detail: "timeout"},
	)
	data, _ := env.Encode()

	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, k := range []string{"v", "type", "id", "src", "dst", "ts", "exp", "p"} {
		if _, ok := m[k]; !ok {
			t.Errorf("expected key %q in wire format", k)
		}
	}
	for _, k := range []string{"version", "payload", "timestamp", "expires_at"} {
		if _, ok := m[k]; ok {
			t.Errorf("unexpected long key %q in wire format", k)
		}
	}
}
