package vehicle

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Info(ctx context.Context, id string) (Info, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Info), args.Error(1)
}

func (m *mockBackend) Doors(ctx context.Context, id string) ([]Door, error) {
	args := m.Called(ctx, id)
	doors, _ := args.Get(0).([]Door)
	return doors, args.Error(1)
}

func (m *mockBackend) Fuel(ctx context.Context, id string) (Energy, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Energy), args.Error(1)
}

func (m *mockBackend) Battery(ctx context.Context, id string) (Energy, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Energy), args.Error(1)
}

func (m *mockBackend) Engine(ctx context.Context, id string, action EngineAction) (EngineResult, error) {
	args := m.Called(ctx, id, action)
	return args.Get(0).(EngineResult), args.Error(1)
}

func (m *mockBackend) Name() string { return "mock" }

type engineCall struct {
	id, action, status, reason string
}

type recordingEmitter struct {
	commands []engineCall
	failures []string
}

func (r *recordingEmitter) EmitEngineCommand(vehicleID, action, status, reason string) {
	r.commands = append(r.commands, engineCall{vehicleID, action, status, reason})
}

func (r *recordingEmitter) EmitUpstreamFailure(operation, vehicleID string, err error) {
	r.failures = append(r.failures, operation+":"+vehicleID)
}

func TestValidateID(t *testing.T) {
	for _, id := range []string{"1234", "0000", "9999"} {
		assert.NoError(t, ValidateID(id), id)
	}
	for _, id := range []string{"", "123", "12345", "12a4", "abcd", "1234\n", " 1234", "١٢٣٤"} {
		assert.Error(t, ValidateID(id), "%q", id)
	}
}

func TestParseEngineAction(t *testing.T) {
	tests := []struct {
		token string
		want  EngineAction
		ok    bool
	}{
		{"start", EngineStart, true},
		{"stop", EngineStop, true},
		{"START", EngineStart, true},
		{"Stop", EngineStop, true},
		{"NOT_OK", "", false},
		{"", "", false},
		{"START_VEHICLE", "", false},
	}
	for _, tt := range tests {
		got, err := ParseEngineAction(tt.token)
		if !tt.ok {
			assert.True(t, IsKind(err, KindValidation), "token %q", tt.token)
			continue
		}
		require.NoError(t, err, tt.token)
		assert.Equal(t, tt.want, got)
	}
}

func TestInvalidIDNeverReachesBackend(t *testing.T) {
	b := &mockBackend{}
	a := NewAdapter(b)
	ctx := context.Background()

	_, err := a.Info(ctx, "12345")
	assert.True(t, IsKind(err, KindValidation))
	_, err = a.Doors(ctx, "abcd")
	assert.True(t, IsKind(err, KindValidation))
	_, err = a.Fuel(ctx, "")
	assert.True(t, IsKind(err, KindValidation))
	_, err = a.Battery(ctx, "12")
	assert.True(t, IsKind(err, KindValidation))
	_, err = a.Engine(ctx, "x123", "start")
	assert.True(t, IsKind(err, KindValidation))

	assert.Equal(t, ErrorResult{Status: "Failed", Reason: "Connection error"}, ResultFor(err))
	b.AssertNotCalled(t, "Info", mock.Anything, mock.Anything)
	b.AssertNotCalled(t, "Engine", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvalidEngineActionNeverReachesBackend(t *testing.T) {
	b := &mockBackend{}
	em := &recordingEmitter{}
	a := NewAdapter(b, WithEmitter(em))

	_, err := a.Engine(context.Background(), "1234", "NOT_OK")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Equal(t, ReasonConnection, ResultFor(err).Reason)
	b.AssertNotCalled(t, "Engine", mock.Anything, mock.Anything, mock.Anything)

	require.Len(t, em.commands, 1)
	assert.Equal(t, engineCall{"1234", "NOT_OK", "Failed", "Connection error"}, em.commands[0])
}

func TestInfoSuccess(t *testing.T) {
	b := &mockBackend{}
	want := Info{VIN: "123123412412", Color: "Metallic Silver", DoorCount: DoorCountSedan, DriveTrain: "v8"}
	b.On("Info", mock.Anything, "1234").Return(want, nil)

	got, err := NewAdapter(b).Info(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	b.AssertExpectations(t)
}

func TestUpstreamReasonPassesThrough(t *testing.T) {
	b := &mockBackend{}
	b.On("Fuel", mock.Anything, "1235").
		Return(Energy{}, UpstreamError("Vehicle id: 1235 not found.", errors.New("status 404")))

	_, err := NewAdapter(b).Fuel(context.Background(), "1235")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUpstream))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, OpFuel, e.Op)
	assert.Equal(t, ErrorResult{Status: "Failed", Reason: "Vehicle id: 1235 not found."}, ResultFor(err))
}

func TestTransportFailureIsConnectionError(t *testing.T) {
	b := &mockBackend{}
	em := &recordingEmitter{}
	b.On("Battery", mock.Anything, "1234").Return(Energy{}, errors.New("dial tcp: connection refused"))

	_, err := NewAdapter(b, WithEmitter(em)).Battery(context.Background(), "1234")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))
	assert.Equal(t, ErrorResult{Status: "Failed", Reason: "Connection error"}, ResultFor(err))
	assert.Equal(t, []string{"battery:1234"}, em.failures)
}

type panickingBackend struct{ mockBackend }

func (p *panickingBackend) Doors(ctx context.Context, id string) ([]Door, error) {
	panic("index out of range")
}

func TestPanicBecomesTransportError(t *testing.T) {
	a := NewAdapter(&panickingBackend{})

	doors, err := a.Doors(context.Background(), "1234")
	require.Error(t, err)
	assert.Nil(t, doors)
	assert.True(t, IsKind(err, KindTransport))
	assert.Equal(t, ReasonConnection, ResultFor(err).Reason)
}

func TestEngineSuccessEmitsCommand(t *testing.T) {
	b := &mockBackend{}
	em := &recordingEmitter{}
	b.On("Engine", mock.Anything, "1234", EngineStop).Return(EngineResult{Status: CommandSuccess}, nil)

	res, err := NewAdapter(b, WithEmitter(em)).Engine(context.Background(), "1234", "stop")
	require.NoError(t, err)
	assert.Equal(t, EngineResult{Status: CommandSuccess}, res)
	require.Len(t, em.commands, 1)
	assert.Equal(t, engineCall{"1234", "stop", "success", ""}, em.commands[0])
	b.AssertExpectations(t)
}

func TestQuery(t *testing.T) {
	b := &mockBackend{}
	b.On("Doors", mock.Anything, "1234").Return([]Door{{Location: "frontLeft", Locked: true}}, nil)
	a := NewAdapter(b)

	got, err := a.Query(context.Background(), OpDoors, "1234")
	require.NoError(t, err)
	assert.Equal(t, []Door{{Location: "frontLeft", Locked: true}}, got)

	_, err = a.Query(context.Background(), OpEngine, "1234")
	assert.True(t, IsKind(err, KindDispatch))
	assert.Equal(t, ReasonDispatch, ResultFor(err).Reason)
}

func TestParseQueryOperation(t *testing.T) {
	for action, want := range map[string]Operation{"doors": OpDoors, "fuel": OpFuel, "battery": OpBattery} {
		op, ok := ParseQueryOperation(action)
		assert.True(t, ok, action)
		assert.Equal(t, want, op)
	}
	for _, action := range []string{"engine", "info", "toString", "constructor", "Doors", ""} {
		_, ok := ParseQueryOperation(action)
		assert.False(t, ok, action)
	}
}

func TestResultForPlainError(t *testing.T) {
	assert.Equal(t, ErrorResult{Status: "Failed", Reason: "Connection error"}, ResultFor(errors.New("x")))
	assert.Equal(t, ErrorResult{Status: "Failed", Reason: "Unable to process request"}, ResultFor(DispatchError(nil)))
}

func TestCanonicalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"sedan", Info{VIN: "1", Color: "c", DoorCount: DoorCountSedan, DriveTrain: "v8"},
			`{"vin":"1","color":"c","doorCount":4,"driveTrain":"v8"}`},
		{"coupe", Info{DoorCount: DoorCountCoupe}, `{"vin":"","color":"","doorCount":2,"driveTrain":""}`},
		{"unknown doors", Info{}, `{"vin":"","color":"","doorCount":"Unknown","driveTrain":""}`},
		{"percent", Energy{Percent: PercentOf(30.2)}, `{"percent":30.2}`},
		{"zero percent", Energy{Percent: PercentOf(0)}, `{"percent":0}`},
		{"unavailable", Energy{Percent: Unavailable()}, `{"percent":"Unavailable"}`},
		{"engine", EngineResult{Status: CommandError}, `{"status":"error"}`},
		{"failure", ErrorResult{Status: StatusFailed, Reason: ReasonConnection}, `{"status":"Failed","reason":"Connection error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestDoorCountUnmarshalRejectsOtherCounts(t *testing.T) {
	var d DoorCount
	assert.Error(t, json.Unmarshal([]byte(`3`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"Many"`), &d))
	require.NoError(t, json.Unmarshal([]byte(`"Unknown"`), &d))
	assert.Equal(t, DoorCountUnknown, d)
}
