package engine

import "testing"

func TestEventBusFiltering(t *testing.T) {
	eb := NewEventBus()

	var all, commands int
	eb.Subscribe(func(Event) { all++ })
	eb.SubscribeTypes(func(Event) { commands++ }, EventEngineCommand)

	eb.Emit(Event{Type: EventEngineCommand, Payload: EngineCommandEvent{VehicleID: "1234"}})
	eb.Emit(Event{Type: EventUpstreamFailure, Payload: UpstreamFailureEvent{VehicleID: "1234"}})

	if all != 2 {
		t.Errorf("all = %d, want 2", all)
	}
	if commands != 1 {
		t.Errorf("commands = %d, want 1", commands)
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	eb := NewEventBus()
	var n int
	id := eb.Subscribe(func(Event) { n++ })
	eb.Emit(Event{Type: EventEngineCommand})
	eb.Unsubscribe(id)
	eb.Emit(Event{Type: EventEngineCommand})

	if n != 1 {
		t.Errorf("n = %d, want 1", n)
	}
}

func TestEventBusTimestamp(t *testing.T) {
	eb := NewEventBus()
	var got Event
	eb.Subscribe(func(e Event) { got = e })
	eb.Emit(Event{Type: EventMessagingConnected})

	if got.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestEventBusSubscribeDuringEmit(t *testing.T) {
	eb := NewEventBus()
	var late int
	eb.Subscribe(func(Event) {
		eb.Subscribe(func(Event) { late++ })
	})
	eb.Emit(Event{Type: EventEngineCommand})

	if late != 0 {
		t.Errorf("late subscriber saw the in-flight event")
	}
}

func TestEventBusHandlerPanicIsContained(t *testing.T) {
	eb := NewEventBus()
	var after int
	eb.Subscribe(func(Event) { panic("boom") })
	eb.Subscribe(func(Event) { after++ })

	eb.Emit(Event{Type: EventEngineCommand})

	if after != 1 {
		t.Errorf("after = %d, want 1", after)
	}
}

func TestEventBusDuplicateTypesDeliverOnce(t *testing.T) {
	eb := NewEventBus()
	var n int
	eb.SubscribeTypes(func(Event) { n++ }, EventUpstreamFailure, EventUpstreamFailure)
	eb.Emit(Event{Type: EventUpstreamFailure})

	if n != 1 {
		t.Errorf("n = %d, want 1", n)
	}
}

func TestEventBusOrder(t *testing.T) {
	eb := NewEventBus()
	var got []string
	eb.SubscribeTypes(func(Event) { got = append(got, "typed1") }, EventEngineCommand)
	eb.Subscribe(func(Event) { got = append(got, "any") })
	eb.SubscribeTypes(func(Event) { got = append(got, "typed2") }, EventEngineCommand)

	eb.Emit(Event{Type: EventEngineCommand})

	want := []string{"any", "typed1", "typed2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEventBusUnsubscribeTyped(t *testing.T) {
	eb := NewEventBus()
	var n int
	id := eb.SubscribeTypes(func(Event) { n++ }, EventEngineCommand, EventUpstreamFailure)
	eb.Unsubscribe(id)
	eb.Unsubscribe(id + 100)

	eb.Emit(Event{Type: EventEngineCommand})
	eb.Emit(Event{Type: EventUpstreamFailure})

	if n != 0 {
		t.Errorf("n = %d, want 0", n)
	}
}
