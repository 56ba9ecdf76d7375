// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

package tracker

import "testing"

func TestBroadcaster_ExactStream(t *testing.T) {
	bc := NewBroadcaster()

	var got []Event
	if _, err := bc.Subscribe("location:Elcid", func(e Event) { got = append(got, e) }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	bc.Broadcast(Event{ID: NewULID(), Stream: LocationStream("Elcid"), Type: EventTypeLocationChanged})
	bc.Broadcast(Event{ID: NewULID(), Stream: LocationStream("Tanbel"), Type: EventTypeLocationChanged})

	if len(got) != 1 {
		t.Fatalf("got %d events, want 1 (exact stream must not see other locations)", len(got))
	}
	if got[0].Stream != "location:Elcid" {
		t.Errorf("stream = %q, want location:Elcid", got[0].Stream)
	}
}

func TestBroadcaster_GlobPattern(t *testing.T) {
	bc := NewBroadcaster()

	var streams []string
	if _, err := bc.Subscribe("location:*", func(e Event) { streams = append(streams, e.Stream) }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	bc.Broadcast(Event{ID: NewULID(), Stream: LocationStream("Elcid")})
	bc.Broadcast(Event{ID: NewULID(), Stream: LocationStream("Tanbel")})
	bc.Broadcast(Event{ID: NewULID(), Stream: StreamInventory})

	if len(streams) != 2 {
		t.Fatalf("got %d events, want 2", len(streams))
	}
	if streams[0] != "location:Elcid" || streams[1] != "location:Tanbel" {
		t.Errorf("streams = %v, delivery must preserve emission order", streams)
	}
}

func TestBroadcaster_CatchAll(t *testing.T) {
	bc := NewBroadcaster()

	count := 0
	if _, err := bc.Subscribe("**", func(Event) { count++ }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	bc.Broadcast(Event{Stream: StreamInventory})
	bc.Broadcast(Event{Stream: LocationStream("Elcid")})
	bc.Broadcast(Event{Stream: StreamReset})

	if count != 3 {
		t.Errorf("catch-all received %d events, want 3", count)
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	bc := NewBroadcaster()

	count := 0
	id, err := bc.Subscribe(StreamInventory, func(Event) { count++ })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	bc.Broadcast(Event{Stream: StreamInventory})
	bc.Unsubscribe(id)
	bc.Broadcast(Event{Stream: StreamInventory})

	if count != 1 {
		t.Errorf("got %d events, want 1 (no delivery after unsubscribe)", count)
	}
}

func TestBroadcaster_SubscriptionOrder(t *testing.T) {
	bc := NewBroadcaster()

	var order []string
	if _, err := bc.Subscribe(StreamInventory, func(Event) { order = append(order, "first") }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, err := bc.Subscribe(StreamInventory, func(Event) { order = append(order, "second") }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	bc.Broadcast(Event{Stream: StreamInventory})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("order = %v, want [first second]", order)
	}
}

func TestBroadcaster_InvalidPattern(t *testing.T) {
	bc := NewBroadcaster()
	if _, err := bc.Subscribe("location:[", func(Event) {}); err == nil {
		t.Error("expected error for invalid glob pattern")
	}
}
