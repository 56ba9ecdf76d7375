// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

// Package tracker owns the mutable session state of a playthrough: the
// inventory, per-location manual states, character assignments, shop item
// registry, and hints, plus the manual-override layer that takes priority
// over computed values. Every mutation publishes a typed notification on the
// event bus so front ends converge purely from notifications.
package tracker

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType identifies the kind of notification.
type EventType string

const (
	EventTypeInventoryChanged    EventType = "inventory_changed"
	EventTypeLocationChanged     EventType = "location_changed"
	EventTypeCharacterChanged    EventType = "character_changed"
	EventTypeCharacterAssigned   EventType = "character_assigned"
	EventTypeCharacterUnassigned EventType = "character_unassigned"
	EventTypeShopItemsChanged    EventType = "shop_items_changed"
	EventTypeHintsChanged        EventType = "hints_changed"
	EventTypeResetCompleted      EventType = "reset_completed"
)

// Streams. Per-location and per-character events are published on subkeyed
// streams so a widget can subscribe to exactly the entity it renders, or to
// a glob pattern like "location:*" for all of them.
const (
	StreamInventory = "inventory"
	StreamShop      = "shop"
	StreamHints     = "hints"
	StreamReset     = "reset"
)

// LocationStream returns the stream carrying changes for one location.
func LocationStream(name string) string {
	return "location:" + name
}

// CharacterStream returns the stream carrying obtained-state changes for one
// character.
func CharacterStream(name string) string {
	return "character:" + name
}

// AssignmentStream returns the stream carrying assignment changes for one
// location.
func AssignmentStream(location string) string {
	return "assignment:" + location
}

// Event is a point-in-time notification of a state change.
type Event struct {
	ID        ulid.ULID
	Stream    string
	Type      EventType
	Timestamp time.Time
	Payload   []byte // JSON
}

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewULID generates a new ULID for an event.
func NewULID() ulid.ULID {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}
