// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

package tracker

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/RndmMeme/lufia2-tracker/internal/catalog"
	"github.com/RndmMeme/lufia2-tracker/internal/logic"
	"github.com/RndmMeme/lufia2-tracker/pkg/errutil"
)

// Store is the single owner of mutable session state. Base layers hold
// authoritative data set by loads and external events; override layers hold
// user toggles and take precedence at read time. Effective values are merged
// on every read and never cached.
//
// Every mutating operation updates state fully, then publishes its
// notifications synchronously, in the documented order, before returning.
type Store struct {
	mu     sync.Mutex
	bus    *Broadcaster
	logger *slog.Logger

	// Reference data for referential guards. Empty when no catalog was
	// attached, which disables the guards.
	knownLocations  map[string]struct{}
	knownCharacters map[string]struct{}
	cities          map[string]struct{}

	// Base layers.
	inventory          map[string]bool
	locations          map[string]logic.LocationState
	characters         map[string]bool
	characterLocations map[string]string
	activeParty        map[string]struct{}
	activePartyList    []string
	obtainedCapsules   map[string]struct{}
	shopItems          []ShopItem
	hints              string

	// Override layers.
	inventoryOverrides map[string]bool
	locationOverrides  map[string]logic.LocationState
	characterOverrides map[string]bool
}

// NewStore creates a Store publishing on bus. cat supplies the known
// location and character names for referential guards; it may be nil, which
// disables them (useful in tests). A nil logger uses slog.Default().
func NewStore(cat *catalog.Catalog, bus *Broadcaster, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		bus:                bus,
		logger:             logger,
		knownLocations:     map[string]struct{}{},
		knownCharacters:    map[string]struct{}{},
		cities:             map[string]struct{}{},
		inventory:          map[string]bool{},
		locations:          map[string]logic.LocationState{},
		characters:         map[string]bool{},
		characterLocations: map[string]string{},
		activeParty:        map[string]struct{}{},
		obtainedCapsules:   map[string]struct{}{},
		inventoryOverrides: map[string]bool{},
		locationOverrides:  map[string]logic.LocationState{},
		characterOverrides: map[string]bool{},
	}

	if cat != nil {
		for name := range cat.Locations() {
			s.knownLocations[name] = struct{}{}
		}
		for name := range cat.AccessRules() {
			s.knownLocations[name] = struct{}{}
		}
		for name := range cat.Cities() {
			s.knownLocations[name] = struct{}{}
			s.cities[name] = struct{}{}
		}
		for name := range cat.Characters() {
			s.knownCharacters[name] = struct{}{}
		}
	}
	return s
}

// Effective-value accessors.

// Inventory returns the effective inventory: base merged with overrides,
// override wins.
func (s *Store) Inventory() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveInventoryLocked()
}

// Locations returns the effective per-location manual states.
func (s *Store) Locations() map[string]logic.LocationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveLocationsLocked()
}

// ObtainedCharacters returns the effective obtained flag per character.
func (s *Store) ObtainedCharacters() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]bool, len(s.characters)+len(s.characterOverrides))
	for k, v := range s.characters {
		out[k] = v
	}
	for k, v := range s.characterOverrides {
		out[k] = v
	}
	return out
}

// CharacterAtLocation returns the character assigned to a location.
func (s *Store) CharacterAtLocation(location string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, ok := s.characterLocations[location]
	return name, ok
}

// CharacterLocations returns a copy of the location-to-character map.
func (s *Store) CharacterLocations() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.characterLocations))
	for k, v := range s.characterLocations {
		out[k] = v
	}
	return out
}

// ActiveParty returns the active party in slot order.
func (s *Store) ActiveParty() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.activePartyList...)
}

// ActivePartyLeader returns the character in the first party slot.
func (s *Store) ActivePartyLeader() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.activePartyList) == 0 {
		return "", false
	}
	return s.activePartyList[0], true
}

// SetActiveParty replaces the active party. Order determines slots.
func (s *Store) SetActiveParty(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeParty = make(map[string]struct{}, len(names))
	s.activePartyList = append([]string(nil), names...)
	for _, n := range names {
		s.activeParty[n] = struct{}{}
	}
}

// ObtainedCapsules returns the obtained capsule monster names, sorted.
func (s *Store) ObtainedCapsules() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.obtainedCapsules))
	for n := range s.obtainedCapsules {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// SetCapsuleObtained records a capsule monster as obtained or not.
func (s *Store) SetCapsuleObtained(name string, obtained bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if obtained {
		s.obtainedCapsules[name] = struct{}{}
	} else {
		delete(s.obtainedCapsules, name)
	}
}

// ShopItems returns a copy of the shop item registry in registration order.
func (s *Store) ShopItems() []ShopItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ShopItem(nil), s.shopItems...)
}

// Hints returns the hints text.
func (s *Store) Hints() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hints
}

// Manual interactions.

// ToggleManualInventory flips the effective value of an item and records the
// flipped value in the override layer.
func (s *Store) ToggleManualInventory(item string) {
	s.mu.Lock()
	current := s.effectiveInventoryLocked()[item]
	s.inventoryOverrides[item] = !current
	ev := s.event(StreamInventory, EventTypeInventoryChanged,
		InventoryChangedPayload{Inventory: s.effectiveInventoryLocked()})
	s.mu.Unlock()

	s.publish(ev)
}

// SetManualLocationState writes a location state into the override layer.
// The state value is trusted; the location name is guarded against the
// catalog when one is attached.
func (s *Store) SetManualLocationState(location string, state logic.LocationState) {
	if !s.locationKnown(location) {
		return
	}

	s.mu.Lock()
	evs := s.setManualLocationStateLocked(location, state)
	s.mu.Unlock()

	s.publish(evs...)
}

func (s *Store) setManualLocationStateLocked(location string, state logic.LocationState) []Event {
	s.locationOverrides[location] = state
	return []Event{s.event(LocationStream(location), EventTypeLocationChanged,
		LocationChangedPayload{Name: location, State: state})}
}

// CycleLocationState advances a location's manual state one step along the
// cycle for its category (cities hold a singleton cycle) and returns the new
// state.
func (s *Store) CycleLocationState(location string) logic.LocationState {
	if !s.locationKnown(location) {
		return logic.StateUnset
	}

	s.mu.Lock()
	current := s.effectiveLocationsLocked()[location]
	_, isCity := s.cities[location]
	next := logic.NextState(current, isCity)
	evs := s.setManualLocationStateLocked(location, next)
	s.mu.Unlock()

	s.publish(evs...)
	return next
}

// SetManualCharacterState writes a character's obtained flag into the
// override layer.
func (s *Store) SetManualCharacterState(name string, obtained bool) {
	if !s.characterKnown(name) {
		return
	}

	s.mu.Lock()
	s.characterOverrides[name] = obtained
	ev := s.event(CharacterStream(name), EventTypeCharacterChanged,
		CharacterChangedPayload{Name: name, Obtained: obtained})
	s.mu.Unlock()

	s.publish(ev)
}

// ResetOverrides clears the inventory, location, and character override
// layers without touching base state, then re-announces the unoverridden
// values so dependent views resync.
func (s *Store) ResetOverrides() {
	s.mu.Lock()
	evs := s.resetOverridesLocked()
	s.mu.Unlock()

	s.publish(evs...)
}

func (s *Store) resetOverridesLocked() []Event {
	s.inventoryOverrides = map[string]bool{}
	s.locationOverrides = map[string]logic.LocationState{}
	s.characterOverrides = map[string]bool{}

	evs := []Event{s.event(StreamInventory, EventTypeInventoryChanged,
		InventoryChangedPayload{Inventory: s.effectiveInventoryLocked()})}
	for _, loc := range sortedKeys(s.locations) {
		evs = append(evs, s.event(LocationStream(loc), EventTypeLocationChanged,
			LocationChangedPayload{Name: loc, State: s.locations[loc]}))
	}
	// Character views resync too; the base layer is authoritative again.
	for _, name := range sortedKeys(s.characters) {
		evs = append(evs, s.event(CharacterStream(name), EventTypeCharacterChanged,
			CharacterChangedPayload{Name: name, Obtained: s.characters[name]}))
	}
	return evs
}

// Characters.

// SetCharacterObtained sets a character's base obtained flag. No
// notification is emitted when the value does not change.
func (s *Store) SetCharacterObtained(name string, obtained bool) {
	if !s.characterKnown(name) {
		return
	}

	s.mu.Lock()
	var evs []Event
	s.setCharacterObtainedLocked(name, obtained, &evs)
	s.mu.Unlock()

	s.publish(evs...)
}

func (s *Store) setCharacterObtainedLocked(name string, obtained bool, evs *[]Event) {
	prev, existed := s.characters[name]
	s.characters[name] = obtained
	if existed && prev == obtained {
		return
	}
	*evs = append(*evs, s.event(CharacterStream(name), EventTypeCharacterChanged,
		CharacterChangedPayload{Name: name, Obtained: obtained}))
}

// AssignCharacterToLocation installs a character at a location. A character
// assigned elsewhere is silently moved (the old location gets an unassigned
// notification); a different character already at the target is evicted and
// marked not-obtained. The location is forced to cleared. Identical
// re-assignment is a no-op.
func (s *Store) AssignCharacterToLocation(location, name string) {
	if !s.locationKnown(location) || !s.characterKnown(name) {
		return
	}

	s.mu.Lock()
	if s.characterLocations[location] == name {
		s.mu.Unlock()
		return
	}

	var evs []Event

	// Move: drop any previous assignment of this character.
	for loc, ch := range s.characterLocations {
		if ch == name {
			delete(s.characterLocations, loc)
			evs = append(evs, s.event(AssignmentStream(loc), EventTypeCharacterUnassigned,
				AssignmentPayload{Location: loc, Name: name}))
			break
		}
	}

	// Evict: a different occupant loses the spot and its obtained flag.
	if old, ok := s.characterLocations[location]; ok && old != name {
		s.setCharacterObtainedLocked(old, false, &evs)
		evs = append(evs, s.event(AssignmentStream(location), EventTypeCharacterUnassigned,
			AssignmentPayload{Location: location, Name: old}))
	}

	s.characterLocations[location] = name
	s.setCharacterObtainedLocked(name, true, &evs)
	evs = append(evs, s.setManualLocationStateLocked(location, logic.StateCleared)...)
	evs = append(evs, s.event(AssignmentStream(location), EventTypeCharacterAssigned,
		AssignmentPayload{Location: location, Name: name}))
	s.mu.Unlock()

	s.publish(evs...)
}

// RemoveCharacterAssignment removes the assignment at a location, marking
// the character not-obtained. No-op when nothing was assigned.
func (s *Store) RemoveCharacterAssignment(location string) {
	s.mu.Lock()
	name, ok := s.characterLocations[location]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.characterLocations, location)

	var evs []Event
	s.setCharacterObtainedLocked(name, false, &evs)
	evs = append(evs, s.event(AssignmentStream(location), EventTypeCharacterUnassigned,
		AssignmentPayload{Location: location, Name: name}))
	s.mu.Unlock()

	s.publish(evs...)
}

// RegisterSpoilerLocation records a known character placement from a spoiler
// log. Unlike AssignCharacterToLocation it writes the mapping directly: no
// move, no eviction, no obtained or cleared side effects.
func (s *Store) RegisterSpoilerLocation(location, name string) {
	if !s.locationKnown(location) || !s.characterKnown(name) {
		return
	}

	s.mu.Lock()
	s.characterLocations[location] = name
	ev := s.event(AssignmentStream(location), EventTypeCharacterAssigned,
		AssignmentPayload{Location: location, Name: name})
	s.mu.Unlock()

	s.publish(ev)
}

// Shop registry.

// RegisterShopItem records an item seen at a location's shop. The exact pair
// is unique; duplicates are no-ops.
func (s *Store) RegisterShopItem(location, name string) {
	if !s.locationKnown(location) {
		return
	}

	s.mu.Lock()
	for _, entry := range s.shopItems {
		if entry.Location == location && entry.Name == name {
			s.mu.Unlock()
			return
		}
	}
	s.shopItems = append(s.shopItems, ShopItem{Location: location, Name: name})
	ev := s.shopItemsEventLocked()
	s.mu.Unlock()

	s.publish(ev)
}

// UnregisterShopItem removes a shop entry by exact match.
func (s *Store) UnregisterShopItem(location, name string) {
	s.mu.Lock()
	kept := s.shopItems[:0]
	for _, entry := range s.shopItems {
		if entry.Location != location || entry.Name != name {
			kept = append(kept, entry)
		}
	}
	s.shopItems = kept
	ev := s.shopItemsEventLocked()
	s.mu.Unlock()

	s.publish(ev)
}

// ClearShopItems empties the shop registry.
func (s *Store) ClearShopItems() {
	s.mu.Lock()
	s.shopItems = nil
	ev := s.shopItemsEventLocked()
	s.mu.Unlock()

	s.publish(ev)
}

func (s *Store) shopItemsEventLocked() Event {
	return s.event(StreamShop, EventTypeShopItemsChanged,
		ShopItemsChangedPayload{Items: append([]ShopItem(nil), s.shopItems...)})
}

// UpdateHints replaces the hints text, notifying only on actual change.
func (s *Store) UpdateHints(text string) {
	s.mu.Lock()
	if s.hints == text {
		s.mu.Unlock()
		return
	}
	s.hints = text
	ev := s.event(StreamHints, EventTypeHintsChanged, HintsChangedPayload{Text: text})
	s.mu.Unlock()

	s.publish(ev)
}

// ResetState wipes the whole session back to empty: inventory, characters,
// active party, capsules, overrides, assignments, locations, shop items, and
// hints. Existing assignments get an unassigned notification before the
// clear; afterwards every category re-announces its empty baseline, every
// known character is announced not-obtained, and a single reset_completed
// closes the sequence as a catch-all resync point.
func (s *Store) ResetState() {
	s.mu.Lock()

	var evs []Event
	for _, loc := range sortedKeys(s.characterLocations) {
		evs = append(evs, s.event(AssignmentStream(loc), EventTypeCharacterUnassigned,
			AssignmentPayload{Location: loc, Name: s.characterLocations[loc]}))
	}

	s.inventory = map[string]bool{}
	s.locations = map[string]logic.LocationState{}
	s.characters = map[string]bool{}
	s.characterLocations = map[string]string{}
	s.activeParty = map[string]struct{}{}
	s.activePartyList = nil
	s.obtainedCapsules = map[string]struct{}{}
	s.shopItems = nil
	s.hints = ""
	s.inventoryOverrides = map[string]bool{}
	s.locationOverrides = map[string]logic.LocationState{}
	s.characterOverrides = map[string]bool{}

	evs = append(evs, s.event(StreamInventory, EventTypeInventoryChanged,
		InventoryChangedPayload{Inventory: map[string]bool{}}))
	evs = append(evs, s.shopItemsEventLocked())
	evs = append(evs, s.event(StreamHints, EventTypeHintsChanged, HintsChangedPayload{Text: ""}))
	for _, name := range sortedSet(s.knownCharacters) {
		evs = append(evs, s.event(CharacterStream(name), EventTypeCharacterChanged,
			CharacterChangedPayload{Name: name, Obtained: false}))
	}
	evs = append(evs, s.event(StreamReset, EventTypeResetCompleted, struct{}{}))
	s.mu.Unlock()

	s.publish(evs...)
}

// Internal helpers.

func (s *Store) effectiveInventoryLocked() map[string]bool {
	out := make(map[string]bool, len(s.inventory)+len(s.inventoryOverrides))
	for k, v := range s.inventory {
		out[k] = v
	}
	for k, v := range s.inventoryOverrides {
		out[k] = v
	}
	return out
}

func (s *Store) effectiveLocationsLocked() map[string]logic.LocationState {
	out := make(map[string]logic.LocationState, len(s.locations)+len(s.locationOverrides))
	for k, v := range s.locations {
		out[k] = v
	}
	for k, v := range s.locationOverrides {
		out[k] = v
	}
	return out
}

// locationKnown guards operations against locations absent from the
// catalog. An unknown name is logged and the operation becomes a no-op; with
// no catalog attached every name passes.
func (s *Store) locationKnown(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.knownLocations) == 0 {
		return true
	}
	if _, ok := s.knownLocations[name]; ok {
		return true
	}
	s.logger.Warn("operation on unknown location ignored", "location", name)
	return false
}

func (s *Store) characterKnown(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.knownCharacters) == 0 {
		return true
	}
	if _, ok := s.knownCharacters[name]; ok {
		return true
	}
	s.logger.Warn("operation on unknown character ignored", "character", name)
	return false
}

// validator is implemented by payloads carrying required fields.
type validator interface {
	Validate() error
}

func (s *Store) event(stream string, typ EventType, payload any) Event {
	if v, ok := payload.(validator); ok {
		if err := v.Validate(); err != nil {
			err = oops.Code("EVENT_PAYLOAD_INVALID").
				With("stream", stream).
				With("event_type", typ).
				Wrap(err)
			errutil.LogError(s.logger, "invalid event payload", err)
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to marshal event payload",
			"stream", stream, "event_type", typ, "error", err)
	}
	return Event{
		ID:        NewULID(),
		Stream:    stream,
		Type:      typ,
		Timestamp: time.Now().UTC(),
		Payload:   data,
	}
}

// publish delivers events after the store's lock has been released, so
// handlers observe fully updated state.
func (s *Store) publish(events ...Event) {
	if s.bus == nil {
		return
	}
	for _, e := range events {
		s.bus.Broadcast(e)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSet(m map[string]struct{}) []string {
	return sortedKeys(m)
}
