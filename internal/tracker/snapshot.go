// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

package tracker

import (
	"encoding/json"
	"os"

	"github.com/samber/oops"

	"github.com/RndmMeme/lufia2-tracker/internal/logic"
)

// snapshot is the persisted session layout. Both override layers and the
// full base layers are captured so a restore reproduces the exact effective
// state. The document carries no schema version; loading an older or newer
// shape is undefined and flagged as a known compatibility risk.
type snapshot struct {
	InventoryOverrides map[string]bool                `json:"inventory_overrides"`
	LocationOverrides  map[string]logic.LocationState `json:"location_overrides"`
	CharacterLocations map[string]string              `json:"character_locations"`
	Inventory          map[string]bool                `json:"inventory"`
	Locations          map[string]logic.LocationState `json:"locations"`
	Characters         map[string]bool                `json:"characters"`
	ActiveParty        []string                       `json:"active_party"`
	ObtainedCapsules   []string                       `json:"obtained_capsules"`
	ShopItems          []ShopItem                     `json:"shop_items"`
	Hints              string                         `json:"hints"`
}

// SaveState serializes the session to path. The file is written atomically
// (temp file then rename) so an interrupted save never leaves a truncated
// snapshot behind. I/O errors propagate to the caller.
func (s *Store) SaveState(path string) error {
	s.mu.Lock()
	snap := snapshot{
		InventoryOverrides: copyMap(s.inventoryOverrides),
		LocationOverrides:  copyMap(s.locationOverrides),
		CharacterLocations: copyMap(s.characterLocations),
		Inventory:          copyMap(s.inventory),
		Locations:          copyMap(s.locations),
		Characters:         copyMap(s.characters),
		ActiveParty:        append([]string{}, s.activePartyList...),
		ObtainedCapsules:   sortedSet(s.obtainedCapsules),
		ShopItems:          append([]ShopItem{}, s.shopItems...),
		Hints:              s.hints,
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return oops.Code("SAVE_ENCODE_FAILED").With("path", path).Wrap(err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return oops.Code("SAVE_WRITE_FAILED").With("path", path).Wrap(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			s.logger.Warn("failed to remove temp save file", "path", tmp, "error", removeErr)
		}
		return oops.Code("SAVE_RENAME_FAILED").With("path", path).Wrap(err)
	}

	s.logger.Info("session saved", "path", path)
	return nil
}

// LoadState restores the session from path and re-announces every
// notification category so attached front ends converge to the loaded state
// purely from notifications. Absent fields default to empty. I/O and decode
// errors propagate to the caller.
func (s *Store) LoadState(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return oops.Code("LOAD_READ_FAILED").With("path", path).Wrap(err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return oops.Code("LOAD_DECODE_FAILED").With("path", path).Wrap(err)
	}

	s.mu.Lock()
	s.inventoryOverrides = orEmpty(snap.InventoryOverrides)
	s.locationOverrides = orEmpty(snap.LocationOverrides)
	s.characterOverrides = map[string]bool{}
	s.inventory = orEmpty(snap.Inventory)
	s.locations = orEmpty(snap.Locations)
	s.characters = orEmpty(snap.Characters)
	s.characterLocations = orEmpty(snap.CharacterLocations)
	s.activePartyList = append([]string(nil), snap.ActiveParty...)
	s.activeParty = make(map[string]struct{}, len(snap.ActiveParty))
	for _, n := range snap.ActiveParty {
		s.activeParty[n] = struct{}{}
	}
	s.obtainedCapsules = make(map[string]struct{}, len(snap.ObtainedCapsules))
	for _, n := range snap.ObtainedCapsules {
		s.obtainedCapsules[n] = struct{}{}
	}
	s.shopItems = append([]ShopItem(nil), snap.ShopItems...)
	s.hints = snap.Hints

	evs := []Event{
		s.shopItemsEventLocked(),
		s.event(StreamHints, EventTypeHintsChanged, HintsChangedPayload{Text: s.hints}),
		s.event(StreamInventory, EventTypeInventoryChanged,
			InventoryChangedPayload{Inventory: s.effectiveInventoryLocked()}),
	}
	for _, loc := range sortedKeys(s.locations) {
		evs = append(evs, s.event(LocationStream(loc), EventTypeLocationChanged,
			LocationChangedPayload{Name: loc, State: s.locations[loc]}))
	}
	for _, loc := range sortedKeys(s.characterLocations) {
		evs = append(evs, s.event(AssignmentStream(loc), EventTypeCharacterAssigned,
			AssignmentPayload{Location: loc, Name: s.characterLocations[loc]}))
	}
	for _, name := range sortedKeys(s.characters) {
		evs = append(evs, s.event(CharacterStream(name), EventTypeCharacterChanged,
			CharacterChangedPayload{Name: name, Obtained: s.characters[name]}))
	}
	s.mu.Unlock()

	s.publish(evs...)
	s.logger.Info("session loaded", "path", path)
	return nil
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func orEmpty[V any](m map[string]V) map[string]V {
	if m == nil {
		return map[string]V{}
	}
	return m
}
