// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

package tracker

import (
	"fmt"

	"github.com/RndmMeme/lufia2-tracker/internal/logic"
)

// ValidationError represents an invalid event payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ShopItem is one manually recorded shop entry: an item seen at a location.
type ShopItem struct {
	Location string `json:"location"`
	Name     string `json:"name"`
}

// InventoryChangedPayload carries the full effective inventory after a
// change.
type InventoryChangedPayload struct {
	Inventory map[string]bool `json:"inventory"`
}

// LocationChangedPayload carries a location's new display state.
type LocationChangedPayload struct {
	Name  string              `json:"name"`
	State logic.LocationState `json:"state"`
}

// Validate checks required fields.
func (p LocationChangedPayload) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	return nil
}

// CharacterChangedPayload carries a character's obtained flag.
type CharacterChangedPayload struct {
	Name     string `json:"name"`
	Obtained bool   `json:"obtained"`
}

// Validate checks required fields.
func (p CharacterChangedPayload) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	return nil
}

// AssignmentPayload carries a character-to-location assignment change, used
// for both assigned and unassigned events.
type AssignmentPayload struct {
	Location string `json:"location"`
	Name     string `json:"name"`
}

// Validate checks required fields.
func (p AssignmentPayload) Validate() error {
	if p.Location == "" {
		return &ValidationError{Field: "location", Message: "cannot be empty"}
	}
	if p.Name == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	return nil
}

// ShopItemsChangedPayload carries the full shop registry after a change.
type ShopItemsChangedPayload struct {
	Items []ShopItem `json:"items"`
}

// HintsChangedPayload carries the full hints text after a change.
type HintsChangedPayload struct {
	Text string `json:"text"`
}
