// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

// Package logic decides, for each location, whether it is reachable from a
// snapshot of obtained items, and maps reachability to the display state the
// front end renders.
package logic

// LocationState identifies the display state of a location.
type LocationState string

// Location display states.
const (
	StateUnset           LocationState = ""
	StateNotAccessible   LocationState = "not_accessible"
	StateFullyAccessible LocationState = "fully_accessible"
	// StateAccessible marks locations on the always-accessible allow-list.
	StateAccessible LocationState = "accessible"
	StateCity       LocationState = "city"
	StateCleared    LocationState = "cleared"
)

// String returns the string representation of the state.
func (s LocationState) String() string {
	return string(s)
}

// The manual-interaction cycle for regular locations. Cities cycle through
// the singleton city state instead.
var dungeonCycle = []LocationState{StateNotAccessible, StateFullyAccessible, StateCleared}

// NextState advances a location's manual state one step along the cycle for
// its category. An unset or out-of-cycle current state maps to the first
// element of the cycle.
func NextState(current LocationState, isCity bool) LocationState {
	if isCity {
		return StateCity
	}

	for i, s := range dungeonCycle {
		if s == current {
			return dungeonCycle[(i+1)%len(dungeonCycle)]
		}
	}
	return dungeonCycle[0]
}

// Locations reachable regardless of inventory or rule data.
var alwaysAccessible = map[string]struct{}{
	"Foomy Woods":       {},
	"Mnt.Of No Return":  {},
	"Shaia Lab":         {},
	"Darbi Shrine":      {},
	"Cave to Sundletan": {},
}

// AlwaysAccessible reports whether a location bypasses rule evaluation.
func AlwaysAccessible(location string) bool {
	_, ok := alwaysAccessible[location]
	return ok
}
