// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

package logic

import "testing"

func TestNextState_DungeonCycle(t *testing.T) {
	tests := []struct {
		current LocationState
		want    LocationState
	}{
		{StateNotAccessible, StateFullyAccessible},
		{StateFullyAccessible, StateCleared},
		{StateCleared, StateNotAccessible},
		{StateUnset, StateNotAccessible},
		{StateCity, StateNotAccessible}, // out-of-cycle state restarts
	}

	for _, tt := range tests {
		if got := NextState(tt.current, false); got != tt.want {
			t.Errorf("NextState(%q, false) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestNextState_CycleReturnsToStart(t *testing.T) {
	s := StateNotAccessible
	for i := 0; i < 3; i++ {
		s = NextState(s, false)
	}
	if s != StateNotAccessible {
		t.Errorf("three steps should return to start, got %q", s)
	}
}

func TestNextState_CityIsFixedPoint(t *testing.T) {
	for _, current := range []LocationState{StateUnset, StateCity, StateCleared} {
		if got := NextState(current, true); got != StateCity {
			t.Errorf("NextState(%q, true) = %q, want %q", current, got, StateCity)
		}
	}
}

func TestAlwaysAccessible(t *testing.T) {
	for _, loc := range []string{"Foomy Woods", "Mnt.Of No Return", "Shaia Lab", "Darbi Shrine", "Cave to Sundletan"} {
		if !AlwaysAccessible(loc) {
			t.Errorf("%q should be on the allow-list", loc)
		}
	}
	if AlwaysAccessible("Elcid") {
		t.Error("Elcid should not be on the allow-list")
	}
}
