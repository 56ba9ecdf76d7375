// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

package logic

import (
	"sort"
	"strings"

	"github.com/RndmMeme/lufia2-tracker/internal/catalog"
)

// Engine evaluates location accessibility from the catalog's normalized
// access rules and city set. It is pure: every method is a function of its
// inputs and the immutable rule data.
type Engine struct {
	rules  map[string][]catalog.Rule
	cities map[string]struct{}
}

// NewEngine creates an Engine over the given rule and city data. The maps
// are shared, not copied; callers must not mutate them afterwards.
func NewEngine(rules map[string][]catalog.Rule, cities map[string]struct{}) *Engine {
	if rules == nil {
		rules = map[string][]catalog.Rule{}
	}
	if cities == nil {
		cities = map[string]struct{}{}
	}
	return &Engine{rules: rules, cities: cities}
}

// FromCatalog builds an Engine from a catalog.
func FromCatalog(c *catalog.Catalog) *Engine {
	return NewEngine(c.AccessRules(), c.Cities())
}

// IsLocationAccessible reports whether a location is reachable given the set
// of obtained items. A location on the allow-list is always reachable; a
// location absent from the rules is reachable only if it is a known city; an
// empty rule list means always reachable; otherwise at least one rule's
// entire item set must be present.
func (e *Engine) IsLocationAccessible(location string, obtained map[string]struct{}) bool {
	if AlwaysAccessible(location) {
		return true
	}

	rules, ok := e.rules[location]
	if !ok {
		_, city := e.cities[location]
		return city
	}
	if len(rules) == 0 {
		return true
	}

	for _, rule := range rules {
		if ruleSatisfied(rule, obtained) {
			return true
		}
	}
	return false
}

func ruleSatisfied(rule catalog.Rule, obtained map[string]struct{}) bool {
	for _, item := range rule {
		if _, ok := obtained[item]; !ok {
			return false
		}
	}
	return true
}

// CalculateAccessibility evaluates every location known to the rules catalog
// or the city set and returns a complete reachability map over that union.
func (e *Engine) CalculateAccessibility(inventory map[string]bool) map[string]bool {
	obtained := make(map[string]struct{}, len(inventory))
	for item, have := range inventory {
		if have {
			obtained[item] = struct{}{}
		}
	}

	out := make(map[string]bool, len(e.rules)+len(e.cities))
	for location := range e.rules {
		out[location] = e.IsLocationAccessible(location, obtained)
	}
	for location := range e.cities {
		if _, done := out[location]; !done {
			out[location] = e.IsLocationAccessible(location, obtained)
		}
	}
	return out
}

// MissingRequirements formats every rule of a location as an AND-joined
// string ("Bomb & Hook"), deduplicated and sorted. Callers display them as
// alternative requirement sets. Empty if the location has no rules.
func (e *Engine) MissingRequirements(location string) []string {
	rules := e.rules[location]
	if len(rules) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(rules))
	out := make([]string, 0, len(rules))
	for _, rule := range rules {
		formatted := strings.Join(rule, " & ")
		if formatted == "" {
			continue
		}
		if _, dup := seen[formatted]; dup {
			continue
		}
		seen[formatted] = struct{}{}
		out = append(out, formatted)
	}
	sort.Strings(out)
	return out
}

// DetermineState maps a location's reachability and cleared flag to its
// display state. Cleared beats everything; allow-list locations show the
// generic accessible state; cities use city coloring when reachable.
func (e *Engine) DetermineState(location string, accessible, cleared bool) LocationState {
	if cleared {
		return StateCleared
	}
	if AlwaysAccessible(location) {
		return StateAccessible
	}
	if _, city := e.cities[location]; city {
		if accessible {
			return StateCity
		}
		return StateNotAccessible
	}
	if accessible {
		return StateFullyAccessible
	}
	return StateNotAccessible
}

// IsCity reports whether a location is in the city set.
func (e *Engine) IsCity(location string) bool {
	_, ok := e.cities[location]
	return ok
}
