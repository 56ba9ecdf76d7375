// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

// Package catalog loads and caches the static reference data shipped with the
// tracker: location coordinates, access rules, the city list, and the item,
// tool, and character catalogs. All accessors return defensive copies in one
// canonical shape; the flexible JSON layouts of the data files are normalized
// here so the rest of the program never sees them.
package catalog

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/samber/oops"

	"github.com/RndmMeme/lufia2-tracker/pkg/errutil"
)

// Data file names within the catalog directory.
const (
	FileLocations       = "locations.json"
	FileAccessRules     = "locations_logic.json"
	FileCities          = "cities.json"
	FileItemsSpells     = "items_spells.json"
	FileToolItems       = "tool_items.json"
	FileCharacters      = "characters.json"
	FileLocationMapping = "location_name_mapping.json"
)

// Game coordinate space and the fixed canvas the front end scales to.
const (
	GameWorldSize = 4096
	CanvasSize    = 400
)

// Point is a position in game coordinates.
type Point struct {
	X float64
	Y float64
}

// CanvasPosition scales a game-space point to the fixed 400x400 canvas.
func (p Point) CanvasPosition() Point {
	const scale = float64(CanvasSize) / float64(GameWorldSize)
	return Point{X: p.X * scale, Y: p.Y * scale}
}

// Rule is one AND-set of required item names. A location's rule list is
// evaluated as OR across rules.
type Rule []string

// Catalog provides memoized access to the static data files. Missing or
// malformed files degrade to empty structures; they are logged once on first
// load and never fail resolution.
type Catalog struct {
	dir    string
	logger *slog.Logger

	mu       sync.Mutex
	cache    map[string]json.RawMessage
	failures map[string]error
}

// New creates a Catalog reading from dir. If logger is nil, slog.Default()
// is used.
func New(dir string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		dir:      dir,
		logger:   logger,
		cache:    make(map[string]json.RawMessage),
		failures: make(map[string]error),
	}
}

// raw returns the raw bytes of a data file, reading it at most once. A file
// that cannot be read or does not contain valid JSON is cached as empty so
// repeated lookups stay cheap and consistent.
func (c *Catalog) raw(name string) json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	if data, ok := c.cache[name]; ok {
		return data
	}

	path := filepath.Join(c.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		err = oops.Code("CATALOG_READ_FAILED").With("file", name).Wrap(err)
		errutil.LogWarn(c.logger, "catalog file unavailable, using empty data", err)
		c.cache[name] = nil
		c.failures[name] = err
		return nil
	}
	if !json.Valid(data) {
		err = oops.Code("CATALOG_DECODE_FAILED").With("file", name).Errorf("invalid JSON document")
		errutil.LogWarn(c.logger, "catalog file malformed, using empty data", err)
		c.cache[name] = nil
		c.failures[name] = err
		return nil
	}

	c.cache[name] = json.RawMessage(data)
	return c.cache[name]
}

// LoadFailures returns the files that failed to load so far, keyed by file
// name. Used by validation tooling; resolution paths never consult this.
func (c *Catalog) LoadFailures() map[string]error {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]error, len(c.failures))
	for name, err := range c.failures {
		out[name] = err
	}
	return out
}

// Locations returns location name to game-space coordinates.
func (c *Catalog) Locations() map[string]Point {
	out := make(map[string]Point)

	var entries map[string][]float64
	if !c.decode(FileLocations, &entries) {
		return out
	}
	for name, coords := range entries {
		if len(coords) < 2 {
			c.logger.Warn("location has malformed coordinates", "location", name)
			continue
		}
		out[name] = Point{X: coords[0], Y: coords[1]}
	}
	return out
}

// AccessRules returns location name to its normalized rule list. A location
// present with an empty rule list is always reachable; see the logic package
// for evaluation.
func (c *Catalog) AccessRules() map[string][]Rule {
	out := make(map[string][]Rule)

	var entries map[string]struct {
		AccessRules []json.RawMessage `json:"access_rules"`
	}
	if !c.decode(FileAccessRules, &entries) {
		return out
	}
	for name, entry := range entries {
		rules := make([]Rule, 0, len(entry.AccessRules))
		for _, raw := range entry.AccessRules {
			if rule := normalizeRule(raw); rule != nil {
				rules = append(rules, rule)
			}
		}
		out[name] = rules
	}
	return out
}

// Cities returns the set of city names. The file may be a JSON array of
// names or an object keyed by name.
func (c *Catalog) Cities() map[string]struct{} {
	out := make(map[string]struct{})

	data := c.raw(FileCities)
	if data == nil {
		return out
	}
	for _, name := range normalizeNameSet(data) {
		out[name] = struct{}{}
	}
	return out
}

// ItemsSpells returns the item and spell catalog grouped by category, each
// category a sorted list of names. Category contents may be stored as a
// list of names or an object of id to name.
func (c *Catalog) ItemsSpells() map[string][]string {
	out := make(map[string][]string)

	var entries map[string]json.RawMessage
	if !c.decode(FileItemsSpells, &entries) {
		return out
	}
	for category, raw := range entries {
		names := normalizeNameSet(raw)
		sort.Strings(names)
		out[category] = names
	}
	return out
}

// ToolItems returns the tool item names, sorted.
func (c *Catalog) ToolItems() []string {
	data := c.raw(FileToolItems)
	if data == nil {
		return nil
	}
	names := normalizeNameSet(data)
	sort.Strings(names)
	return names
}

// Characters returns character name to image path.
func (c *Catalog) Characters() map[string]string {
	out := make(map[string]string)

	var entries map[string]struct {
		ImagePath string `json:"image_path"`
	}
	if !c.decode(FileCharacters, &entries) {
		return out
	}
	for name, entry := range entries {
		out[name] = entry.ImagePath
	}
	return out
}

// NormalizeLocationName maps an external spoiler-log location name to the
// internal canonical name using the mapping table. The table maps internal
// name to spoiler name; the first entry in file order whose value matches
// wins. Unmapped names pass through unchanged; an empty name is "Unknown".
func (c *Catalog) NormalizeLocationName(raw string) string {
	if raw == "" {
		return "Unknown"
	}

	data := c.raw(FileLocationMapping)
	if data == nil {
		return raw
	}
	pairs, err := decodeOrderedPairs(data)
	if err != nil {
		c.logger.Warn("location name mapping malformed", "error", err)
		return raw
	}
	for _, p := range pairs {
		if p.value == raw {
			return p.key
		}
	}
	return raw
}

// decode unmarshals a cached data file into v. Decode failures are logged
// and reported as false so callers fall back to empty structures.
func (c *Catalog) decode(name string, v any) bool {
	data := c.raw(name)
	if data == nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.logger.Error("catalog file has unexpected shape, using empty data",
			"file", name, "error", err)
		return false
	}
	return true
}
