// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// normalizeRule converts one raw rule entry into a Rule. The data files mix
// shapes: a rule may be a string "ItemA,ItemB" (comma means AND), a list of
// item names, or a stray scalar. Malformed entries are coerced to their
// string form rather than rejected. An entry that coerces to nothing keeps
// the empty item name, which no inventory ever contains: coercion may at
// worst make a rule unmatchable, never open a location up. Only a genuinely
// empty list normalizes to nil.
func normalizeRule(raw json.RawMessage) Rule {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return splitRuleString(s)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return nil
		}
		rule := make(Rule, 0, len(list))
		for _, el := range list {
			rule = append(rule, coerceItemName(el))
		}
		return rule
	}

	return Rule{coerceItemName(raw)}
}

// splitRuleString splits a comma-separated AND-set, trimming each component.
// Empty components are kept as required items, so a blank rule stays
// unsatisfiable.
func splitRuleString(s string) Rule {
	parts := strings.Split(s, ",")
	rule := make(Rule, len(parts))
	for i, p := range parts {
		rule[i] = strings.TrimSpace(p)
	}
	return rule
}

// coerceItemName renders a raw JSON value as a trimmed item name.
func coerceItemName(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// normalizeNameSet extracts a list of names from a document that is either
// a JSON array of names or an object. For objects, string values are taken
// as the names (id to name form); otherwise the keys are the names.
func normalizeNameSet(data json.RawMessage) []string {
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		names := make([]string, 0, len(list))
		for _, el := range list {
			if name := coerceItemName(el); name != "" {
				names = append(names, name)
			}
		}
		return names
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	names := make([]string, 0, len(obj))
	for key, raw := range obj {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			names = append(names, strings.TrimSpace(s))
			continue
		}
		if name := strings.TrimSpace(key); name != "" {
			names = append(names, name)
		}
	}
	return names
}

type orderedPair struct {
	key   string
	value string
}

// decodeOrderedPairs decodes a flat JSON object of string to string while
// preserving the file's key order. Needed for the location name mapping,
// where the first matching entry wins.
func decodeOrderedPairs(data json.RawMessage) ([]orderedPair, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var pairs []orderedPair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}

		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("value for %q is not a string: %w", key, err)
		}
		pairs = append(pairs, orderedPair{key: key, value: value})
	}
	return pairs, nil
}
