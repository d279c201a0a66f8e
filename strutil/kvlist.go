// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2026 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package strutil

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyValues holds a parsed comma separated key=value list. The zero
// value behaves like an empty list, so all typed getters fall back to
// their defaults.
type KeyValues map[string]string

// ParseKeyValues parses a comma separated key=value list, e.g.
// "vibration_disabled=false,gps_mode=1". The empty string parses to an
// empty list. An item that is not exactly one key=value pair makes the
// whole list invalid.
func ParseKeyValues(s string) (KeyValues, error) {
	kv := make(KeyValues)
	if s == "" {
		return kv, nil
	}
	for _, item := range strings.Split(s, ",") {
		l := strings.Split(item, "=")
		if len(l) != 2 || l[0] == "" {
			return nil, fmt.Errorf("%q is not a valid key=value pair", item)
		}
		kv[l[0]] = l[1]
	}
	return kv, nil
}

// GetString returns the value for key, or dflt if the key is missing.
func (kv KeyValues) GetString(key, dflt string) string {
	if v, ok := kv[key]; ok {
		return v
	}
	return dflt
}

// GetBool returns the value for key parsed as a boolean ("1", "true",
// "0", "false", case-insensitively), or dflt if the key is missing or
// the value unparsable.
func (kv KeyValues) GetBool(key string, dflt bool) bool {
	v, ok := kv[key]
	if !ok {
		return dflt
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return dflt
	}
	return b
}

// GetInt returns the value for key parsed as a decimal integer, or dflt
// if the key is missing or the value unparsable.
func (kv KeyValues) GetInt(key string, dflt int) int {
	v, ok := kv[key]
	if !ok {
		return dflt
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return dflt
	}
	return n
}

// GetFloat returns the value for key parsed as a decimal float, or dflt
// if the key is missing or the value unparsable.
func (kv KeyValues) GetFloat(key string, dflt float64) float64 {
	v, ok := kv[key]
	if !ok {
		return dflt
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return dflt
	}
	return f
}
