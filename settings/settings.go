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

// Package settings provides access to the externally managed settings
// store that drives the battery saver policy. The store owns all
// persistence and change notification; the policy only ever sees plain
// strings.
package settings

// Settings keys consulted by the battery saver policy.
const (
	// KeyBatterySaverConstants holds the comma separated key=value
	// list with the main battery saver knobs.
	KeyBatterySaverConstants = "battery_saver_constants"

	// KeyDeviceSpecificConstants holds the device specific knobs,
	// i.e. the CPU frequency caps.
	KeyDeviceSpecificConstants = "battery_saver_device_specific_constants"

	// KeyGPSMode holds the default GPS behavior used when the main
	// constants do not set gps_mode.
	KeyGPSMode = "battery_saver_gps_mode"
)

// A Store gives read access to the settings. Get returns the empty
// string for unset keys.
type Store interface {
	Get(key string) (string, error)
}

// A Watcher is a Store that can report changes to its settings.
type Watcher interface {
	Store

	// Watch arranges for fn to be called after any setting changes,
	// until the returned stop function is called. fn is called from
	// an internal goroutine.
	Watch(fn func()) (stop func(), err error)
}
